package plan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestHandler() *Handler {
	return NewHandler(testService(NewMemorySessionRepository(time.Hour)))
}

func postJSON(e *echo.Echo, path, body, session string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_key", session)
	return c, rec
}

func TestHandler_SubmitPlan(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	body := `{
		"patient_name": "Jane Doe",
		"insurance_max": "1000",
		"rows": [
			{"procedure_name": "Crown", "cost": "1000", "coverage": "80"}
		],
		"apr_percent": "12",
		"term_months": "12"
	}`
	c, rec := postJSON(e, "/api/v1/plans", body, "sess-1")

	if err := h.SubmitPlan(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res PlanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.Rows[0].InsurancePay != "$800.00" {
		t.Errorf("insurance = %s, want $800.00", res.Rows[0].InsurancePay)
	}
	if res.PatientName != "Jane Doe" {
		t.Errorf("patient name = %q", res.PatientName)
	}
}

func TestHandler_SubmitPlan_BadJSON(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	c, _ := postJSON(e, "/api/v1/plans", `{not json`, "sess-1")

	err := h.SubmitPlan(c)
	if err == nil {
		t.Fatal("expected bind error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestHandler_RecomputeInline_NoSubmission(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	c, _ := postJSON(e, "/api/v1/plans/inline", `{"rows": []}`, "sess-1")

	err := h.RecomputeInline(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestHandler_InlineAfterSubmit(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	submit := `{
		"insurance_max": "1000",
		"rows": [{"procedure_name": "Crown", "cost": "1000", "coverage": "80"}]
	}`
	c, rec := postJSON(e, "/api/v1/plans", submit, "sess-1")
	if err := h.SubmitPlan(c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	inline := `{
		"insurance_max": "1000",
		"rows": [{"display_name": "Crown", "cost": "1000"}],
		"row_overrides": [{"insurance": "700"}],
		"totals_override": {"monthly": "50"}
	}`
	c, rec = postJSON(e, "/api/v1/plans/inline", inline, "sess-1")
	if err := h.RecomputeInline(c); err != nil {
		t.Fatalf("inline: %v", err)
	}

	var res PlanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.Rows[0].InsurancePay != "$700.00" {
		t.Errorf("insurance = %s, want override $700.00", res.Rows[0].InsurancePay)
	}
	if !res.MonthlyTotal.Overridden {
		t.Error("monthly total not marked overridden")
	}
}

func TestHandler_LastForm(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/last", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_key", "sess-1")

	err := h.LastForm(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("empty slot: err = %v, want 404", err)
	}

	c2, _ := postJSON(e, "/api/v1/plans", `{"patient_name": "Jane", "rows": [{"procedure_name": "Crown", "cost": "1"}]}`, "sess-1")
	if err := h.SubmitPlan(c2); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/plans/last", nil), rec)
	c.Set("session_key", "sess-1")
	if err := h.LastForm(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var form SessionForm
	if err := json.Unmarshal(rec.Body.Bytes(), &form); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if form.PatientName != "Jane" {
		t.Errorf("patient name = %q", form.PatientName)
	}
}

func TestHandler_Reset(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	c, _ := postJSON(e, "/api/v1/plans", `{"rows": [{"procedure_name": "Crown", "cost": "1"}]}`, "sess-1")
	if err := h.SubmitPlan(c); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/v1/plans/last", nil), rec)
	c.Set("session_key", "sess-1")
	if err := h.Reset(c); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/plans/last", nil), httptest.NewRecorder())
	c.Set("session_key", "sess-1")
	err := h.LastForm(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("after reset: err = %v, want 404", err)
	}
}

func TestHandler_SessionsAreIsolated(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	c, _ := postJSON(e, "/api/v1/plans", `{"rows": [{"procedure_name": "Crown", "cost": "1"}]}`, "sess-a")
	if err := h.SubmitPlan(c); err != nil {
		t.Fatalf("submit: %v", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/plans/last", nil), httptest.NewRecorder())
	c.Set("session_key", "sess-b")
	err := h.LastForm(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("other session: err = %v, want 404", err)
	}
}
