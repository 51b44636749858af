package plan

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/plans", h.SubmitPlan)
	api.POST("/plans/inline", h.RecomputeInline)
	api.GET("/plans/last", h.LastForm)
	api.DELETE("/plans/last", h.Reset)
}

// sessionKey returns the editing session key set by the session cookie
// middleware.
func sessionKey(c echo.Context) string {
	if key, ok := c.Get("session_key").(string); ok {
		return key
	}
	return ""
}

func (h *Handler) SubmitPlan(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.SubmitPlan(c.Request().Context(), sessionKey(c), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) RecomputeInline(c echo.Context) error {
	var req InlineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.RecomputeInline(c.Request().Context(), sessionKey(c), req)
	if err != nil {
		if errors.Is(err, ErrNoSubmission) {
			return echo.NewHTTPError(http.StatusNotFound, ErrNoSubmission.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) LastForm(c echo.Context) error {
	form, err := h.svc.LastForm(c.Request().Context(), sessionKey(c))
	if err != nil {
		if errors.Is(err, ErrNoSubmission) {
			return echo.NewHTTPError(http.StatusNotFound, ErrNoSubmission.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, form)
}

func (h *Handler) Reset(c echo.Context) error {
	if err := h.svc.Reset(c.Request().Context(), sessionKey(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
