// Package plan implements treatment plan cost-sharing and financing
// estimates: capped insurance benefit allocation across procedures in
// listed order, patient balance amortization, and the inline-correction
// workflow over a one-slot-per-session form store.
package plan

import (
	"errors"

	"github.com/shopspring/decimal"
)

// CustomProcedure is the catalog sentinel that tells the normalizer to use
// the row's free-text name instead of a catalog selection.
const CustomProcedure = "Custom"

// headerLabelCount is the number of estimate table columns. A submitted
// header label set is only stored when it matches exactly.
const headerLabelCount = 7

// ErrNoSubmission is returned by workflows that need a previously
// submitted form when the session slot is empty or expired.
var ErrNoSubmission = errors.New("no prior submission in this session")

// RawRow is one procedure line exactly as submitted. Field order in the
// slice is significant: the insurance benefit is allocated top to bottom.
type RawRow struct {
	ProcedureName string `json:"procedure_name"`
	CustomName    string `json:"custom_name"`
	Tooth         string `json:"tooth"`
	Reason        string `json:"reason"`
	Cost          string `json:"cost"`
	Coverage      string `json:"coverage"`
	NoFinance     bool   `json:"no_finance"`
}

// Row is a normalized procedure line. OriginalIndex is the row's position
// in the submitted form, before empty-name rows were dropped; overrides
// are matched against it so corrections never shift onto the wrong row.
type Row struct {
	OriginalIndex int
	DisplayName   string
	Tooth         string
	Reason        string
	Cost          decimal.Decimal
	Coverage      decimal.Decimal
	NoFinance     bool
}

// RowOverride carries optional per-row corrections. A blank field keeps
// the computed value; a non-blank field replaces it.
type RowOverride struct {
	Insurance string `json:"insurance"`
	Patient   string `json:"patient"`
	Monthly   string `json:"monthly"`
}

func (o RowOverride) empty() bool {
	return o.Insurance == "" && o.Patient == "" && o.Monthly == ""
}

// TotalsOverride carries optional wholesale replacements for the grand
// totals. A non-blank field replaces the corresponding total outright.
type TotalsOverride struct {
	Insurance string `json:"insurance"`
	Patient   string `json:"patient"`
	Monthly   string `json:"monthly"`
}

// Overrides bundles the two override layers applied during an inline
// recompute. Rows are matched by original submission index; a list
// shorter than the form leaves the remaining rows unoverridden.
type Overrides struct {
	Rows   []RowOverride  `json:"rows"`
	Totals TotalsOverride `json:"totals"`
}

// RowResult is one formatted estimate line.
type RowResult struct {
	DisplayName     string `json:"display_name"`
	Tooth           string `json:"tooth"`
	Reason          string `json:"reason"`
	Cost            string `json:"cost"`
	InsurancePay    string `json:"insurance_pay"`
	PatientPay      string `json:"patient_pay"`
	MonthlyEst      string `json:"monthly_est"`
	MonthlyDisabled bool   `json:"monthly_disabled"`
}

// Total is a grand total together with its provenance. Overridden is true
// when the displayed value came from a totals override; Diverges is set
// when that override disagrees with the sum of the displayed rows.
type Total struct {
	Display    string `json:"display"`
	Overridden bool   `json:"overridden"`
	Diverges   bool   `json:"diverges,omitempty"`
}

// PlanResult is a complete rendered estimate.
type PlanResult struct {
	PatientName    string      `json:"patient_name"`
	InsuranceMax   string      `json:"insurance_max"`
	Notes          string      `json:"notes"`
	Rows           []RowResult `json:"rows"`
	InsuranceTotal Total       `json:"insurance_total"`
	PatientTotal   Total       `json:"patient_total"`
	MonthlyTotal   Total       `json:"monthly_total"`
	MaxReached     bool        `json:"max_reached"`
	HeaderLabels   []string    `json:"header_labels,omitempty"`
	APRPercent     string      `json:"apr_percent"`
	TermMonths     string      `json:"term_months"`
}

// SessionForm is the last submitted form, stored one slot per editing
// session. Every submission fully overwrites the slot.
type SessionForm struct {
	PatientName  string   `json:"patient_name"`
	InsuranceMax string   `json:"insurance_max"`
	Notes        string   `json:"notes"`
	Rows         []RawRow `json:"rows"`
	APRPercent   string   `json:"apr_percent"`
	TermMonths   string   `json:"term_months"`
	HeaderLabels []string `json:"header_labels,omitempty"`
}

// SubmitRequest is a full plan submission. ExcludeIndexes lists rows to
// exclude from financing: they keep their benefit allocation and cost
// split but get no monthly estimate.
type SubmitRequest struct {
	PatientName    string   `json:"patient_name"`
	InsuranceMax   string   `json:"insurance_max"`
	Notes          string   `json:"notes"`
	Rows           []RawRow `json:"rows"`
	ExcludeIndexes []int    `json:"exclude_indexes,omitempty"`
	APRPercent     string   `json:"apr_percent"`
	TermMonths     string   `json:"term_months"`
}

// InlineRow is one edited display line of an inline correction. Only the
// visible text fields are editable inline; coverage and the no-finance
// flag are carried over from the stored form.
type InlineRow struct {
	DisplayName string `json:"display_name"`
	Tooth       string `json:"tooth"`
	Reason      string `json:"reason"`
	Cost        string `json:"cost"`
}

// InlineRequest is an inline correction of the previously submitted plan.
type InlineRequest struct {
	PatientName    string         `json:"patient_name"`
	InsuranceMax   string         `json:"insurance_max"`
	Notes          string         `json:"notes"`
	Rows           []InlineRow    `json:"rows"`
	RowOverrides   []RowOverride  `json:"row_overrides,omitempty"`
	TotalsOverride TotalsOverride `json:"totals_override"`
	HeaderLabels   []string       `json:"header_labels,omitempty"`
}
