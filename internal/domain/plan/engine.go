package plan

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dentalplan/planner/internal/platform/money"
)

// Engine computes estimates. It is stateless apart from the currency
// formatter and the financing defaults applied when a form leaves APR or
// term blank.
type Engine struct {
	formatter   *money.Formatter
	defaultAPR  string
	defaultTerm int64
}

func NewEngine(formatter *money.Formatter, defaultAPR string, defaultTerm int64) *Engine {
	if defaultTerm <= 0 {
		defaultTerm = 48
	}
	return &Engine{formatter: formatter, defaultAPR: defaultAPR, defaultTerm: defaultTerm}
}

// Compute allocates the insurance benefit across rows in listed order and
// amortizes each patient balance into a monthly estimate, then applies
// the two override layers. It never fails: malformed numeric input falls
// back to defaults.
//
// Per row: allowed = cost * coverage, insurance = min(allowed, remaining),
// patient = cost - insurance, remaining -= insurance. The insurance and
// patient totals sum the computed amounts; the monthly total sums the
// values as displayed after row overrides. A totals override then replaces
// its total wholesale and is flagged when it disagrees with the row sum.
func (e *Engine) Compute(rows []Row, capText, aprText, termText string, ov Overrides) PlanResult {
	capAmount := money.ParseAmount(capText, decimal.Zero)
	remaining := capAmount

	aprEffective := strings.TrimSpace(aprText)
	if aprEffective == "" {
		aprEffective = e.defaultAPR
	}
	monthlyRate := money.ParsePercent(aprEffective).Div(decimal.NewFromInt(12))

	// The term must be a whole month count; anything else (including a
	// fractional value) falls back to the default.
	term := e.defaultTerm
	if t := strings.TrimSpace(termText); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil && v > 0 {
			term = v
		}
	}

	var (
		results      []RowResult
		insComputed  = decimal.Zero
		patComputed  = decimal.Zero
		insDisplayed = decimal.Zero
		patDisplayed = decimal.Zero
		monDisplayed = decimal.Zero
	)

	for _, row := range rows {
		allowed := row.Cost.Mul(row.Coverage)
		insurance := decimal.Min(allowed, remaining)
		patient := row.Cost.Sub(insurance)
		remaining = remaining.Sub(insurance)

		monthly := decimal.Zero
		if !row.NoFinance && patient.GreaterThan(decimal.Zero) {
			monthly = amortize(patient, monthlyRate, term)
		}

		dispIns, dispPat, dispMon := insurance, patient, monthly
		if row.OriginalIndex < len(ov.Rows) {
			o := ov.Rows[row.OriginalIndex]
			if o.Insurance != "" {
				dispIns = money.ParseAmount(o.Insurance, decimal.Zero)
			}
			if o.Patient != "" {
				dispPat = money.ParseAmount(o.Patient, decimal.Zero)
			}
			if o.Monthly != "" {
				dispMon = money.ParseAmount(o.Monthly, decimal.Zero)
			}
		}

		insComputed = insComputed.Add(insurance)
		patComputed = patComputed.Add(patient)
		insDisplayed = insDisplayed.Add(dispIns)
		patDisplayed = patDisplayed.Add(dispPat)
		monDisplayed = monDisplayed.Add(dispMon)

		results = append(results, RowResult{
			DisplayName:     row.DisplayName,
			Tooth:           row.Tooth,
			Reason:          row.Reason,
			Cost:            e.formatter.Format(row.Cost),
			InsurancePay:    e.formatter.Format(dispIns),
			PatientPay:      e.formatter.Format(dispPat),
			MonthlyEst:      e.formatter.Format(dispMon),
			MonthlyDisabled: row.NoFinance,
		})
	}

	return PlanResult{
		InsuranceMax:   e.formatter.Format(capAmount),
		Rows:           results,
		InsuranceTotal: e.total(insComputed, insDisplayed, ov.Totals.Insurance),
		PatientTotal:   e.total(patComputed, patDisplayed, ov.Totals.Patient),
		MonthlyTotal:   e.total(monDisplayed, monDisplayed, ov.Totals.Monthly),
		MaxReached:     remaining.LessThanOrEqual(decimal.Zero),
		APRPercent:     money.FormatPercent(aprEffective),
		TermMonths:     strconv.FormatInt(term, 10),
	}
}

// total resolves one grand total. Without an override the computed sum is
// displayed. An override replaces it wholesale and is marked as diverging
// when it differs, at display precision, from the sum of the row values
// actually shown.
func (e *Engine) total(computed, displayedSum decimal.Decimal, override string) Total {
	if override == "" {
		return Total{Display: e.formatter.Format(computed)}
	}
	v := money.ParseAmount(override, decimal.Zero)
	return Total{
		Display:    e.formatter.Format(v),
		Overridden: true,
		Diverges:   !v.Round(2).Equal(displayedSum.Round(2)),
	}
}

// amortize returns the level monthly payment for principal over term
// months at the given monthly rate: r*P / (1 - (1+r)^-n). A zero rate
// (or a degenerate denominator) falls back to straight-line principal/n.
func amortize(principal, monthlyRate decimal.Decimal, term int64) decimal.Decimal {
	n := decimal.NewFromInt(term)
	if monthlyRate.IsZero() {
		return principal.Div(n)
	}
	onePlusR := decimal.NewFromInt(1).Add(monthlyRate)
	growth := onePlusR.Pow(n)
	if growth.IsZero() {
		return principal.Div(n)
	}
	denom := decimal.NewFromInt(1).Sub(decimal.NewFromInt(1).Div(growth))
	if denom.IsZero() {
		return principal.Div(n)
	}
	return principal.Mul(monthlyRate).Div(denom)
}
