package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Service implements the plan workflows over the session form store.
type Service struct {
	repo   SessionRepository
	engine *Engine
	logger zerolog.Logger
}

func NewService(repo SessionRepository, engine *Engine, logger zerolog.Logger) *Service {
	return &Service{repo: repo, engine: engine, logger: logger}
}

// SubmitPlan stores the submitted form in the session's slot, overwriting
// any previous submission and clearing stored header labels, then computes
// the estimate with no overrides. Rows at the excluded indexes are marked
// no-finance before storage, so the flag survives inline recomputes.
func (s *Service) SubmitPlan(ctx context.Context, sessionKey string, req SubmitRequest) (*PlanResult, error) {
	rows := markNoFinance(req.Rows, req.ExcludeIndexes)

	form := &SessionForm{
		PatientName:  strings.TrimSpace(req.PatientName),
		InsuranceMax: req.InsuranceMax,
		Notes:        strings.TrimSpace(req.Notes),
		Rows:         rows,
		APRPercent:   req.APRPercent,
		TermMonths:   req.TermMonths,
	}
	if err := s.repo.Save(ctx, sessionKey, form); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}

	result := s.engine.Compute(NormalizeRows(rows), req.InsuranceMax, req.APRPercent, req.TermMonths, Overrides{})
	result.PatientName = form.PatientName
	result.Notes = form.Notes

	s.logger.Debug().
		Int("rows", len(rows)).
		Bool("max_reached", result.MaxReached).
		Msg("plan submitted")

	return &result, nil
}

// RecomputeInline merges inline edits with the stored form and recomputes
// with overrides applied. The edited rows carry only the visible text
// fields; coverage and the no-finance flag come from the stored rows,
// matched positionally up to the shorter of the two lists. Financing
// terms always come from the stored submission. A supplied header label
// set replaces the stored one only when it has exactly the expected
// number of entries.
func (s *Service) RecomputeInline(ctx context.Context, sessionKey string, req InlineRequest) (*PlanResult, error) {
	stored, err := s.repo.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if stored == nil {
		return nil, ErrNoSubmission
	}

	n := len(req.Rows)
	if len(stored.Rows) < n {
		n = len(stored.Rows)
	}
	rows := make([]RawRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, RawRow{
			ProcedureName: CustomProcedure,
			CustomName:    req.Rows[i].DisplayName,
			Tooth:         req.Rows[i].Tooth,
			Reason:        req.Rows[i].Reason,
			Cost:          req.Rows[i].Cost,
			Coverage:      stored.Rows[i].Coverage,
			NoFinance:     stored.Rows[i].NoFinance,
		})
	}

	labels := stored.HeaderLabels
	if len(req.HeaderLabels) == headerLabelCount {
		labels = req.HeaderLabels
	}

	form := &SessionForm{
		PatientName:  strings.TrimSpace(req.PatientName),
		InsuranceMax: req.InsuranceMax,
		Notes:        strings.TrimSpace(req.Notes),
		Rows:         rows,
		APRPercent:   stored.APRPercent,
		TermMonths:   stored.TermMonths,
		HeaderLabels: labels,
	}
	if err := s.repo.Save(ctx, sessionKey, form); err != nil {
		return nil, fmt.Errorf("store corrected submission: %w", err)
	}

	overrides := Overrides{Rows: req.RowOverrides, Totals: req.TotalsOverride}
	result := s.engine.Compute(NormalizeRows(rows), req.InsuranceMax, stored.APRPercent, stored.TermMonths, overrides)
	result.PatientName = form.PatientName
	result.Notes = form.Notes
	result.HeaderLabels = labels

	s.logger.Debug().
		Int("rows", len(rows)).
		Int("row_overrides", len(req.RowOverrides)).
		Msg("plan recomputed inline")

	return &result, nil
}

// LastForm returns the stored form for edit prefill.
func (s *Service) LastForm(ctx context.Context, sessionKey string) (*SessionForm, error) {
	form, err := s.repo.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if form == nil {
		return nil, ErrNoSubmission
	}
	return form, nil
}

// Reset clears the session's slot.
func (s *Service) Reset(ctx context.Context, sessionKey string) error {
	if err := s.repo.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// CleanupExpired prunes expired slots. Intended to run periodically from
// the server loop.
func (s *Service) CleanupExpired(ctx context.Context) error {
	return s.repo.Cleanup(ctx)
}
