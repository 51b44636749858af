package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service validates and coordinates catalog operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateProcedure adds a catalog entry. Names are trimmed and must be
// unique; "Custom" is reserved for the free-text form option.
func (s *Service) CreateProcedure(ctx context.Context, p *Procedure) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("procedure name is required")
	}
	if strings.EqualFold(p.Name, "Custom") {
		return fmt.Errorf("procedure name %q is reserved", p.Name)
	}

	existing, err := s.repo.GetByName(ctx, p.Name)
	if err != nil {
		return fmt.Errorf("check procedure name: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("procedure %q already exists", p.Name)
	}

	p.Active = true
	return s.repo.Create(ctx, p)
}

// SeedDefaults inserts any stock procedure names missing from the
// catalog. Existing entries are left untouched, so edits and
// deactivations survive restarts.
func (s *Service) SeedDefaults(ctx context.Context) error {
	for i, name := range DefaultProcedures {
		existing, err := s.repo.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if existing != nil {
			continue
		}
		if err := s.repo.Create(ctx, &Procedure{Name: name, DisplayOrder: i + 1, Active: true}); err != nil {
			return fmt.Errorf("seed catalog %q: %w", name, err)
		}
	}
	return nil
}

// ListProcedures returns catalog entries. activeOnly limits the listing
// to entries still offered in the form.
func (s *Service) ListProcedures(ctx context.Context, activeOnly bool, limit, offset int) ([]*Procedure, int, error) {
	return s.repo.List(ctx, activeOnly, limit, offset)
}

// DeactivateProcedure retires a catalog entry without deleting it, so
// stored forms that reference it keep rendering.
func (s *Service) DeactivateProcedure(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
