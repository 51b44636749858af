package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract for the procedure catalog.
type Repository interface {
	Create(ctx context.Context, p *Procedure) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Procedure, int, error)
	GetByName(ctx context.Context, name string) (*Procedure, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
