package patient

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a roster listing. Zero value lists everyone.
type ListFilter struct {
	ActiveOnly bool
	Ward       string
}

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Patient, int, error)
}
