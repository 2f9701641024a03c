package task

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, patientID *uuid.UUID, status string, limit, offset int) ([]*Task, int, error)
	// ListOpen returns every pending task, most severe first.
	ListOpen(ctx context.Context, patientID *uuid.UUID) ([]*Task, error)
}
