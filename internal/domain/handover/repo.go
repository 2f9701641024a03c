package handover

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateNote(ctx context.Context, n *Note) error
	GetNote(ctx context.Context, id uuid.UUID) (*Note, error)
	ListNotesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
}
