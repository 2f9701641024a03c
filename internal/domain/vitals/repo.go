package vitals

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, v *VitalSigns) error
	GetByID(ctx context.Context, id uuid.UUID) (*VitalSigns, error)
	GetLatestByPatient(ctx context.Context, patientID uuid.UUID) (*VitalSigns, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalSigns, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
