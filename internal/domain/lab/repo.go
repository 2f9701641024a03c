package lab

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreatePanel(ctx context.Context, p *Panel) error
	GetPanel(ctx context.Context, id uuid.UUID) (*Panel, error)
	ListPanelsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Panel, int, error)
	// PanelsForAnalyte returns every panel of the patient containing the
	// analyte, results included, ordered oldest first.
	PanelsForAnalyte(ctx context.Context, patientID uuid.UUID, analyteName, analyteKey string) ([]*Panel, error)
	ListCriticalResults(ctx context.Context, patientID *uuid.UUID, limit int) ([]*CriticalResult, error)
	DeletePanel(ctx context.Context, id uuid.UUID) error
}

// CriticalResult joins a critically flagged result with its panel and
// patient context for the triage view.
type CriticalResult struct {
	Result    *Result   `json:"result"`
	PanelName string    `json:"panel_name"`
	PatientID uuid.UUID `json:"patient_id"`
}
