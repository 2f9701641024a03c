// Package lab stores laboratory panels, flags each result against its
// reference range, and serves trend analysis over recent panels.
package lab

import (
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/obs"
)

// Panel maps to the lab_panel table and carries its results.
type Panel struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name        string     `db:"name" json:"name"`
	CollectedAt *time.Time `db:"collected_at" json:"collected_at,omitempty"`
	ReportedAt  *time.Time `db:"reported_at" json:"reported_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`

	Results []*Result `json:"results,omitempty"`
}

// Result maps to the lab_result table. Value holds the numeric reading
// when one exists; qualitative results keep only ValueText.
type Result struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PanelID    uuid.UUID  `db:"panel_id" json:"panel_id"`
	Name       string     `db:"name" json:"name"`
	AnalyteKey string     `db:"analyte_key" json:"analyte_key,omitempty"`
	Value      *float64   `db:"value" json:"value,omitempty"`
	ValueText  *string    `db:"value_text" json:"value_text,omitempty"`
	Unit       string     `db:"unit" json:"unit,omitempty"`
	RefLow     *float64   `db:"ref_low" json:"ref_low,omitempty"`
	RefHigh    *float64   `db:"ref_high" json:"ref_high,omitempty"`
	RefText    *string    `db:"ref_text" json:"ref_text,omitempty"`
	Flag       obs.Status `db:"flag" json:"flag"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
