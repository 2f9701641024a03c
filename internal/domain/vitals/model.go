// Package vitals records bedside observation sets and derives their
// classifications and composite scores.
package vitals

import (
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/obs"
	"github.com/wardboard/wardboard/internal/clinical/score"
	"github.com/wardboard/wardboard/internal/clinical/severity"
)

// VitalSigns maps to the vital_signs table. Absent measurements stay nil;
// zero is a real reading.
type VitalSigns struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	PatientID            uuid.UUID `db:"patient_id" json:"patient_id"`
	HeartRate            *float64  `db:"heart_rate" json:"heart_rate,omitempty"`
	BloodPressure        *string   `db:"blood_pressure" json:"blood_pressure,omitempty"`
	Systolic             *float64  `db:"systolic" json:"systolic,omitempty"`
	Diastolic            *float64  `db:"diastolic" json:"diastolic,omitempty"`
	MeanArterial         *float64  `db:"mean_arterial" json:"mean_arterial,omitempty"`
	Temperature          *float64  `db:"temperature" json:"temperature,omitempty"`
	RespRate             *float64  `db:"resp_rate" json:"resp_rate,omitempty"`
	SpO2                 *float64  `db:"spo2" json:"spo2,omitempty"`
	OnOxygen             *bool     `db:"on_oxygen" json:"on_oxygen,omitempty"`
	GCSEye               *int      `db:"gcs_eye" json:"gcs_eye,omitempty"`
	GCSVerbal            *int      `db:"gcs_verbal" json:"gcs_verbal,omitempty"`
	GCSMotor             *int      `db:"gcs_motor" json:"gcs_motor,omitempty"`
	AlteredConsciousness *bool     `db:"altered_consciousness" json:"altered_consciousness,omitempty"`
	RecordedBy           string    `db:"recorded_by" json:"recorded_by"`
	RecordedAt           time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// Assessment is the derived view of one observation set: the per-sign
// classifications, the composite scores that could be computed, and the
// overall severity rank driving board ordering.
type Assessment struct {
	VitalsID uuid.UUID             `json:"vitals_id"`
	Statuses map[string]obs.Status `json:"statuses"`
	Scores   []score.Result        `json:"scores"`
	Overall  severity.Rank         `json:"overall"`
}
