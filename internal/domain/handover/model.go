// Package handover produces the shift-change view: the ward-wide triage
// list of items needing attention, and narrative handover notes per
// patient.
package handover

import (
	"time"

	"github.com/google/uuid"
)

// Note maps to the handover_note table. Drafted notes keep their machine
// draft until a human signs the final text.
type Note struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Author    string    `db:"author" json:"author"`
	Content   string    `db:"content" json:"content"`
	Drafted   bool      `db:"drafted" json:"drafted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
