// Package patient manages the ward roster: who is admitted, where they
// are, and their headline clinical context.
package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	MRN          string     `db:"mrn" json:"mrn"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Sex          *string    `db:"sex" json:"sex,omitempty"`
	Bed          *string    `db:"bed" json:"bed,omitempty"`
	Ward         *string    `db:"ward" json:"ward,omitempty"`
	Diagnosis    *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	CodeStatus   *string    `db:"code_status" json:"code_status,omitempty"`
	Allergies    *string    `db:"allergies" json:"allergies,omitempty"`
	AdmittedAt   time.Time  `db:"admitted_at" json:"admitted_at"`
	DischargedAt *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Active reports whether the patient is still on the ward.
func (p *Patient) Active() bool {
	return p.DischargedAt == nil
}

// FullName is the display name used on the board and in handover drafts.
func (p *Patient) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
