// Package task tracks the ward jobs list: things to be done for a
// patient, ranked by severity so the urgent ones surface first.
package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/severity"
)

// Task statuses.
const (
	StatusPending   = "pending"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

// Task maps to the ward_task table.
type Task struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	PatientID   uuid.UUID     `db:"patient_id" json:"patient_id"`
	Description string        `db:"description" json:"description"`
	Severity    severity.Rank `db:"severity" json:"severity"`
	Status      string        `db:"status" json:"status"`
	DueAt       *time.Time    `db:"due_at" json:"due_at,omitempty"`
	CreatedBy   string        `db:"created_by" json:"created_by"`
	CompletedBy *string       `db:"completed_by" json:"completed_by,omitempty"`
	CompletedAt *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Open reports whether the task still needs doing.
func (t *Task) Open() bool {
	return t.Status == StatusPending
}

// Overdue reports whether an open task has passed its due time.
func (t *Task) Overdue(now time.Time) bool {
	return t.Open() && t.DueAt != nil && now.After(*t.DueAt)
}
