package handover

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/triage"
	"github.com/wardboard/wardboard/internal/domain/lab"
	"github.com/wardboard/wardboard/internal/domain/patient"
	"github.com/wardboard/wardboard/internal/domain/task"
	"github.com/wardboard/wardboard/internal/platform/narrative"
)

// PatientSource resolves patients for drafting context.
type PatientSource interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// LabSource supplies critically flagged results.
type LabSource interface {
	ListCritical(ctx context.Context, patientID *uuid.UUID, limit int) ([]*lab.CriticalResult, error)
}

// TaskSource supplies open tasks ordered by severity.
type TaskSource interface {
	ListOpenTasks(ctx context.Context, patientID *uuid.UUID) ([]*task.Task, error)
}

type Service struct {
	repo     Repository
	patients PatientSource
	labs     LabSource
	tasks    TaskSource
	drafter  narrative.Drafter
}

func NewService(repo Repository, patients PatientSource, labs LabSource, tasks TaskSource, drafter narrative.Drafter) *Service {
	return &Service{repo: repo, patients: patients, labs: labs, tasks: tasks, drafter: drafter}
}

// TriageSummary merges the ward's critical labs and open tasks into one
// ranked list. Pass a patient id to restrict to a single patient.
func (s *Service) TriageSummary(ctx context.Context, patientID *uuid.UUID) ([]triage.Item, error) {
	criticals, err := s.labs.ListCritical(ctx, patientID, 100)
	if err != nil {
		return nil, fmt.Errorf("list critical labs: %w", err)
	}
	open, err := s.tasks.ListOpenTasks(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}

	labItems := make([]triage.Item, 0, len(criticals))
	for _, cr := range criticals {
		labItems = append(labItems, triage.Item{
			Kind:       triage.KindLab,
			PatientRef: cr.PatientID.String(),
			Detail:     formatCritical(cr),
			Rank:       cr.Result.Flag.Rank(),
		})
	}

	taskItems := make([]triage.Item, 0, len(open))
	for _, t := range open {
		taskItems = append(taskItems, triage.Item{
			Kind:       triage.KindTask,
			PatientRef: t.PatientID.String(),
			Detail:     t.Description,
			Rank:       t.Severity,
		})
	}

	return triage.Aggregate(labItems, taskItems), nil
}

// DraftNote generates a narrative handover draft for a patient from the
// current structured picture. The draft is returned, not stored; a human
// signs the final text via CreateNote.
func (s *Service) DraftNote(ctx context.Context, patientID uuid.UUID) (*Note, error) {
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}

	criticals, err := s.labs.ListCritical(ctx, &patientID, 20)
	if err != nil {
		return nil, fmt.Errorf("list critical labs: %w", err)
	}
	open, err := s.tasks.ListOpenTasks(ctx, &patientID)
	if err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}

	input := narrative.DraftInput{
		PatientName: p.FullName(),
		Location:    location(p),
	}
	if p.Diagnosis != nil {
		input.Situation = *p.Diagnosis
	}
	if p.CodeStatus != nil {
		input.Background = "Code status: " + *p.CodeStatus
	}
	for _, cr := range criticals {
		input.CriticalLabs = append(input.CriticalLabs, formatCritical(cr))
	}
	for _, t := range open {
		input.PendingTasks = append(input.PendingTasks, t.Description)
	}

	content, err := s.drafter.Draft(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("draft note: %w", err)
	}

	return &Note{
		PatientID: patientID,
		Content:   content,
		Drafted:   true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) CreateNote(ctx context.Context, n *Note) error {
	if n.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if n.Content == "" {
		return fmt.Errorf("content is required")
	}
	if _, err := s.patients.GetPatient(ctx, n.PatientID); err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}
	return s.repo.CreateNote(ctx, n)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.repo.GetNote(ctx, id)
}

func (s *Service) ListNotes(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	return s.repo.ListNotesByPatient(ctx, patientID, limit, offset)
}

func formatCritical(cr *lab.CriticalResult) string {
	res := cr.Result
	detail := res.Name
	if res.Value != nil {
		detail += " " + strconv.FormatFloat(*res.Value, 'f', -1, 64)
		if res.Unit != "" {
			detail += " " + res.Unit
		}
	}
	return detail + " (" + res.Flag.String() + ")"
}

func location(p *patient.Patient) string {
	switch {
	case p.Ward != nil && p.Bed != nil:
		return *p.Ward + " bed " + *p.Bed
	case p.Bed != nil:
		return "bed " + *p.Bed
	case p.Ward != nil:
		return *p.Ward
	default:
		return ""
	}
}
