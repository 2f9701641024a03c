package task

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/severity"
)

// -- Mock Repository --

type mockRepo struct {
	tasks map[uuid.UUID]*Task
}

func newMockRepo() *mockRepo {
	return &mockRepo{tasks: make(map[uuid.UUID]*Task)}
}

func (m *mockRepo) Create(_ context.Context, t *Task) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.tasks[t.ID] = t
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (m *mockRepo) Update(_ context.Context, t *Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, patientID *uuid.UUID, status string, limit, offset int) ([]*Task, int, error) {
	var result []*Task
	for _, t := range m.tasks {
		if patientID != nil && t.PatientID != *patientID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		result = append(result, t)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListOpen(_ context.Context, patientID *uuid.UUID) ([]*Task, error) {
	var result []*Task
	for _, t := range m.tasks {
		if !t.Open() {
			continue
		}
		if patientID != nil && t.PatientID != *patientID {
			continue
		}
		result = append(result, t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Severity > result[j].Severity
	})
	return result, nil
}

// -- Tests --

func TestCreateTask(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	task := &Task{PatientID: uuid.New(), Description: "Repeat U&E", Severity: severity.RankHigh}
	if err := svc.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if task.Status != StatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	if err := svc.CreateTask(context.Background(), &Task{Description: "x"}); err == nil {
		t.Error("expected error for missing patient id")
	}
	if err := svc.CreateTask(context.Background(), &Task{PatientID: uuid.New()}); err == nil {
		t.Error("expected error for missing description")
	}
	if err := svc.CreateTask(context.Background(), &Task{PatientID: uuid.New(), Description: "x", Status: StatusDone}); err == nil {
		t.Error("expected error for non-pending initial status")
	}
}

func TestCompleteTask(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	task := &Task{PatientID: uuid.New(), Description: "Chase chest x-ray"}
	if err := svc.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("create: %v", err)
	}

	done, err := svc.CompleteTask(context.Background(), task.ID, "nurse-7")
	if err != nil {
		t.Fatalf("CompleteTask returned error: %v", err)
	}
	if done.Status != StatusDone {
		t.Errorf("status = %q, want done", done.Status)
	}
	if done.CompletedAt == nil {
		t.Error("expected completed_at set")
	}
	if done.CompletedBy == nil || *done.CompletedBy != "nurse-7" {
		t.Errorf("completed_by = %v, want nurse-7", done.CompletedBy)
	}

	if _, err := svc.CompleteTask(context.Background(), task.ID, "nurse-7"); err == nil {
		t.Error("expected error completing a done task")
	}
}

func TestCancelTask(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	task := &Task{PatientID: uuid.New(), Description: "Book echo"}
	if err := svc.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := svc.CancelTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("CancelTask returned error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if _, err := svc.CompleteTask(context.Background(), task.ID, ""); err == nil {
		t.Error("expected error completing a cancelled task")
	}
}

func TestListOpenTasksOrdering(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	patientID := uuid.New()

	low := &Task{PatientID: patientID, Description: "Routine obs", Severity: severity.RankLow}
	critical := &Task{PatientID: patientID, Description: "Give calcium gluconate", Severity: severity.RankCritical}
	for _, task := range []*Task{low, critical} {
		if err := svc.CreateTask(context.Background(), task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	open, err := svc.ListOpenTasks(context.Background(), &patientID)
	if err != nil {
		t.Fatalf("ListOpenTasks returned error: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("got %d open tasks, want 2", len(open))
	}
	if open[0].Severity != severity.RankCritical {
		t.Errorf("first open task severity = %v, want critical", open[0].Severity)
	}
}

func TestOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdueTask := &Task{Status: StatusPending, DueAt: &past}
	if !overdueTask.Overdue(now) {
		t.Error("expected pending task past due to be overdue")
	}

	pending := &Task{Status: StatusPending, DueAt: &future}
	if pending.Overdue(now) {
		t.Error("future due time should not be overdue")
	}

	done := &Task{Status: StatusDone, DueAt: &past}
	if done.Overdue(now) {
		t.Error("done task should never be overdue")
	}
}
