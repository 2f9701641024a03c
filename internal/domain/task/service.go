package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/platform/websocket"
)

type Service struct {
	repo   Repository
	events websocket.EventPublisher
}

func NewService(repo Repository, events websocket.EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) CreateTask(ctx context.Context, t *Task) error {
	if t.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if t.Description == "" {
		return fmt.Errorf("description is required")
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Status != StatusPending {
		return fmt.Errorf("new tasks must be pending, got %q", t.Status)
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return err
	}
	s.publish(ctx, "task.created", t)
	return nil
}

func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateTask(ctx context.Context, t *Task) error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if t.Status != StatusPending && t.Status != StatusDone && t.Status != StatusCancelled {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.publish(ctx, "task.updated", t)
	return nil
}

// CompleteTask marks a pending task done, recording who closed it.
func (s *Service) CompleteTask(ctx context.Context, id uuid.UUID, completedBy string) (*Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if !t.Open() {
		return nil, fmt.Errorf("task is %s, not pending", t.Status)
	}

	now := time.Now().UTC()
	t.Status = StatusDone
	t.CompletedAt = &now
	if completedBy != "" {
		t.CompletedBy = &completedBy
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, "task.completed", t)
	return t, nil
}

// CancelTask closes a pending task without doing it.
func (s *Service) CancelTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if !t.Open() {
		return nil, fmt.Errorf("task is %s, not pending", t.Status)
	}

	t.Status = StatusCancelled
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, "task.cancelled", t)
	return t, nil
}

func (s *Service) ListTasks(ctx context.Context, patientID *uuid.UUID, status string, limit, offset int) ([]*Task, int, error) {
	return s.repo.List(ctx, patientID, status, limit, offset)
}

func (s *Service) ListOpenTasks(ctx context.Context, patientID *uuid.UUID) ([]*Task, error) {
	return s.repo.ListOpen(ctx, patientID)
}

func (s *Service) publish(ctx context.Context, eventType string, t *Task) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	_ = s.events.Publish(ctx, websocket.Event{
		Type:      eventType,
		Topic:     websocket.TopicTasks,
		PatientID: t.PatientID.String(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}
