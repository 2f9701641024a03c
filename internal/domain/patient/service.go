package patient

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

func (s *Service) AdmitPatient(ctx context.Context, p *Patient) error {
	if p.MRN == "" {
		return fmt.Errorf("mrn is required")
	}
	if p.LastName == "" && p.FirstName == "" {
		return fmt.Errorf("patient name is required")
	}
	if p.AdmittedAt.IsZero() {
		p.AdmittedAt = time.Now().UTC()
	}

	if existing, err := s.repo.GetByMRN(ctx, p.MRN); err == nil && existing.Active() {
		return fmt.Errorf("patient with mrn %s is already admitted", p.MRN)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.publish(ctx, "patient.admitted", p)
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetPatientByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.repo.GetByMRN(ctx, mrn)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.publish(ctx, "patient.updated", p)
	return nil
}

// DischargePatient marks the patient as off the ward. Discharging twice is
// an error.
func (s *Service) DischargePatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}
	if !p.Active() {
		return nil, fmt.Errorf("patient already discharged")
	}

	now := time.Now().UTC()
	p.DischargedAt = &now
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, "patient.discharged", p)
	return p, nil
}

func (s *Service) ListPatients(ctx context.Context, f ListFilter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) publish(ctx context.Context, eventType string, p *Patient) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = s.events.Publish(ctx, websocket.Event{
		Type:      eventType,
		Topic:     websocket.TopicRoster,
		PatientID: p.ID.String(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}
