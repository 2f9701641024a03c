package lab

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/labtrend"
	"github.com/wardboard/wardboard/internal/clinical/obs"
	"github.com/wardboard/wardboard/internal/platform/websocket"
)

type Service struct {
	repo       Repository
	events     websocket.EventPublisher
	windowDays int
	relChange  float64
}

// NewService builds the lab service. windowDays bounds trend look-back;
// relChange is the direction threshold fraction (zero means default).
func NewService(repo Repository, events websocket.EventPublisher, windowDays int, relChange float64) *Service {
	return &Service{repo: repo, events: events, windowDays: windowDays, relChange: relChange}
}

// RecordPanel stores a panel after deriving each result's flag. The unit
// is normalized, a textual reference range is parsed when numeric bounds
// were not supplied, and the flag is computed once here so it never
// shifts under a later reference change.
func (s *Service) RecordPanel(ctx context.Context, p *Panel) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("panel name is required")
	}
	if len(p.Results) == 0 {
		return fmt.Errorf("panel has no results")
	}

	for _, res := range p.Results {
		if res.Name == "" {
			return fmt.Errorf("result name is required")
		}
		res.Unit = labtrend.NormalizeUnit(res.Unit)

		ref := labtrend.RefRange{Low: res.RefLow, High: res.RefHigh}
		if !ref.Bounded() && res.RefText != nil {
			ref = labtrend.ParseReferenceRange(*res.RefText)
			res.RefLow = ref.Low
			res.RefHigh = ref.High
		}

		if res.Value != nil {
			res.Flag = labtrend.ComputeFlag(*res.Value, ref, res.AnalyteKey)
		} else {
			res.Flag = obs.StatusUnknown
		}
	}

	if err := s.repo.CreatePanel(ctx, p); err != nil {
		return err
	}
	s.publishPanel(ctx, p)
	return nil
}

func (s *Service) GetPanel(ctx context.Context, id uuid.UUID) (*Panel, error) {
	return s.repo.GetPanel(ctx, id)
}

func (s *Service) ListPanels(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Panel, int, error) {
	return s.repo.ListPanelsByPatient(ctx, patientID, limit, offset)
}

// Trend analyzes one analyte for a patient over the configured window.
// A nil trend means fewer than two numeric values were in window.
func (s *Service) Trend(ctx context.Context, patientID uuid.UUID, analyteName, analyteKey string, windowDays int) (*labtrend.Trend, error) {
	if analyteName == "" && analyteKey == "" {
		return nil, fmt.Errorf("analyte is required")
	}
	if windowDays <= 0 {
		windowDays = s.windowDays
	}

	panels, err := s.repo.PanelsForAnalyte(ctx, patientID, analyteName, analyteKey)
	if err != nil {
		return nil, err
	}

	trendPanels := make([]labtrend.Panel, 0, len(panels))
	for _, p := range panels {
		tp := labtrend.Panel{Name: p.Name, CollectedAt: p.CollectedAt}
		for _, res := range p.Results {
			tp.Values = append(tp.Values, labtrend.Value{
				Name:       res.Name,
				AnalyteKey: res.AnalyteKey,
				Value:      res.Value,
				Unit:       res.Unit,
				RefLow:     res.RefLow,
				RefHigh:    res.RefHigh,
				Flag:       res.Flag,
			})
		}
		trendPanels = append(trendPanels, tp)
	}

	trend := labtrend.AnalyzeOpts(trendPanels, analyteName, analyteKey, windowDays, time.Now().UTC(),
		labtrend.Options{RelativeChange: s.relChange})
	return trend, nil
}

// ListCritical returns recent critically flagged results, optionally
// restricted to one patient.
func (s *Service) ListCritical(ctx context.Context, patientID *uuid.UUID, limit int) ([]*CriticalResult, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListCriticalResults(ctx, patientID, limit)
}

func (s *Service) publishPanel(ctx context.Context, p *Panel) {
	if s.events == nil {
		return
	}

	eventType := "lab.panel_recorded"
	for _, res := range p.Results {
		if res.Flag.IsCritical() {
			eventType = "lab.critical_result"
			break
		}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = s.events.Publish(ctx, websocket.Event{
		Type:      eventType,
		Topic:     websocket.TopicLabs,
		PatientID: p.PatientID.String(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}
