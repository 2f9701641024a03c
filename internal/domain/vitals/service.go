package vitals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/obs"
	"github.com/wardboard/wardboard/internal/clinical/score"
	"github.com/wardboard/wardboard/internal/clinical/severity"
	"github.com/wardboard/wardboard/internal/platform/websocket"
)

type Service struct {
	repo   Repository
	events websocket.EventPublisher
}

func NewService(repo Repository, events websocket.EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

// RecordVitals stores an observation set. A blood pressure string like
// "120/80" is parsed into its components when the numeric fields are not
// supplied directly.
func (s *Service) RecordVitals(ctx context.Context, v *VitalSigns) (*Assessment, error) {
	if v.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now().UTC()
	}

	if v.BloodPressure != nil && v.Systolic == nil {
		bp := obs.ParseBloodPressure(*v.BloodPressure)
		v.Systolic = bp.Systolic
		v.Diastolic = bp.Diastolic
		v.MeanArterial = bp.MeanArterial
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	assessment := Assess(v)
	s.publish(ctx, v, assessment)
	return assessment, nil
}

func (s *Service) GetVitals(ctx context.Context, id uuid.UUID) (*VitalSigns, error) {
	return s.repo.GetByID(ctx, id)
}

// LatestAssessment returns the most recent observation set for a patient
// along with its derived assessment.
func (s *Service) LatestAssessment(ctx context.Context, patientID uuid.UUID) (*VitalSigns, *Assessment, error) {
	v, err := s.repo.GetLatestByPatient(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	return v, Assess(v), nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalSigns, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Assess classifies each recorded sign and computes whichever composite
// scores have sufficient input. Missing measurements never fail the
// assessment; the affected score is simply omitted.
func Assess(v *VitalSigns) *Assessment {
	statuses := map[string]obs.Status{
		"hr":   obs.Classify("hr", v.HeartRate),
		"sbp":  obs.Classify("sbp", v.Systolic),
		"dbp":  obs.Classify("dbp", v.Diastolic),
		"map":  obs.Classify("map", v.MeanArterial),
		"temp": obs.Classify("temp", v.Temperature),
		"rr":   obs.Classify("rr", v.RespRate),
		"spo2": obs.Classify("spo2", v.SpO2),
	}
	if gcs := gcsTotal(v); gcs != nil {
		statuses["gcs"] = obs.Classify("gcs", gcs)
	}

	var scores []score.Result
	appendScore := func(result score.Result, err error) {
		if err == nil {
			scores = append(scores, result)
		}
	}

	appendScore(score.MeanArterialPressure(v.Systolic, v.Diastolic))
	appendScore(score.GlasgowComa(score.GlasgowComaInput{
		Eye:    v.GCSEye,
		Verbal: v.GCSVerbal,
		Motor:  v.GCSMotor,
	}))
	appendScore(score.EarlyWarning(score.EarlyWarningInput{
		RespRate:             v.RespRate,
		SpO2:                 v.SpO2,
		Systolic:             v.Systolic,
		Pulse:                v.HeartRate,
		Temperature:          v.Temperature,
		OnOxygen:             v.OnOxygen,
		AlteredConsciousness: alteredConsciousness(v),
	}))

	return &Assessment{
		VitalsID: v.ID,
		Statuses: statuses,
		Scores:   scores,
		Overall:  overallRank(statuses, scores),
	}
}

func gcsTotal(v *VitalSigns) *float64 {
	if v.GCSEye == nil || v.GCSVerbal == nil || v.GCSMotor == nil {
		return nil
	}
	total := float64(*v.GCSEye + *v.GCSVerbal + *v.GCSMotor)
	return &total
}

// alteredConsciousness falls back to the GCS components when the explicit
// flag was not charted. With neither charted the patient counts as alert,
// so a fully recorded set still produces an early-warning score.
func alteredConsciousness(v *VitalSigns) *bool {
	if v.AlteredConsciousness != nil {
		return v.AlteredConsciousness
	}
	if gcs := gcsTotal(v); gcs != nil {
		altered := *gcs < 15
		return &altered
	}
	alert := false
	return &alert
}

func overallRank(statuses map[string]obs.Status, scores []score.Result) severity.Rank {
	overall := severity.RankLow
	for _, st := range statuses {
		if st == obs.StatusUnknown {
			continue
		}
		if r := st.Rank(); r > overall {
			overall = r
		}
	}
	for _, sc := range scores {
		if r := sc.Band.Rank(); r > overall {
			overall = r
		}
	}
	return overall
}

func (s *Service) publish(ctx context.Context, v *VitalSigns, a *Assessment) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(map[string]interface{}{
		"vitals":     v,
		"assessment": a,
	})
	if err != nil {
		return
	}
	_ = s.events.Publish(ctx, websocket.Event{
		Type:      "vitals.recorded",
		Topic:     websocket.TopicVitals,
		PatientID: v.PatientID.String(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}
