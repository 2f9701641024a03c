package vitals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/obs"
	"github.com/wardboard/wardboard/internal/clinical/severity"
)

// -- Mock Repository --

type mockRepo struct {
	records map[uuid.UUID]*VitalSigns
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*VitalSigns)}
}

func (m *mockRepo) Create(_ context.Context, v *VitalSigns) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	m.records[v.ID] = v
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*VitalSigns, error) {
	v, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return v, nil
}

func (m *mockRepo) GetLatestByPatient(_ context.Context, patientID uuid.UUID) (*VitalSigns, error) {
	var latest *VitalSigns
	for _, v := range m.records {
		if v.PatientID != patientID {
			continue
		}
		if latest == nil || v.RecordedAt.After(latest.RecordedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("not found")
	}
	return latest, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalSigns, int, error) {
	var result []*VitalSigns
	for _, v := range m.records {
		if v.PatientID == patientID {
			result = append(result, v)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(i int) *int           { return &i }
func ptrBool(b bool) *bool        { return &b }
func ptrStr(s string) *string     { return &s }

// -- Tests --

func TestRecordVitalsParsesBloodPressure(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	v := &VitalSigns{
		PatientID:     uuid.New(),
		BloodPressure: ptrStr("120/80"),
	}
	if _, err := svc.RecordVitals(context.Background(), v); err != nil {
		t.Fatalf("RecordVitals returned error: %v", err)
	}

	if v.Systolic == nil || *v.Systolic != 120 {
		t.Errorf("systolic = %v, want 120", v.Systolic)
	}
	if v.Diastolic == nil || *v.Diastolic != 80 {
		t.Errorf("diastolic = %v, want 80", v.Diastolic)
	}
	if v.MeanArterial == nil || *v.MeanArterial != 93 {
		t.Errorf("mean arterial = %v, want 93", v.MeanArterial)
	}
}

func TestRecordVitalsMalformedBloodPressure(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	v := &VitalSigns{
		PatientID:     uuid.New(),
		BloodPressure: ptrStr("high"),
	}
	if _, err := svc.RecordVitals(context.Background(), v); err != nil {
		t.Fatalf("RecordVitals returned error: %v", err)
	}
	if v.Systolic != nil || v.MeanArterial != nil {
		t.Error("malformed blood pressure should leave components nil")
	}
}

func TestRecordVitalsRequiresPatient(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	if _, err := svc.RecordVitals(context.Background(), &VitalSigns{}); err == nil {
		t.Fatal("expected error for missing patient id")
	}
}

func TestAssessNormalVitals(t *testing.T) {
	a := Assess(&VitalSigns{
		HeartRate:   ptrFloat(72),
		Systolic:    ptrFloat(120),
		Diastolic:   ptrFloat(80),
		Temperature: ptrFloat(36.8),
		RespRate:    ptrFloat(14),
		SpO2:        ptrFloat(98),
		OnOxygen:    ptrBool(false),
	})

	if a.Statuses["hr"] != obs.StatusNormal {
		t.Errorf("hr status = %v, want normal", a.Statuses["hr"])
	}
	if a.Overall != severity.RankLow {
		t.Errorf("overall = %v, want low", a.Overall)
	}

	var news *float64
	for _, sc := range a.Scores {
		if sc.Name == "early_warning" {
			total := sc.Total
			news = &total
		}
	}
	if news == nil || *news != 0 {
		t.Errorf("early warning total = %v, want 0", news)
	}
}

func TestAssessCriticalSpO2(t *testing.T) {
	a := Assess(&VitalSigns{SpO2: ptrFloat(85)})

	if a.Statuses["spo2"] != obs.StatusCriticalLow {
		t.Errorf("spo2 status = %v, want critical-low", a.Statuses["spo2"])
	}
	if a.Overall != severity.RankCritical {
		t.Errorf("overall = %v, want critical", a.Overall)
	}
}

func TestAssessMissingSignsAreUnknown(t *testing.T) {
	a := Assess(&VitalSigns{HeartRate: ptrFloat(72)})

	if a.Statuses["temp"] != obs.StatusUnknown {
		t.Errorf("temp status = %v, want unknown", a.Statuses["temp"])
	}
	if a.Overall != severity.RankLow {
		t.Errorf("overall = %v, want low when only normal signs present", a.Overall)
	}
}

func TestAssessGCSComponents(t *testing.T) {
	a := Assess(&VitalSigns{
		GCSEye:    ptrInt(1),
		GCSVerbal: ptrInt(1),
		GCSMotor:  ptrInt(1),
	})

	if a.Statuses["gcs"] != obs.StatusCriticalLow {
		t.Errorf("gcs status = %v, want critical-low", a.Statuses["gcs"])
	}

	found := false
	for _, sc := range a.Scores {
		if sc.Name == "glasgow_coma_scale" {
			found = true
			if sc.Total != 3 {
				t.Errorf("gcs total = %v, want 3", sc.Total)
			}
		}
	}
	if !found {
		t.Error("expected glasgow coma score in assessment")
	}
}

func TestAssessAlteredConsciousnessFromGCS(t *testing.T) {
	// GCS below 15 marks consciousness altered for the early warning score
	// even without the explicit flag.
	a := Assess(&VitalSigns{
		RespRate:    ptrFloat(14),
		SpO2:        ptrFloat(98),
		Systolic:    ptrFloat(120),
		HeartRate:   ptrFloat(72),
		Temperature: ptrFloat(36.8),
		OnOxygen:    ptrBool(false),
		GCSEye:      ptrInt(3),
		GCSVerbal:   ptrInt(4),
		GCSMotor:    ptrInt(5),
	})

	for _, sc := range a.Scores {
		if sc.Name == "early_warning" {
			if sc.Components["consciousness"] != 3 {
				t.Errorf("consciousness component = %v, want 3", sc.Components["consciousness"])
			}
		}
	}
}

func TestAssessUnchartedConsciousnessScoresAlert(t *testing.T) {
	// Neither the flag nor GCS charted: consciousness counts as alert so
	// an otherwise complete set still gets an early warning score.
	a := Assess(&VitalSigns{
		RespRate:    ptrFloat(14),
		SpO2:        ptrFloat(98),
		Systolic:    ptrFloat(120),
		HeartRate:   ptrFloat(72),
		Temperature: ptrFloat(36.8),
		OnOxygen:    ptrBool(false),
	})

	found := false
	for _, sc := range a.Scores {
		if sc.Name == "early_warning" {
			found = true
			if sc.Total != 0 {
				t.Errorf("early warning total = %v, want 0", sc.Total)
			}
			if sc.Components["consciousness"] != 0 {
				t.Errorf("consciousness component = %v, want 0", sc.Components["consciousness"])
			}
		}
	}
	if !found {
		t.Error("expected an early warning score for a complete set")
	}
}

func TestLatestAssessment(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	patientID := uuid.New()

	old := &VitalSigns{PatientID: patientID, SpO2: ptrFloat(98), RecordedAt: time.Now().Add(-2 * time.Hour)}
	recent := &VitalSigns{PatientID: patientID, SpO2: ptrFloat(85), RecordedAt: time.Now()}
	if _, err := svc.RecordVitals(context.Background(), old); err != nil {
		t.Fatalf("record old: %v", err)
	}
	if _, err := svc.RecordVitals(context.Background(), recent); err != nil {
		t.Fatalf("record recent: %v", err)
	}

	v, a, err := svc.LatestAssessment(context.Background(), patientID)
	if err != nil {
		t.Fatalf("LatestAssessment: %v", err)
	}
	if v.ID != recent.ID {
		t.Error("expected the most recent observation set")
	}
	if a.Overall != severity.RankCritical {
		t.Errorf("overall = %v, want critical", a.Overall)
	}
}
