package lab

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wardboard/wardboard/internal/clinical/labtrend"
	"github.com/wardboard/wardboard/internal/clinical/obs"
)

// -- Mock Repository --

type mockRepo struct {
	panels map[uuid.UUID]*Panel
}

func newMockRepo() *mockRepo {
	return &mockRepo{panels: make(map[uuid.UUID]*Panel)}
}

func (m *mockRepo) CreatePanel(_ context.Context, p *Panel) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	for _, res := range p.Results {
		res.ID = uuid.New()
		res.PanelID = p.ID
	}
	m.panels[p.ID] = p
	return nil
}

func (m *mockRepo) GetPanel(_ context.Context, id uuid.UUID) (*Panel, error) {
	p, ok := m.panels[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) ListPanelsByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Panel, int, error) {
	var result []*Panel
	for _, p := range m.panels {
		if p.PatientID == patientID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) PanelsForAnalyte(_ context.Context, patientID uuid.UUID, analyteName, analyteKey string) ([]*Panel, error) {
	var result []*Panel
	for _, p := range m.panels {
		if p.PatientID != patientID {
			continue
		}
		for _, res := range p.Results {
			if (analyteKey != "" && res.AnalyteKey == analyteKey) ||
				(analyteKey == "" && res.Name == analyteName) {
				result = append(result, p)
				break
			}
		}
	}
	return result, nil
}

func (m *mockRepo) ListCriticalResults(_ context.Context, patientID *uuid.UUID, limit int) ([]*CriticalResult, error) {
	var criticals []*CriticalResult
	for _, p := range m.panels {
		if patientID != nil && p.PatientID != *patientID {
			continue
		}
		for _, res := range p.Results {
			if res.Flag.IsCritical() {
				criticals = append(criticals, &CriticalResult{Result: res, PanelName: p.Name, PatientID: p.PatientID})
			}
		}
	}
	return criticals, nil
}

func (m *mockRepo) DeletePanel(_ context.Context, id uuid.UUID) error {
	delete(m.panels, id)
	return nil
}

func ptrFloat(f float64) *float64 { return &f }
func ptrStr(s string) *string     { return &s }
func ptrTime(t time.Time) *time.Time {
	return &t
}

func newTestService(repo Repository) *Service {
	return NewService(repo, nil, 14, 0)
}

// -- Tests --

func TestRecordPanelFlagsResults(t *testing.T) {
	svc := newTestService(newMockRepo())

	p := &Panel{
		PatientID: uuid.New(),
		Name:      "U&E",
		Results: []*Result{
			{Name: "Potassium", AnalyteKey: "potassium", Value: ptrFloat(4.2), Unit: "mmol/L", RefLow: ptrFloat(3.5), RefHigh: ptrFloat(5.1)},
			{Name: "Sodium", AnalyteKey: "sodium", Value: ptrFloat(134.5), Unit: "mmol/L", RefLow: ptrFloat(135), RefHigh: ptrFloat(145)},
		},
	}
	if err := svc.RecordPanel(context.Background(), p); err != nil {
		t.Fatalf("RecordPanel returned error: %v", err)
	}

	if p.Results[0].Flag != obs.StatusNormal {
		t.Errorf("potassium flag = %v, want normal", p.Results[0].Flag)
	}
	if p.Results[1].Flag != obs.StatusLow {
		t.Errorf("sodium 134.5 flag = %v, want low", p.Results[1].Flag)
	}
}

func TestRecordPanelParsesTextualRange(t *testing.T) {
	svc := newTestService(newMockRepo())

	p := &Panel{
		PatientID: uuid.New(),
		Name:      "U&E",
		Results: []*Result{
			{Name: "Potassium", AnalyteKey: "potassium", Value: ptrFloat(4.2), RefText: ptrStr("3.5 - 5.1")},
		},
	}
	if err := svc.RecordPanel(context.Background(), p); err != nil {
		t.Fatalf("RecordPanel returned error: %v", err)
	}

	res := p.Results[0]
	if res.RefLow == nil || *res.RefLow != 3.5 || res.RefHigh == nil || *res.RefHigh != 5.1 {
		t.Errorf("parsed range = [%v, %v], want [3.5, 5.1]", res.RefLow, res.RefHigh)
	}
	if res.Flag != obs.StatusNormal {
		t.Errorf("flag = %v, want normal", res.Flag)
	}
}

func TestRecordPanelQualitativeResultIsUnknown(t *testing.T) {
	svc := newTestService(newMockRepo())

	p := &Panel{
		PatientID: uuid.New(),
		Name:      "Urinalysis",
		Results: []*Result{
			{Name: "Blood", ValueText: ptrStr("Negative"), RefText: ptrStr("Negative")},
		},
	}
	if err := svc.RecordPanel(context.Background(), p); err != nil {
		t.Fatalf("RecordPanel returned error: %v", err)
	}
	if p.Results[0].Flag != obs.StatusUnknown {
		t.Errorf("qualitative flag = %v, want unknown", p.Results[0].Flag)
	}
}

func TestRecordPanelNormalizesUnit(t *testing.T) {
	svc := newTestService(newMockRepo())

	p := &Panel{
		PatientID: uuid.New(),
		Name:      "U&E",
		Results: []*Result{
			{Name: "Potassium", Value: ptrFloat(4.2), Unit: "MMOL/L", RefLow: ptrFloat(3.5), RefHigh: ptrFloat(5.1)},
		},
	}
	if err := svc.RecordPanel(context.Background(), p); err != nil {
		t.Fatalf("RecordPanel returned error: %v", err)
	}
	if p.Results[0].Unit != "mmol/L" {
		t.Errorf("unit = %q, want mmol/L", p.Results[0].Unit)
	}
}

func TestRecordPanelValidation(t *testing.T) {
	svc := newTestService(newMockRepo())

	if err := svc.RecordPanel(context.Background(), &Panel{Name: "U&E", Results: []*Result{{Name: "K"}}}); err == nil {
		t.Error("expected error for missing patient id")
	}
	if err := svc.RecordPanel(context.Background(), &Panel{PatientID: uuid.New(), Results: []*Result{{Name: "K"}}}); err == nil {
		t.Error("expected error for missing panel name")
	}
	if err := svc.RecordPanel(context.Background(), &Panel{PatientID: uuid.New(), Name: "U&E"}); err == nil {
		t.Error("expected error for empty panel")
	}
}

func TestTrendIncreasing(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := uuid.New()

	now := time.Now().UTC()
	for i, v := range []float64{4.0, 4.2, 4.9} {
		p := &Panel{
			PatientID:   patientID,
			Name:        "U&E",
			CollectedAt: ptrTime(now.AddDate(0, 0, -(3 - i))),
			Results: []*Result{
				{Name: "Potassium", AnalyteKey: "potassium", Value: ptrFloat(v), RefLow: ptrFloat(3.5), RefHigh: ptrFloat(5.1)},
			},
		}
		if err := svc.RecordPanel(context.Background(), p); err != nil {
			t.Fatalf("RecordPanel %d: %v", i, err)
		}
	}

	trend, err := svc.Trend(context.Background(), patientID, "Potassium", "potassium", 0)
	if err != nil {
		t.Fatalf("Trend returned error: %v", err)
	}
	if trend == nil {
		t.Fatal("expected a computable trend")
	}
	if trend.Direction != labtrend.DirectionIncreasing {
		t.Errorf("direction = %v, want increasing", trend.Direction)
	}
	if trend.LatestValue == nil || *trend.LatestValue != 4.9 {
		t.Errorf("latest value = %v, want 4.9", trend.LatestValue)
	}
}

func TestTrendSinglePanelNil(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := uuid.New()

	p := &Panel{
		PatientID:   patientID,
		Name:        "U&E",
		CollectedAt: ptrTime(time.Now().UTC()),
		Results: []*Result{
			{Name: "Potassium", AnalyteKey: "potassium", Value: ptrFloat(4.0)},
		},
	}
	if err := svc.RecordPanel(context.Background(), p); err != nil {
		t.Fatalf("RecordPanel: %v", err)
	}

	trend, err := svc.Trend(context.Background(), patientID, "Potassium", "potassium", 0)
	if err != nil {
		t.Fatalf("Trend returned error: %v", err)
	}
	if trend != nil {
		t.Errorf("expected nil trend for a single panel, got %+v", trend)
	}
}

func TestTrendRequiresAnalyte(t *testing.T) {
	svc := newTestService(newMockRepo())
	if _, err := svc.Trend(context.Background(), uuid.New(), "", "", 0); err == nil {
		t.Fatal("expected error for missing analyte")
	}
}

func TestListCritical(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := uuid.New()

	// Potassium 6.9 against 3.5-5.1 exceeds the critical multiplier band.
	p := &Panel{
		PatientID: patientID,
		Name:      "U&E",
		Results: []*Result{
			{Name: "Potassium", AnalyteKey: "potassium", Value: ptrFloat(6.9), RefLow: ptrFloat(3.5), RefHigh: ptrFloat(5.1)},
			{Name: "Sodium", AnalyteKey: "sodium", Value: ptrFloat(140), RefLow: ptrFloat(135), RefHigh: ptrFloat(145)},
		},
	}
	if err := svc.RecordPanel(context.Background(), p); err != nil {
		t.Fatalf("RecordPanel: %v", err)
	}

	criticals, err := svc.ListCritical(context.Background(), &patientID, 0)
	if err != nil {
		t.Fatalf("ListCritical returned error: %v", err)
	}
	if len(criticals) != 1 {
		t.Fatalf("got %d critical results, want 1", len(criticals))
	}
	if criticals[0].Result.Name != "Potassium" {
		t.Errorf("critical result = %s, want Potassium", criticals[0].Result.Name)
	}
}
