package labtrend

import (
	"reflect"
	"testing"
	"time"

	"github.com/wardboard/wardboard/internal/clinical/obs"
)

func fp(v float64) *float64 { return &v }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func potassiumPanel(daysAgo int, value *float64) Panel {
	at := now.AddDate(0, 0, -daysAgo)
	return Panel{
		Name:        "BMP",
		CollectedAt: &at,
		Values: []Value{
			{Name: "Potassium", AnalyteKey: "potassium", Value: value, Unit: "mmol/L", Flag: obs.StatusNormal},
		},
	}
}

func TestAnalyze_Increasing(t *testing.T) {
	panels := []Panel{
		potassiumPanel(6, fp(4.0)),
		potassiumPanel(3, fp(4.2)),
		potassiumPanel(1, fp(4.9)),
	}
	trend := Analyze(panels, "Potassium", "potassium", 14, now)
	if trend == nil {
		t.Fatal("expected a trend")
	}
	if trend.Direction != DirectionIncreasing {
		t.Errorf("direction = %v, want increasing", trend.Direction)
	}
	if len(trend.Points) != 3 {
		t.Errorf("points = %d, want 3", len(trend.Points))
	}
	if trend.LatestValue == nil || *trend.LatestValue != 4.9 {
		t.Errorf("latest value = %v, want 4.9", trend.LatestValue)
	}
}

func TestAnalyze_Decreasing(t *testing.T) {
	panels := []Panel{
		potassiumPanel(6, fp(5.0)),
		potassiumPanel(1, fp(4.0)),
	}
	trend := Analyze(panels, "Potassium", "potassium", 14, now)
	if trend == nil {
		t.Fatal("expected a trend")
	}
	if trend.Direction != DirectionDecreasing {
		t.Errorf("direction = %v, want decreasing", trend.Direction)
	}
}

func TestAnalyze_StableWithinThreshold(t *testing.T) {
	panels := []Panel{
		potassiumPanel(6, fp(4.0)),
		potassiumPanel(1, fp(4.3)), // +7.5%, under the 10% default
	}
	trend := Analyze(panels, "Potassium", "potassium", 14, now)
	if trend == nil {
		t.Fatal("expected a trend")
	}
	if trend.Direction != DirectionStable {
		t.Errorf("direction = %v, want stable", trend.Direction)
	}
}

func TestAnalyze_CustomThreshold(t *testing.T) {
	panels := []Panel{
		potassiumPanel(6, fp(4.0)),
		potassiumPanel(1, fp(4.3)),
	}
	trend := AnalyzeOpts(panels, "Potassium", "potassium", 14, now, Options{RelativeChange: 0.05})
	if trend == nil {
		t.Fatal("expected a trend")
	}
	if trend.Direction != DirectionIncreasing {
		t.Errorf("direction = %v, want increasing at 5%% threshold", trend.Direction)
	}
}

func TestAnalyze_SinglePanelNotComputable(t *testing.T) {
	panels := []Panel{potassiumPanel(1, fp(4.0))}
	if trend := Analyze(panels, "Potassium", "potassium", 14, now); trend != nil {
		t.Errorf("expected nil for a single qualifying panel, got %+v", trend)
	}
}

func TestAnalyze_WindowExcludesOldPanels(t *testing.T) {
	panels := []Panel{
		potassiumPanel(30, fp(3.0)),
		potassiumPanel(6, fp(4.0)),
		potassiumPanel(1, fp(4.2)),
	}
	trend := Analyze(panels, "Potassium", "potassium", 7, now)
	if trend == nil {
		t.Fatal("expected a trend")
	}
	if len(trend.Points) != 2 {
		t.Errorf("points = %d, want 2 (the 30-day-old panel is outside the window)", len(trend.Points))
	}
	if trend.Direction != DirectionStable {
		t.Errorf("direction = %v, want stable (4.0 -> 4.2 is 5%%)", trend.Direction)
	}
}

func TestAnalyze_NilTimestampAlwaysInWindow(t *testing.T) {
	panels := []Panel{
		{Name: "BMP", Values: []Value{{Name: "Potassium", AnalyteKey: "potassium", Value: fp(3.0)}}},
		potassiumPanel(1, fp(4.0)),
	}
	trend := Analyze(panels, "Potassium", "potassium", 7, now)
	if trend == nil {
		t.Fatal("expected a trend; undated panels are always in window")
	}
	if len(trend.Points) != 2 {
		t.Errorf("points = %d, want 2", len(trend.Points))
	}
	if trend.Direction != DirectionIncreasing {
		t.Errorf("direction = %v, want increasing (3.0 -> 4.0)", trend.Direction)
	}
}

func TestAnalyze_NonNumericRetainedButExcluded(t *testing.T) {
	mid := now.AddDate(0, 0, -3)
	panels := []Panel{
		potassiumPanel(6, fp(4.0)),
		{Name: "BMP", CollectedAt: &mid, Values: []Value{
			{Name: "Potassium", AnalyteKey: "potassium", Value: nil},
		}},
		potassiumPanel(1, fp(4.9)),
	}
	trend := Analyze(panels, "Potassium", "potassium", 14, now)
	if trend == nil {
		t.Fatal("expected a trend")
	}
	if len(trend.Points) != 3 {
		t.Errorf("points = %d, want 3 (non-numeric kept for display)", len(trend.Points))
	}
	if trend.Points[1].Value != nil {
		t.Errorf("middle point should stay non-numeric")
	}
	if trend.Direction != DirectionIncreasing {
		t.Errorf("direction = %v, want increasing", trend.Direction)
	}
}

func TestAnalyze_MatchByNameWhenNoKey(t *testing.T) {
	at1, at2 := now.AddDate(0, 0, -2), now.AddDate(0, 0, -1)
	panels := []Panel{
		{CollectedAt: &at1, Values: []Value{{Name: "Creatinine", Value: fp(90)}}},
		{CollectedAt: &at2, Values: []Value{{Name: "creatinine", Value: fp(140)}}},
	}
	trend := Analyze(panels, "Creatinine", "", 7, now)
	if trend == nil {
		t.Fatal("expected a trend matched by name")
	}
	if trend.Direction != DirectionIncreasing {
		t.Errorf("direction = %v, want increasing", trend.Direction)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	panels := []Panel{
		potassiumPanel(6, fp(4.0)),
		potassiumPanel(1, fp(4.9)),
	}
	a := Analyze(panels, "Potassium", "potassium", 14, now)
	b := Analyze(panels, "Potassium", "potassium", 14, now)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same inputs produced %+v then %+v", a, b)
	}
}
