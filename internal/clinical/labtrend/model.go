// Package labtrend analyzes serial lab panels: per-analyte direction
// over a look-back window, flag computation at record time, reference
// range string parsing, and unit normalization. All functions are pure;
// "now" is always a parameter so results are reproducible.
package labtrend

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wardboard/wardboard/internal/clinical/obs"
)

// Value is one analyte result within a panel. Value is nil for
// qualitative results ("Negative", "Trace"). Flag is computed once when
// the value is recorded and carried with it, not re-derived at render
// time.
type Value struct {
	Name       string       `json:"name"`
	AnalyteKey string       `json:"analyte_key,omitempty"`
	Value      *float64     `json:"value"`
	Unit       string       `json:"unit,omitempty"`
	RefLow     *float64     `json:"ref_low,omitempty"`
	RefHigh    *float64     `json:"ref_high,omitempty"`
	Flag       obs.Status   `json:"flag"`
}

// Panel is one lab draw event: values sharing a collection timestamp.
// A nil CollectedAt means the draw time is unknown.
type Panel struct {
	Name        string     `json:"name"`
	CollectedAt *time.Time `json:"collected_at"`
	Values      []Value    `json:"values"`
}

// Direction is the per-analyte trend direction over the window.
type Direction int

const (
	DirectionStable Direction = iota
	DirectionIncreasing
	DirectionDecreasing
)

var directionNames = map[Direction]string{
	DirectionStable:     "stable",
	DirectionIncreasing: "increasing",
	DirectionDecreasing: "decreasing",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "stable"
}

// MarshalJSON encodes the direction as its string label.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a string label into a direction.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for dir, name := range directionNames {
		if name == s {
			*d = dir
			return nil
		}
	}
	return fmt.Errorf("unknown trend direction: %q", s)
}

// Point is one (timestamp, value) pair in the rendered series.
// Non-numeric values keep their slot with a nil Value.
type Point struct {
	CollectedAt *time.Time `json:"collected_at"`
	Value       *float64   `json:"value"`
}

// Trend is the derived per-analyte view: direction plus the ordered
// series used to render it. Recomputed on demand, never persisted.
type Trend struct {
	LabName       string     `json:"lab_name"`
	AnalyteKey    string     `json:"analyte_key,omitempty"`
	Direction     Direction  `json:"direction"`
	PctChange     float64    `json:"pct_change"`
	LatestValue   *float64   `json:"latest_value,omitempty"`
	LatestFlag    obs.Status `json:"latest_flag"`
	SeverityScore float64    `json:"severity_score"`
	Points        []Point    `json:"values"`
}
