// Package score implements the composite severity score calculators:
// mean arterial pressure, Glasgow coma scale, the seven-component early
// warning composite, the pneumonia severity index, albumin-corrected
// calcium, and rate-corrected QT. Each calculator is a pure function that
// either produces a Result or reports why it could not.
package score

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wardboard/wardboard/internal/clinical/severity"
)

// ErrInsufficientInput is returned when a required field is missing,
// non-numeric, or would force a division by zero. Callers gray out or
// hide the corresponding display element; they never see a partial total.
var ErrInsufficientInput = errors.New("insufficient input")

// ErrInvalidInput is returned when a sub-score is outside its valid
// range. Rejecting beats clamping: a silently adjusted total is worse
// than no total.
var ErrInvalidInput = errors.New("invalid input")

// Band is the coarse severity bucket attached to a computed score. The
// set is closed; each calculator uses the subset that applies to it.
type Band int

const (
	BandBaseline Band = iota
	BandNormal
	BandLow
	BandMild
	BandBorderline
	BandMedium
	BandModerate
	BandHigh
	BandSevere
)

var bandNames = map[Band]string{
	BandBaseline:   "baseline",
	BandNormal:     "normal",
	BandLow:        "low",
	BandMild:       "mild",
	BandBorderline: "borderline",
	BandMedium:     "medium",
	BandModerate:   "moderate",
	BandHigh:       "high",
	BandSevere:     "severe",
}

func (b Band) String() string {
	if name, ok := bandNames[b]; ok {
		return name
	}
	return "normal"
}

// MarshalJSON encodes the band as its string label.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes a string label into a band.
func (b *Band) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for band, name := range bandNames {
		if name == s {
			*b = band
			return nil
		}
	}
	return fmt.Errorf("unknown score band: %q", s)
}

// Rank maps the band onto the shared severity scale.
func (b Band) Rank() severity.Rank {
	switch b {
	case BandSevere, BandHigh:
		return severity.RankCritical
	case BandModerate, BandMedium, BandBorderline:
		return severity.RankHigh
	case BandMild, BandLow:
		return severity.RankMedium
	}
	return severity.RankLow
}

// Result is the output of a composite score calculator: the numeric
// total, its band, and the per-component sub-scores that produced it.
type Result struct {
	Name       string             `json:"score_name"`
	Total      float64            `json:"total"`
	Band       Band               `json:"band"`
	Components map[string]float64 `json:"components,omitempty"`
}
