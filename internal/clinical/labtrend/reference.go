package labtrend

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wardboard/wardboard/internal/clinical/obs"
)

// RefRange is a reference range parsed from a lab report string. Either
// bound may be absent.
type RefRange struct {
	Low     *float64 `json:"low,omitempty"`
	High    *float64 `json:"high,omitempty"`
	RawText string   `json:"raw_text,omitempty"`
}

// Bounded reports whether at least one bound was parsed.
func (r RefRange) Bounded() bool {
	return r.Low != nil || r.High != nil
}

const numPat = `[+-]?\d+(?:\.\d+)?`

var (
	// "3.5 - 5.1", "3.5–5.1" (en dash), "3.5—5.1" (em dash), "3.5 to 5.1"
	rangeRe = regexp.MustCompile(`(?P<lo>` + numPat + `)\s*(?:[-–—]|to)\s*(?P<hi>` + numPat + `)`)
	// "<= 5.0", "≤5.0", "< 5.0"
	upperOnlyRe = regexp.MustCompile(`[<≤]\s*=?\s*(?P<hi>` + numPat + `)`)
	// ">= 1.0", "≥1.0", "> 1.0"
	lowerOnlyRe = regexp.MustCompile(`[>≥]\s*=?\s*(?P<lo>` + numPat + `)`)
	// qualitative results with no numeric range
	qualitativeRe = regexp.MustCompile(`(?i)^(negative|non[- ]?reactive|not detected|absent|normal)$`)
)

// ParseReferenceRange parses the reference-range strings found on lab
// reports: plain ranges with hyphen/en-dash/em-dash/"to" separators,
// one-sided bounds, qualitative results, and multi-population strings
// like "Adult: 3.5-5.1; Child: 3.0-4.5" (the first population wins).
// Unparseable text yields an unbounded range, never an error.
func ParseReferenceRange(raw string) RefRange {
	text := strings.TrimSpace(raw)
	if text == "" {
		return RefRange{RawText: raw}
	}
	if qualitativeRe.MatchString(text) {
		return RefRange{RawText: raw}
	}

	if i := strings.Index(text, ";"); i >= 0 {
		text = strings.TrimSpace(text[:i])
		if j := strings.Index(text, ":"); j >= 0 {
			text = strings.TrimSpace(text[j+1:])
		}
	}

	if m := rangeRe.FindStringSubmatch(text); m != nil {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return RefRange{Low: &lo, High: &hi, RawText: raw}
		}
	}
	if m := upperOnlyRe.FindStringSubmatch(text); m != nil {
		if hi, err := strconv.ParseFloat(m[1], 64); err == nil {
			return RefRange{High: &hi, RawText: raw}
		}
	}
	if m := lowerOnlyRe.FindStringSubmatch(text); m != nil {
		if lo, err := strconv.ParseFloat(m[1], 64); err == nil {
			return RefRange{Low: &lo, RawText: raw}
		}
	}
	return RefRange{RawText: raw}
}

// defaultCriticalMultiplier makes a value more than 50% beyond the
// reference boundary critical.
const defaultCriticalMultiplier = 0.50

// criticalMultiplierOverrides tightens (or widens) the critical window
// for specific analytes. Zero means any excursion is critical.
var criticalMultiplierOverrides = map[string]float64{
	"potassium":  0.20,
	"sodium":     0.10,
	"glucose":    0.50,
	"calcium":    0.25,
	"magnesium":  0.30,
	"phosphate":  0.30,
	"troponin_i": 0.0,
	"troponin_t": 0.0,
	"inr":        0.50,
}

// ComputeFlag classifies a lab value against its parsed reference range.
// This runs once at record time; the flag then travels with the value.
// An unbounded range yields StatusNormal — with no bounds there is
// nothing to flag against.
func ComputeFlag(value float64, ref RefRange, analyteKey string) obs.Status {
	if !ref.Bounded() {
		return obs.StatusNormal
	}
	multiplier, ok := criticalMultiplierOverrides[analyteKey]
	if !ok {
		multiplier = defaultCriticalMultiplier
	}

	if ref.High != nil && value > *ref.High {
		low := 0.0
		if ref.Low != nil {
			low = *ref.Low
		}
		threshold := *ref.High
		if span := *ref.High - low; span > 0 {
			threshold = *ref.High + span*multiplier
		}
		if value > threshold {
			return obs.StatusCriticalHigh
		}
		return obs.StatusHigh
	}
	if ref.Low != nil && value < *ref.Low {
		high := *ref.Low
		if ref.High != nil {
			high = *ref.High
		}
		threshold := *ref.Low
		if span := high - *ref.Low; span > 0 {
			threshold = *ref.Low - span*multiplier
		}
		if value < threshold {
			return obs.StatusCriticalLow
		}
		return obs.StatusLow
	}
	return obs.StatusNormal
}
