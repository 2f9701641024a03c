package obs

import "math"

// ReferenceRange holds the inclusive normal band for one observation key,
// plus optional critical bounds. Critical bounds are pointers so that a
// registered threshold of 0 stays distinct from "no critical bound on
// this side".
type ReferenceRange struct {
	Low          float64
	High         float64
	CriticalLow  *float64
	CriticalHigh *float64
}

func critp(v float64) *float64 { return &v }

// referenceRanges is the process-wide table of observation bounds. Loaded
// once, never mutated.
var referenceRanges = map[string]ReferenceRange{
	"hr":   {Low: 60, High: 100, CriticalLow: critp(40), CriticalHigh: critp(150)},
	"sbp":  {Low: 90, High: 140, CriticalLow: critp(70), CriticalHigh: critp(180)},
	"dbp":  {Low: 60, High: 90, CriticalLow: critp(40), CriticalHigh: critp(120)},
	"map":  {Low: 65, High: 105, CriticalLow: critp(50), CriticalHigh: critp(130)},
	"temp": {Low: 36.0, High: 37.5, CriticalLow: critp(35.0), CriticalHigh: critp(39.5)},
	"rr":   {Low: 12, High: 20, CriticalLow: critp(8), CriticalHigh: critp(30)},
	// Saturation has no upper limit: the high side is unbounded so a
	// reading above 100 stays normal rather than inventing a high state.
	"spo2": {Low: 94, High: math.Inf(1), CriticalLow: critp(88)},
	"gcs":  {Low: 15, High: 15, CriticalLow: critp(8)},
}

// RangeFor returns the registered reference range for key.
func RangeFor(key string) (ReferenceRange, bool) {
	r, ok := referenceRanges[key]
	return r, ok
}

// Keys returns the registered observation keys.
func Keys() []string {
	out := make([]string, 0, len(referenceRanges))
	for k := range referenceRanges {
		out = append(out, k)
	}
	return out
}

// Classify maps a named observation to its classification status.
//
// A nil value or an unregistered key yields StatusUnknown. Otherwise the
// bounds are evaluated in fixed order: critical-low, critical-high, low,
// high, normal. Band edges are inclusive on the normal side, so a value
// exactly equal to a bound classifies as the passing side.
func Classify(key string, value *float64) Status {
	ref, ok := referenceRanges[key]
	if !ok || value == nil {
		return StatusUnknown
	}
	v := *value

	if ref.CriticalLow != nil && v < *ref.CriticalLow {
		return StatusCriticalLow
	}
	if ref.CriticalHigh != nil && v > *ref.CriticalHigh {
		return StatusCriticalHigh
	}
	if v < ref.Low {
		return StatusLow
	}
	if v > ref.High {
		return StatusHigh
	}
	return StatusNormal
}
