package labtrend

import (
	"math"
	"sort"

	"github.com/wardboard/wardboard/internal/clinical/obs"
)

// Severity weights: the latest flag dominates, the direction relative to
// the flag adds urgency when the value is moving further from normal,
// and the magnitude of change contributes a capped amount.
const (
	flagWeightCritical = 100.0
	flagWeightAbnormal = 50.0
	awayFromNormalWeight = 30.0
	magnitudeCapPct    = 200.0
	magnitudeFactor    = 0.1
)

// TrendSeverity returns a numeric urgency score for a trend; higher is
// more urgent. Used to order the critical-labs strip on the dashboard.
func TrendSeverity(t *Trend) float64 {
	var flagW float64
	switch {
	case t.LatestFlag.IsCritical():
		flagW = flagWeightCritical
	case t.LatestFlag.Abnormal():
		flagW = flagWeightAbnormal
	}

	var dirW float64
	movingAway := (t.LatestFlag == obs.StatusHigh || t.LatestFlag == obs.StatusCriticalHigh) && t.Direction == DirectionIncreasing ||
		(t.LatestFlag == obs.StatusLow || t.LatestFlag == obs.StatusCriticalLow) && t.Direction == DirectionDecreasing
	if movingAway {
		dirW = awayFromNormalWeight
	}

	magW := math.Min(math.Abs(t.PctChange), magnitudeCapPct) * magnitudeFactor
	return math.Round((flagW+dirW+magW)*100) / 100
}

// SortBySeverity orders trends most urgent first. The sort is stable so
// equal scores keep their input order.
func SortBySeverity(trends []*Trend) {
	for _, t := range trends {
		t.SeverityScore = TrendSeverity(t)
	}
	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].SeverityScore > trends[j].SeverityScore
	})
}
