package labtrend

import (
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultRelativeChange is the fraction by which the newest value must
// differ from the oldest before a trend counts as increasing or
// decreasing. Not clinically validated; override via Options.
const DefaultRelativeChange = 0.10

// Options tunes the analyzer.
type Options struct {
	// RelativeChange is the direction threshold as a fraction (0.10 =
	// 10%). Zero or negative falls back to DefaultRelativeChange.
	RelativeChange float64
}

// Analyze computes the trend for one analyte across panels, restricted
// to panels collected within windowDays of now, using default options.
func Analyze(panels []Panel, analyteName, analyteKey string, windowDays int, now time.Time) *Trend {
	return AnalyzeOpts(panels, analyteName, analyteKey, windowDays, now, Options{})
}

// AnalyzeOpts is Analyze with explicit options.
//
// Panels with no collection timestamp are always in window, since their
// time cannot be determined. At least two in-window panels must carry a
// numeric value for the analyte (matched by key when the value has one,
// else by name); otherwise the trend is not computable and the result is
// nil. Non-numeric values are excluded from the direction comparison but
// retained in the returned series.
func AnalyzeOpts(panels []Panel, analyteName, analyteKey string, windowDays int, now time.Time, opts Options) *Trend {
	threshold := opts.RelativeChange
	if threshold <= 0 {
		threshold = DefaultRelativeChange
	}

	type match struct {
		at    *time.Time
		value Value
	}
	var matches []match
	cutoff := now.AddDate(0, 0, -windowDays)
	for _, p := range panels {
		if windowDays > 0 && p.CollectedAt != nil && p.CollectedAt.Before(cutoff) {
			continue
		}
		for _, v := range p.Values {
			if !matchesAnalyte(v, analyteName, analyteKey) {
				continue
			}
			matches = append(matches, match{at: p.CollectedAt, value: v})
			break
		}
	}

	// Oldest first; panels with unknown time sort before dated ones.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].at == nil || matches[j].at == nil {
			return matches[j].at != nil
		}
		return matches[i].at.Before(*matches[j].at)
	})

	var numeric []float64
	points := make([]Point, 0, len(matches))
	var latest Value
	for _, m := range matches {
		points = append(points, Point{CollectedAt: m.at, Value: m.value.Value})
		if m.value.Value != nil {
			numeric = append(numeric, *m.value.Value)
			latest = m.value
		}
	}
	if len(numeric) < 2 {
		return nil
	}

	pct := pctChange(numeric[0], numeric[len(numeric)-1])
	direction := DirectionStable
	switch {
	case pct > threshold*100:
		direction = DirectionIncreasing
	case pct < -threshold*100:
		direction = DirectionDecreasing
	}

	t := &Trend{
		LabName:     analyteName,
		AnalyteKey:  analyteKey,
		Direction:   direction,
		PctChange:   math.Round(pct*100) / 100,
		LatestValue: latest.Value,
		LatestFlag:  latest.Flag,
		Points:      points,
	}
	t.SeverityScore = TrendSeverity(t)
	return t
}

func matchesAnalyte(v Value, name, key string) bool {
	if key != "" && v.AnalyteKey != "" {
		return v.AnalyteKey == key
	}
	return strings.EqualFold(v.Name, name)
}

// pctChange returns the relative change from first to last in percent.
// A zero baseline cannot be expressed as a ratio; any move off zero is
// treated as a full-scale change.
func pctChange(first, last float64) float64 {
	if first == 0 {
		if last == 0 {
			return 0
		}
		return 100
	}
	return (last - first) / math.Abs(first) * 100
}
