// Package severity defines the urgency ordering shared by vitals
// classification, lab flags, score bands, and the triage aggregator.
// Every consumer ranks with the same scale so that the triage banner,
// ranked lists, and generated handover text agree on ordering.
package severity

import (
	"encoding/json"
	"fmt"
)

// Rank is a coarse urgency bucket. Higher values are more urgent.
type Rank int

const (
	RankLow Rank = iota
	RankMedium
	RankHigh
	RankCritical
)

var rankNames = map[Rank]string{
	RankLow:      "low",
	RankMedium:   "medium",
	RankHigh:     "high",
	RankCritical: "critical",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "medium"
}

// MarshalJSON encodes the rank as its string label.
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a string label into a rank.
func (r *Rank) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Parse maps a label to a Rank. Unrecognized labels and "default" map to
// RankMedium so that unprioritized tasks sort between high and low.
func Parse(label string) (Rank, error) {
	switch label {
	case "critical":
		return RankCritical, nil
	case "high":
		return RankHigh, nil
	case "medium", "default", "":
		return RankMedium, nil
	case "low":
		return RankLow, nil
	}
	return RankMedium, fmt.Errorf("unknown severity label: %q", label)
}
