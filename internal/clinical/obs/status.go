// Package obs classifies single named observations (heart rate, blood
// pressure components, temperature, and so on) against a static reference
// table. Every function is pure: same inputs, same result, no I/O.
package obs

import (
	"encoding/json"
	"fmt"

	"github.com/wardboard/wardboard/internal/clinical/severity"
)

// Status is the classification of one observation against its reference
// range. StatusUnknown means "cannot assess" — a missing value or an
// unregistered key — and is never coerced to StatusNormal.
type Status int

const (
	StatusUnknown Status = iota
	StatusCriticalLow
	StatusLow
	StatusNormal
	StatusHigh
	StatusCriticalHigh
)

var statusNames = map[Status]string{
	StatusUnknown:      "unknown",
	StatusCriticalLow:  "critical_low",
	StatusLow:          "low",
	StatusNormal:       "normal",
	StatusHigh:         "high",
	StatusCriticalHigh: "critical_high",
}

var statusValues = map[string]Status{
	"unknown":       StatusUnknown,
	"critical_low":  StatusCriticalLow,
	"low":           StatusLow,
	"normal":        StatusNormal,
	"high":          StatusHigh,
	"critical_high": StatusCriticalHigh,
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStatus maps a stored label back to a Status.
func ParseStatus(label string) (Status, error) {
	if s, ok := statusValues[label]; ok {
		return s, nil
	}
	return StatusUnknown, fmt.Errorf("unknown classification status: %q", label)
}

// MarshalJSON encodes the status as its string label.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a string label into a status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsCritical reports whether the status is beyond a critical bound.
func (s Status) IsCritical() bool {
	return s == StatusCriticalLow || s == StatusCriticalHigh
}

// Abnormal reports whether the status is outside the normal band.
// StatusUnknown is not abnormal; it is unassessable.
func (s Status) Abnormal() bool {
	switch s {
	case StatusCriticalLow, StatusCriticalHigh, StatusLow, StatusHigh:
		return true
	}
	return false
}

// Rank maps the status onto the shared severity scale used for triage.
func (s Status) Rank() severity.Rank {
	switch s {
	case StatusCriticalLow, StatusCriticalHigh:
		return severity.RankCritical
	case StatusLow, StatusHigh:
		return severity.RankHigh
	case StatusNormal:
		return severity.RankLow
	}
	return severity.RankMedium
}
