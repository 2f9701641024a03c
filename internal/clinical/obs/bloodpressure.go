package obs

import (
	"math"
	"regexp"
	"strconv"
)

// BloodPressure is the decomposition of a raw "systolic/diastolic" string.
// All fields are nil when the input does not parse.
type BloodPressure struct {
	Systolic      *float64 `json:"systolic"`
	Diastolic     *float64 `json:"diastolic"`
	MeanArterial  *float64 `json:"mean_arterial_pressure"`
}

// Accepts ASCII and fullwidth slash or backslash separators, with
// optional whitespace around the separator.
var bpPattern = regexp.MustCompile(`^\s*(\d+)\s*[/\\／＼]\s*(\d+)\s*$`)

// ParseBloodPressure decomposes a raw blood pressure reading. Malformed
// input returns a zero BloodPressure with all-nil fields; it never fails.
// Mean arterial pressure is round-half-up((systolic + 2*diastolic) / 3).
func ParseBloodPressure(raw string) BloodPressure {
	m := bpPattern.FindStringSubmatch(raw)
	if m == nil {
		return BloodPressure{}
	}
	sys, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return BloodPressure{}
	}
	dia, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return BloodPressure{}
	}
	mean := math.Floor((sys+2*dia)/3 + 0.5)
	return BloodPressure{Systolic: &sys, Diastolic: &dia, MeanArterial: &mean}
}
