package labtrend

import (
	"regexp"
	"strings"
)

// unitAliases maps lowercased, whitespace-stripped unit spellings to a
// single canonical form.
var unitAliases = map[string]string{
	// volume
	"ml": "mL",
	"dl": "dL",
	"l":  "L",
	// concentration
	"mmol/l":  "mmol/L",
	"umol/l":  "umol/L",
	"µmol/l":  "umol/L",
	"nmol/l":  "nmol/L",
	"meq/l":   "mEq/L",
	"mg/dl":   "mg/dL",
	"mg/l":    "mg/L",
	"g/dl":    "g/dL",
	"g/l":     "g/L",
	"ng/ml":   "ng/mL",
	"ng/dl":   "ng/dL",
	"pg/ml":   "pg/mL",
	"ug/ml":   "ug/mL",
	"µg/ml":   "ug/mL",
	"iu/l":    "IU/L",
	"u/l":     "U/L",
	"iu/ml":   "IU/mL",
	// cell counts
	"x10^9/l":  "x10^9/L",
	"x10^12/l": "x10^12/L",
	"x10e9/l":  "x10^9/L",
	"x10e12/l": "x10^12/L",
	"10^9/l":   "x10^9/L",
	"10^12/l":  "x10^12/L",
	"thou/ul":  "x10^3/uL",
	"mil/ul":   "x10^6/uL",
	"k/ul":     "x10^3/uL",
	// percent
	"%":       "%",
	"percent": "%",
	// time
	"sec":     "s",
	"seconds": "s",
	"s":       "s",
	// misc
	"fl":    "fL",
	"pg":    "pg",
	"mm/hr": "mm/hr",
	"mm/h":  "mm/hr",
	"ratio": "ratio",
}

type unitPair struct{ from, to string }

// conversionFactors holds multipliers for the conversions that are safe
// without knowing the analyte's molar mass.
var conversionFactors = map[unitPair]float64{
	{"g/dL", "g/L"}:     10.0,
	{"g/L", "g/dL"}:     0.1,
	{"mg/dL", "mg/L"}:   10.0,
	{"mg/L", "mg/dL"}:   0.1,
	{"umol/L", "mg/dL"}: 0.0113, // creatinine-specific approximation
	{"ng/mL", "ug/L"}:   1.0,
	{"ug/L", "ng/mL"}:   1.0,
	{"mEq/L", "mmol/L"}: 1.0, // monovalent ions
	{"mmol/L", "mEq/L"}: 1.0,
}

var unitSpaceRe = regexp.MustCompile(`\s+`)

// NormalizeUnit returns the canonical spelling for a raw unit string, or
// the trimmed input when no alias is known.
func NormalizeUnit(raw string) string {
	cleaned := strings.ToLower(unitSpaceRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	if canonical, ok := unitAliases[cleaned]; ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// ConvertValue converts value between units. The second return is false
// when no conversion is known; callers keep the original value and unit
// in that case rather than guessing.
func ConvertValue(value float64, fromUnit, toUnit string) (float64, bool) {
	f := NormalizeUnit(fromUnit)
	t := NormalizeUnit(toUnit)
	if f == t {
		return value, true
	}
	factor, ok := conversionFactors[unitPair{f, t}]
	if !ok {
		return 0, false
	}
	return value * factor, true
}
