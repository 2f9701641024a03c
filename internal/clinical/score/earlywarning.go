package score

// EarlyWarningInput holds the seven physiological components of the
// early warning composite. Inspired air and consciousness are binary;
// the rest are scored 0-3 against fixed bands.
type EarlyWarningInput struct {
	RespRate       *float64 `json:"resp_rate"`
	SpO2           *float64 `json:"spo2"`
	OnOxygen       *bool    `json:"on_oxygen"`
	Systolic       *float64 `json:"systolic"`
	Pulse          *float64 `json:"pulse"`
	AlteredConsciousness *bool `json:"altered_consciousness"`
	Temperature    *float64 `json:"temperature"`
}

func scoreRespRate(v float64) float64 {
	switch {
	case v <= 8:
		return 3
	case v <= 11:
		return 2
	case v <= 20:
		return 0
	case v <= 24:
		return 1
	default:
		return 3
	}
}

func scoreSpO2(v float64) float64 {
	switch {
	case v >= 96:
		return 0
	case v >= 94:
		return 1
	case v >= 92:
		return 2
	default:
		return 3
	}
}

func scoreSystolic(v float64) float64 {
	switch {
	case v <= 90:
		return 3
	case v <= 100:
		return 2
	case v <= 110:
		return 1
	case v <= 219:
		return 0
	default:
		return 3
	}
}

func scorePulse(v float64) float64 {
	switch {
	case v <= 40:
		return 3
	case v <= 50:
		return 2
	case v <= 90:
		return 0
	case v <= 110:
		return 1
	case v <= 130:
		return 2
	default:
		return 3
	}
}

func scoreTemperature(v float64) float64 {
	switch {
	case v <= 35.0:
		return 2
	case v <= 36.0:
		return 1
	case v <= 38.0:
		return 0
	case v <= 39.0:
		return 1
	default:
		return 3
	}
}

// EarlyWarning scores each of the seven components independently and
// sums them (total range 0-20). Bands: >=7 high, >=5 medium, >=1 low,
// 0 baseline. Any missing component rejects the whole computation.
func EarlyWarning(in EarlyWarningInput) (Result, error) {
	if in.RespRate == nil || in.SpO2 == nil || in.OnOxygen == nil ||
		in.Systolic == nil || in.Pulse == nil ||
		in.AlteredConsciousness == nil || in.Temperature == nil {
		return Result{}, ErrInsufficientInput
	}

	components := map[string]float64{
		"resp_rate":     scoreRespRate(*in.RespRate),
		"spo2":          scoreSpO2(*in.SpO2),
		"inspired_air":  0,
		"systolic":      scoreSystolic(*in.Systolic),
		"pulse":         scorePulse(*in.Pulse),
		"consciousness": 0,
		"temperature":   scoreTemperature(*in.Temperature),
	}
	if *in.OnOxygen {
		components["inspired_air"] = 2
	}
	if *in.AlteredConsciousness {
		components["consciousness"] = 3
	}

	var total float64
	for _, v := range components {
		total += v
	}

	var band Band
	switch {
	case total >= 7:
		band = BandHigh
	case total >= 5:
		band = BandMedium
	case total >= 1:
		band = BandLow
	default:
		band = BandBaseline
	}
	return Result{
		Name:       "early_warning",
		Total:      total,
		Band:       band,
		Components: components,
	}, nil
}
