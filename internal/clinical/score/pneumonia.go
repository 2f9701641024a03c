package score

// PneumoniaInput holds the five binary severity criteria: new confusion,
// urea above threshold, respiratory rate >= 30, hypotension (systolic
// < 90 or diastolic <= 60), and age >= 65. The caller evaluates the raw
// measurements; the calculator only counts.
type PneumoniaInput struct {
	Confusion    *bool `json:"confusion"`
	UreaElevated *bool `json:"urea_elevated"`
	RespRateHigh *bool `json:"resp_rate_high"`
	Hypotension  *bool `json:"hypotension"`
	AgeOver65    *bool `json:"age_over_65"`
}

// mortalityByTotal maps the criteria count to the associated 30-day
// mortality estimate in percent. Totals beyond the table map to the top
// bucket.
var mortalityByTotal = [6]float64{0.6, 2.7, 6.8, 14, 27, 57}

// PneumoniaSeverity counts the true criteria (0-5). Bands: >=3 severe
// (consider escalation of care), ==2 moderate, <=1 low.
func PneumoniaSeverity(in PneumoniaInput) (Result, error) {
	criteria := map[string]*bool{
		"confusion":      in.Confusion,
		"urea_elevated":  in.UreaElevated,
		"resp_rate_high": in.RespRateHigh,
		"hypotension":    in.Hypotension,
		"age_over_65":    in.AgeOver65,
	}

	components := make(map[string]float64, len(criteria)+1)
	total := 0
	for name, c := range criteria {
		if c == nil {
			return Result{}, ErrInsufficientInput
		}
		components[name] = 0
		if *c {
			components[name] = 1
			total++
		}
	}

	mortality := mortalityByTotal[len(mortalityByTotal)-1]
	if total < len(mortalityByTotal) {
		mortality = mortalityByTotal[total]
	}
	components["mortality_pct"] = mortality

	var band Band
	switch {
	case total >= 3:
		band = BandSevere
	case total == 2:
		band = BandModerate
	default:
		band = BandLow
	}
	return Result{
		Name:       "pneumonia_severity",
		Total:      float64(total),
		Band:       band,
		Components: components,
	}, nil
}
