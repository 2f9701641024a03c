package score

import "math"

// CorrectedCalcium adjusts a measured total calcium (mmol/L) for the
// patient's serum albumin (g/L): corrected = measured + 0.02*(40 -
// albumin), rounded to two decimals. Bands: >2.65 high, <2.10 low,
// otherwise normal.
func CorrectedCalcium(measured, albumin *float64) (Result, error) {
	if measured == nil || albumin == nil {
		return Result{}, ErrInsufficientInput
	}
	corrected := math.Round((*measured+0.02*(40-*albumin))*100) / 100

	var band Band
	switch {
	case corrected > 2.65:
		band = BandHigh
	case corrected < 2.10:
		band = BandLow
	default:
		band = BandNormal
	}
	return Result{
		Name:  "corrected_calcium",
		Total: corrected,
		Band:  band,
		Components: map[string]float64{
			"measured_calcium": *measured,
			"albumin":          *albumin,
		},
	}, nil
}
