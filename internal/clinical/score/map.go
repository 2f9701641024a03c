package score

import "math"

// MeanArterialPressure computes round((2*diastolic + systolic) / 3),
// rounding half up. A mean below 65 bands low (vasopressor
// consideration); otherwise normal.
func MeanArterialPressure(systolic, diastolic *float64) (Result, error) {
	if systolic == nil || diastolic == nil {
		return Result{}, ErrInsufficientInput
	}
	mean := math.Floor((2**diastolic+*systolic)/3 + 0.5)
	band := BandNormal
	if mean < 65 {
		band = BandLow
	}
	return Result{
		Name:  "mean_arterial_pressure",
		Total: mean,
		Band:  band,
		Components: map[string]float64{
			"systolic":  *systolic,
			"diastolic": *diastolic,
		},
	}, nil
}
