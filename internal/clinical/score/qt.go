package score

import "math"

// CorrectedQT rate-corrects a measured QT interval using the Bazett
// formula: QTc = QT / sqrt(60 / heartRate), rounded half up. A missing
// input or a heart rate of zero or below is insufficient input — the
// division is never attempted. Bands: >500 high, 450-500 borderline,
// otherwise normal.
func CorrectedQT(qtMs, heartRate *float64) (Result, error) {
	if qtMs == nil || heartRate == nil || *heartRate <= 0 {
		return Result{}, ErrInsufficientInput
	}
	qtc := math.Floor(*qtMs/math.Sqrt(60 / *heartRate) + 0.5)

	var band Band
	switch {
	case qtc > 500:
		band = BandHigh
	case qtc >= 450:
		band = BandBorderline
	default:
		band = BandNormal
	}
	return Result{
		Name:  "corrected_qt",
		Total: qtc,
		Band:  band,
		Components: map[string]float64{
			"qt_ms":      *qtMs,
			"heart_rate": *heartRate,
		},
	}, nil
}
