package score

import "fmt"

// GlasgowComaInput holds the three sub-scores of the coma scale.
type GlasgowComaInput struct {
	Eye    *int `json:"eye"`    // 1-4
	Verbal *int `json:"verbal"` // 1-5
	Motor  *int `json:"motor"`  // 1-6
}

// GlasgowComa totals the three sub-scores (range 3-15). Bands: <=8
// severe, 9-12 moderate, 13-15 mild. A sub-score outside its valid range
// is rejected, never clamped.
func GlasgowComa(in GlasgowComaInput) (Result, error) {
	if in.Eye == nil || in.Verbal == nil || in.Motor == nil {
		return Result{}, ErrInsufficientInput
	}
	if *in.Eye < 1 || *in.Eye > 4 {
		return Result{}, fmt.Errorf("%w: eye sub-score %d outside 1-4", ErrInvalidInput, *in.Eye)
	}
	if *in.Verbal < 1 || *in.Verbal > 5 {
		return Result{}, fmt.Errorf("%w: verbal sub-score %d outside 1-5", ErrInvalidInput, *in.Verbal)
	}
	if *in.Motor < 1 || *in.Motor > 6 {
		return Result{}, fmt.Errorf("%w: motor sub-score %d outside 1-6", ErrInvalidInput, *in.Motor)
	}

	total := *in.Eye + *in.Verbal + *in.Motor
	var band Band
	switch {
	case total <= 8:
		band = BandSevere
	case total <= 12:
		band = BandModerate
	default:
		band = BandMild
	}
	return Result{
		Name:  "glasgow_coma_scale",
		Total: float64(total),
		Band:  band,
		Components: map[string]float64{
			"eye":    float64(*in.Eye),
			"verbal": float64(*in.Verbal),
			"motor":  float64(*in.Motor),
		},
	}, nil
}
