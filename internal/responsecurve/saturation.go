package responsecurve

import "math"

// Saturation evaluates the Hill saturation function at adstocked spend x:
//
//	S(x) = x^p / (x^p + k^p)
//
// computed in the equivalent form 1 / (1 + (k/x)^p) so that large x^p
// cannot overflow for steep exponents. S(0) = 0, S(k) = 0.5 exactly, and
// S approaches 1 asymptotically as x grows.
//
// Parameters must be validated by the caller; Saturation assumes
// penetration > 0 and hillPower > 0.
func Saturation(x, penetration, hillPower float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1 / (1 + math.Pow(penetration/x, hillPower))
}

// ResponseSeries maps an adstocked spend series through the Hill
// saturation curve and scales by effectiveness. The output is
// element-wise, same length and order as the input.
func ResponseSeries(adstocked []float64, params ModelParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	response := make([]float64, len(adstocked))
	for i, x := range adstocked {
		response[i] = params.Effectiveness * Saturation(x, params.Penetration, params.HillPower)
	}
	return response, nil
}
