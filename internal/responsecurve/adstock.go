package responsecurve

import "math"

// DecayFactor computes the per-period carryover factor for the given
// half-life: lambda = 0.5^(1/halfLife). The factor is strictly inside
// (0,1) for any positive half-life.
func DecayFactor(halfLife float64) (float64, error) {
	if halfLife <= 0 {
		return 0, &ParameterError{Param: "half_life", Value: halfLife, Message: "must be positive"}
	}
	return math.Pow(0.5, 1/halfLife), nil
}

// AdstockSeries applies exponential carry-over decay to the spend series:
//
//	Adstock[0] = Spend[0]
//	Adstock[t] = Spend[t] + lambda * Adstock[t-1]
//
// The recurrence is a strictly sequential left-to-right scan; each value
// depends on exactly one predecessor, so the accumulation order is fixed
// and the result deterministic.
func AdstockSeries(spend []float64, halfLife float64) ([]float64, error) {
	decay, err := DecayFactor(halfLife)
	if err != nil {
		return nil, err
	}

	adstocked := make([]float64, len(spend))
	carryover := 0.0
	for i, s := range spend {
		current := s + decay*carryover
		adstocked[i] = current
		carryover = current
	}
	return adstocked, nil
}
