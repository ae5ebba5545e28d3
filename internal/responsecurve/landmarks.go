package responsecurve

import "math"

// InflectionPoint locates landmark A: the adstocked spend where the Hill
// curve transitions from convex to concave. For hillPower p > 1 the
// closed form is
//
//	x_A = k * ((p-1)/(p+1))^(1/p)
//
// For p <= 1 the curve is concave everywhere and has no inflection; the
// landmark is reported not-applicable, never a spurious coordinate.
func InflectionPoint(params ModelParams) (Landmark, error) {
	if err := params.Validate(); err != nil {
		return Landmark{}, err
	}

	p := params.HillPower
	if p <= 1 {
		return Landmark{Status: LandmarkNotApplicable}, nil
	}

	x := params.Penetration * math.Pow((p-1)/(p+1), 1/p)
	y := params.Effectiveness * Saturation(x, params.Penetration, p)
	return Landmark{Status: LandmarkFound, X: x, Y: y}, nil
}

// SaturationPoint locates landmark D: the adstocked spend where response
// reaches the target fraction of effectiveness. The Hill function is
// invertible, so the solution is closed-form:
//
//	x_D = k * (target/(1-target))^(1/p)
//
// target must lie strictly inside (0,1); the curve only reaches its
// ceiling asymptotically.
func SaturationPoint(params ModelParams, target float64) (Landmark, error) {
	if err := params.Validate(); err != nil {
		return Landmark{}, err
	}
	if target <= 0 || target >= 1 {
		return Landmark{}, &ParameterError{Param: "saturation_target", Value: target, Message: "must be strictly between 0 and 1"}
	}

	x := params.Penetration * math.Pow(target/(1-target), 1/params.HillPower)
	y := params.Effectiveness * target
	return Landmark{Status: LandmarkFound, X: x, Y: y}, nil
}

// DiminishingReturnPoint locates landmark C: the first observed point,
// scanning by ascending adstocked spend, where elasticity drops below
// DiminishingThreshold. Elasticity from discrete data has no closed
// form, so the crossing is found on the observed grid; ties resolve to
// the smallest x. When every defined point stays at or above the
// threshold, or no point is defined at all, the landmark lies beyond
// the observed spend range.
//
// The elasticity series is anchored at the left point of each interval,
// so the landmark coordinate is (adstocked[t], response[t]) for the
// first qualifying index t.
func DiminishingReturnPoint(adstocked, response []float64, elasticity []ElasticityPoint) Landmark {
	for t, e := range elasticity {
		if !e.Defined {
			continue
		}
		if e.Value < DiminishingThreshold {
			return Landmark{Status: LandmarkFound, X: adstocked[t], Y: response[t]}
		}
	}
	return Landmark{Status: LandmarkBeyondRange}
}

// DetectLandmarks computes all three curve-shape markers for the given
// series and parameters.
func DetectLandmarks(adstocked, response []float64, elasticity []ElasticityPoint, params ModelParams, saturationTarget float64) (Landmarks, error) {
	inflection, err := InflectionPoint(params)
	if err != nil {
		return Landmarks{}, err
	}

	saturation, err := SaturationPoint(params, saturationTarget)
	if err != nil {
		return Landmarks{}, err
	}

	return Landmarks{
		Inflection:        inflection,
		DiminishingReturn: DiminishingReturnPoint(adstocked, response, elasticity),
		Saturation:        saturation,
	}, nil
}
