package responsecurve

import "math"

// SlopeSeries computes the discrete marginal response dY/dX using forward
// differences anchored at the left point of each interval:
//
//	Slope[t] = (Y[t+1] - Y[t]) / (X[t+1] - X[t]),  t in [0, n-2]
//
// The returned series has length len(response)-1. Intervals with zero
// adstocked delta carry NaN; callers that need explicit absence should
// use ElasticitySeries, which tags undefined points.
func SlopeSeries(adstocked, response []float64) []float64 {
	if len(adstocked) < 2 {
		return nil
	}

	slope := make([]float64, len(adstocked)-1)
	for t := 0; t < len(adstocked)-1; t++ {
		dx := adstocked[t+1] - adstocked[t]
		if dx == 0 {
			slope[t] = math.NaN()
			continue
		}
		slope[t] = (response[t+1] - response[t]) / dx
	}
	return slope
}

// ElasticitySeries computes point-wise elasticity of response with
// respect to adstocked spend, using the same forward difference as
// SlopeSeries:
//
//	E[t] = Slope[t] * (X[t] / Y[t]),  t in [0, n-2]
//
// A point is undefined, not an error, when the spend delta is zero, the
// response at the anchor is zero, or the response is flat across the
// interval (a flat segment carries no elasticity information).
func ElasticitySeries(adstocked, response []float64) []ElasticityPoint {
	if len(adstocked) < 2 {
		return nil
	}

	points := make([]ElasticityPoint, len(adstocked)-1)
	for t := 0; t < len(adstocked)-1; t++ {
		dx := adstocked[t+1] - adstocked[t]
		dy := response[t+1] - response[t]

		if dx == 0 || dy == 0 || response[t] == 0 {
			points[t] = ElasticityPoint{Defined: false, Zone: ZoneUndefined}
			continue
		}

		e := (dy / dx) * (adstocked[t] / response[t])
		points[t] = ElasticityPoint{Value: e, Defined: true, Zone: ClassifyElasticity(e)}
	}
	return points
}

// ClassifyElasticity maps an elasticity value to its efficiency zone
func ClassifyElasticity(e float64) ElasticityZone {
	switch {
	case math.Abs(e) < SaturatedEpsilon:
		return ZoneSaturated
	case math.Abs(e-1) <= ProportionalTolerance:
		return ZoneProportional
	case e > 1:
		return ZoneHighEfficiency
	case e >= 0.5:
		return ZoneDiminishing
	default:
		return ZonePoorROI
	}
}

// AverageElasticity returns the mean of the defined elasticity points.
// The second return is false when no point is defined.
func AverageElasticity(points []ElasticityPoint) (float64, bool) {
	sum := 0.0
	count := 0
	for _, p := range points {
		if p.Defined {
			sum += p.Value
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
