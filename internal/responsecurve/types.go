package responsecurve

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// SpendDay represents a single day's media spend for a campaign
type SpendDay struct {
	Date     time.Time `json:"date"`
	Campaign string    `json:"campaign"`
	Spend    float64   `json:"spend"`
	Sales    float64   `json:"sales,omitempty"`
	HasSales bool      `json:"has_sales,omitempty"` // Sales column is optional in the input
}

// IsValid checks if the spend day data is valid
func (sd SpendDay) IsValid() bool {
	return sd.Campaign != "" && !sd.Date.IsZero() && sd.Spend >= 0 &&
		(!sd.HasSales || sd.Sales >= 0)
}

// ModelParams contains the response model parameters.
// All parameters are caller-supplied and immutable for one computation.
type ModelParams struct {
	HalfLife      float64 `json:"half_life"`     // Days for carried-over spend effect to halve
	Penetration   float64 `json:"penetration"`   // Adstocked spend at which response reaches half its ceiling
	Effectiveness float64 `json:"effectiveness"` // Response ceiling (units)
	HillPower     float64 `json:"hill_power"`    // Hill exponent controlling curve steepness
}

// IsValid checks if all model parameters are strictly positive
func (mp ModelParams) IsValid() bool {
	return mp.HalfLife > 0 && mp.Penetration > 0 &&
		mp.Effectiveness > 0 && mp.HillPower > 0
}

// Validate returns a ParameterError describing the first invalid parameter, or nil
func (mp ModelParams) Validate() error {
	switch {
	case mp.HalfLife <= 0:
		return &ParameterError{Param: "half_life", Value: mp.HalfLife, Message: "must be positive"}
	case mp.Penetration <= 0:
		return &ParameterError{Param: "penetration", Value: mp.Penetration, Message: "must be positive"}
	case mp.Effectiveness <= 0:
		return &ParameterError{Param: "effectiveness", Value: mp.Effectiveness, Message: "must be positive"}
	case mp.HillPower <= 0:
		return &ParameterError{Param: "hill_power", Value: mp.HillPower, Message: "must be positive"}
	}
	return nil
}

// DefaultParams returns the recommended starting parameters
func DefaultParams() ModelParams {
	return ModelParams{
		HalfLife:      7.0,
		Penetration:   2000.0,
		Effectiveness: 500.0,
		HillPower:     0.5,
	}
}

// ElasticityZone labels an elasticity value by spend efficiency
type ElasticityZone string

const (
	// ZoneHighEfficiency marks elasticity above 1: response grows faster than spend
	ZoneHighEfficiency ElasticityZone = "high-efficiency"
	// ZoneProportional marks elasticity of exactly 1
	ZoneProportional ElasticityZone = "proportional"
	// ZoneDiminishing marks elasticity in [0.5, 1)
	ZoneDiminishing ElasticityZone = "diminishing"
	// ZonePoorROI marks elasticity below 0.5
	ZonePoorROI ElasticityZone = "poor-roi"
	// ZoneSaturated marks elasticity within SaturatedEpsilon of zero
	ZoneSaturated ElasticityZone = "saturated"
	// ZoneUndefined marks points where elasticity cannot be computed
	ZoneUndefined ElasticityZone = "undefined"
)

// ElasticityPoint is one point of the elasticity series.
// Defined is false where the discrete derivative does not exist
// (zero spend delta, flat response, or zero response); that is a valid
// domain outcome, not an error.
type ElasticityPoint struct {
	Value   float64        `json:"value"`
	Defined bool           `json:"defined"`
	Zone    ElasticityZone `json:"zone"`
}

// LandmarkStatus indicates whether a landmark exists on the observed curve
type LandmarkStatus int

const (
	// LandmarkFound means the landmark was located at (X, Y)
	LandmarkFound LandmarkStatus = iota
	// LandmarkNotApplicable means the curve shape does not exhibit the landmark
	LandmarkNotApplicable
	// LandmarkBeyondRange means the landmark lies outside the observed spend range
	LandmarkBeyondRange
)

// String returns the string representation of the landmark status
func (s LandmarkStatus) String() string {
	switch s {
	case LandmarkFound:
		return "found"
	case LandmarkNotApplicable:
		return "not-applicable"
	case LandmarkBeyondRange:
		return "beyond-range"
	default:
		return "unknown"
	}
}

// Landmark is a curve-shape marker on the (adstocked spend, response) plane.
// X and Y are meaningful only when Status is LandmarkFound; absence is an
// explicit status, never a sentinel coordinate.
type Landmark struct {
	Status LandmarkStatus
	X      float64
	Y      float64
}

// Found reports whether the landmark was located
func (l Landmark) Found() bool {
	return l.Status == LandmarkFound
}

// MarshalJSON emits coordinates only for located landmarks
func (l Landmark) MarshalJSON() ([]byte, error) {
	if l.Status != LandmarkFound {
		return json.Marshal(struct {
			Status string `json:"status"`
		}{Status: l.Status.String()})
	}
	return json.Marshal(struct {
		Status string  `json:"status"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}{Status: l.Status.String(), X: l.X, Y: l.Y})
}

// UnmarshalJSON restores a landmark from its wire form
func (l *Landmark) UnmarshalJSON(data []byte) error {
	var wire struct {
		Status string  `json:"status"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Status {
	case "found":
		l.Status = LandmarkFound
	case "not-applicable":
		l.Status = LandmarkNotApplicable
	case "beyond-range":
		l.Status = LandmarkBeyondRange
	default:
		return fmt.Errorf("unknown landmark status: %q", wire.Status)
	}
	l.X = wire.X
	l.Y = wire.Y
	return nil
}

// Landmarks groups the three curve-shape markers
type Landmarks struct {
	Inflection        Landmark `json:"inflection"`         // A: convex-to-concave transition
	DiminishingReturn Landmark `json:"diminishing_return"` // C: elasticity drops below 1
	Saturation        Landmark `json:"saturation"`         // D: response reaches the saturation target
}

// CampaignCurve contains the full computed pipeline output for one campaign
type CampaignCurve struct {
	Campaign string `json:"campaign"`

	// Validated input, sorted by date ascending
	Days []SpendDay `json:"days"`

	// Derived series, index-aligned with Days
	Adstocked []float64 `json:"adstocked"`
	Response  []float64 `json:"response"`

	// Forward-difference series anchored at the left point of each
	// interval; length is len(Days)-1. Slope carries NaN where the
	// adstocked delta is zero.
	Slope      []float64         `json:"slope"`
	Elasticity []ElasticityPoint `json:"elasticity"`

	Landmarks Landmarks       `json:"landmarks"`
	Insight   CampaignInsight `json:"insight"`
}

// MarshalJSON emits null for slope entries where the derivative does
// not exist; JSON has no NaN
func (c *CampaignCurve) MarshalJSON() ([]byte, error) {
	type alias CampaignCurve
	slope := make([]*float64, len(c.Slope))
	for i := range c.Slope {
		if !math.IsNaN(c.Slope[i]) {
			v := c.Slope[i]
			slope[i] = &v
		}
	}
	return json.Marshal(struct {
		*alias
		Slope []*float64 `json:"slope"`
	}{alias: (*alias)(c), Slope: slope})
}

// UnmarshalJSON restores a curve, mapping null slope entries back to NaN
func (c *CampaignCurve) UnmarshalJSON(data []byte) error {
	type alias CampaignCurve
	wire := struct {
		*alias
		Slope []*float64 `json:"slope"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	c.Slope = make([]float64, len(wire.Slope))
	for i, v := range wire.Slope {
		if v == nil {
			c.Slope[i] = math.NaN()
		} else {
			c.Slope[i] = *v
		}
	}
	return nil
}

// Constants for thresholds and defaults
const (
	// SaturatedEpsilon bounds the "effectively zero" elasticity band
	SaturatedEpsilon = 0.01

	// ProportionalTolerance bounds the "exactly proportional" band; the
	// discrete quotient rarely lands on 1.0 bit-for-bit
	ProportionalTolerance = 1e-9

	// DiminishingThreshold is the elasticity level below which marginal
	// response gain is considered diminishing (landmark C policy)
	DiminishingThreshold = 1.0

	// DefaultSaturationTarget is the response fraction defining landmark D
	DefaultSaturationTarget = 0.95
)

// ValidationError reports malformed or missing input data
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	if ve.Value != nil {
		return fmt.Sprintf("invalid %s: %s (got %v)", ve.Field, ve.Message, ve.Value)
	}
	return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Message)
}

// ParameterError reports a non-positive model parameter
type ParameterError struct {
	Param   string  `json:"param"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// Error implements the error interface
func (pe *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", pe.Param, pe.Value, pe.Message)
}
