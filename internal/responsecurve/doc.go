// Package responsecurve implements the media response curve model:
// how marketing spend translates into modeled response through adstock
// carry-over and Hill saturation.
//
// # Core Components
//
// The pipeline runs four transformations over a campaign's daily spend:
//
//  1. Adstock: exponential carry-over decay parameterized by half-life
//  2. Saturation: Hill-function diminishing returns bounded by an
//     effectiveness ceiling
//  3. Elasticity: discrete point-wise sensitivity of response to spend,
//     labeled into efficiency zones
//  4. Landmarks: inflection (A), diminishing return (C), and saturation
//     (D) points on the response-vs-adstocked-spend curve
//
// # Architecture
//
//   - types.go: data structures, thresholds, and error types
//   - adstock.go: decay factor and carry-over recurrence
//   - saturation.go: Hill transform and response series
//   - elasticity.go: slope and elasticity series with zone labels
//   - landmarks.go: closed-form and grid-scan landmark detection
//   - calculator.go: per-campaign and multi-campaign orchestration
//   - insights.go: spend recommendations from average elasticity
//   - validate.go: series validation, sorting, and campaign grouping
//
// # Usage Example
//
//	calc, err := responsecurve.NewCalculator(responsecurve.ModelParams{
//	    HalfLife:      7,
//	    Penetration:   2000,
//	    Effectiveness: 500,
//	    HillPower:     0.5,
//	}, slog.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	curves, err := calc.ComputeAll(ctx, days)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, curve := range curves {
//	    fmt.Println(curve.Campaign, curve.Insight.Action)
//	}
//
// # Error Policy
//
// Malformed input (missing columns, unparseable dates, negative spend)
// surfaces as ValidationError, and non-positive model parameters as
// ParameterError; the pipeline fails fast and never guesses a default.
// Computational edge cases are values, not errors: elasticity points
// that cannot be computed are tagged undefined, and absent landmarks
// carry an explicit not-applicable or beyond-range status instead of a
// sentinel number.
//
// # Determinism
//
// Every stage is a pure function of its inputs. The adstock recurrence
// is a fixed-order left-to-right scan, so recomputation with identical
// inputs and parameters yields identical output bit for bit. Campaigns
// share no state and may be processed in parallel.
package responsecurve
