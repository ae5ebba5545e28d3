package responsecurve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency bounds how many campaigns ComputeAll processes
// at once. Campaigns share no state, so the bound only limits memory.
const DefaultMaxConcurrency = 4

// Calculator orchestrates the response curve pipeline: adstock decay,
// Hill saturation, elasticity, landmark detection, and insights.
// Parameters are fixed at construction; identical inputs always yield
// identical outputs.
type Calculator struct {
	params           ModelParams
	saturationTarget float64
	maxConcurrency   int
	logger           *slog.Logger
}

// NewCalculator creates a calculator with the given model parameters.
// It fails with a ParameterError when any parameter is non-positive.
func NewCalculator(params ModelParams, logger *slog.Logger) (*Calculator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Calculator{
		params:           params,
		saturationTarget: DefaultSaturationTarget,
		maxConcurrency:   DefaultMaxConcurrency,
		logger:           logger,
	}, nil
}

// Params returns the model parameters the calculator was built with
func (c *Calculator) Params() ModelParams {
	return c.params
}

// SetSaturationTarget overrides the response fraction defining landmark D
func (c *Calculator) SetSaturationTarget(target float64) error {
	if target <= 0 || target >= 1 {
		return &ParameterError{Param: "saturation_target", Value: target, Message: "must be strictly between 0 and 1"}
	}
	c.saturationTarget = target
	return nil
}

// SetMaxConcurrency bounds parallel campaign processing in ComputeAll
func (c *Calculator) SetMaxConcurrency(n int) {
	if n > 0 {
		c.maxConcurrency = n
	}
}

// Compute runs the full pipeline for a single campaign. The input series
// is validated and sorted first; the stages then run as one sequential
// pass with no shared mutable state.
func (c *Calculator) Compute(ctx context.Context, campaign string, days []SpendDay) (*CampaignCurve, error) {
	start := time.Now()

	sorted, err := NormalizeSeries(campaign, days)
	if err != nil {
		c.logger.ErrorContext(ctx, "series validation failed",
			"campaign", campaign,
			"error", err,
		)
		return nil, fmt.Errorf("validate series: %w", err)
	}

	adstocked, err := AdstockSeries(SpendValues(sorted), c.params.HalfLife)
	if err != nil {
		return nil, fmt.Errorf("adstock series: %w", err)
	}

	response, err := ResponseSeries(adstocked, c.params)
	if err != nil {
		return nil, fmt.Errorf("response series: %w", err)
	}

	elasticity := ElasticitySeries(adstocked, response)
	slope := SlopeSeries(adstocked, response)

	landmarks, err := DetectLandmarks(adstocked, response, elasticity, c.params, c.saturationTarget)
	if err != nil {
		return nil, fmt.Errorf("detect landmarks: %w", err)
	}

	curve := &CampaignCurve{
		Campaign:   campaign,
		Days:       sorted,
		Adstocked:  adstocked,
		Response:   response,
		Slope:      slope,
		Elasticity: elasticity,
		Landmarks:  landmarks,
	}
	curve.Insight = BuildInsight(campaign, sorted, response, elasticity)

	c.logger.DebugContext(ctx, "campaign curve computed",
		"campaign", campaign,
		"data_points", len(sorted),
		"inflection", curve.Landmarks.Inflection.Status.String(),
		"diminishing_return", curve.Landmarks.DiminishingReturn.Status.String(),
		"duration", time.Since(start),
	)

	return curve, nil
}

// ComputeAll groups mixed spend rows by campaign and computes every
// campaign's curve. Campaigns are independent, so they run in parallel
// under a bounded errgroup; results come back sorted by campaign name
// for deterministic output. A validation failure in any campaign fails
// the whole run, per the fail-fast error policy.
func (c *Calculator) ComputeAll(ctx context.Context, days []SpendDay) ([]*CampaignCurve, error) {
	start := time.Now()

	grouped, err := GroupByCampaign(days)
	if err != nil {
		return nil, fmt.Errorf("group by campaign: %w", err)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	c.logger.InfoContext(ctx, "computing response curves",
		"campaigns", len(names),
		"rows", len(days),
	)

	curves := make([]*CampaignCurve, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrency)

	for i, name := range names {
		g.Go(func() error {
			curve, err := c.Compute(gctx, name, grouped[name])
			if err != nil {
				return fmt.Errorf("campaign %s: %w", name, err)
			}
			curves[i] = curve
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "response curves computed",
		"campaigns", len(curves),
		"duration", time.Since(start),
	)

	return curves, nil
}
