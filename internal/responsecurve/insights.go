package responsecurve

import (
	"fmt"
	"time"
)

// SpendAction is an actionable spend recommendation for a campaign
type SpendAction string

const (
	ActionIncreaseSpend   SpendAction = "INCREASE_SPEND"
	ActionMaintainSpend   SpendAction = "MAINTAIN_SPEND"
	ActionSpendCautiously SpendAction = "SPEND_CAUTIOUSLY"
	ActionReduceSpend     SpendAction = "REDUCE_SPEND"
	ActionStopSpend       SpendAction = "STOP_SPEND"
	ActionInconclusive    SpendAction = "INCONCLUSIVE"
)

// Average-elasticity bands for spend recommendations
const (
	IncreaseSpendThreshold = 1.0
	MaintainSpendThreshold = 0.8
	CautiousSpendThreshold = 0.5
	ReduceSpendThreshold   = 0.1
)

// CampaignInsight summarizes a computed curve into an actionable
// recommendation based on the campaign's average elasticity.
type CampaignInsight struct {
	Campaign      string      `json:"campaign"`
	AvgElasticity float64     `json:"avg_elasticity"`
	HasElasticity bool        `json:"has_elasticity"`
	PeakResponse  float64     `json:"peak_response"`
	TotalSpend    float64     `json:"total_spend"`
	Action        SpendAction `json:"action"`
	Rationale     string      `json:"rationale"`
}

// BuildInsight derives the spend recommendation for one campaign curve
func BuildInsight(campaign string, days []SpendDay, response []float64, elasticity []ElasticityPoint) CampaignInsight {
	insight := CampaignInsight{Campaign: campaign}

	for _, sd := range days {
		insight.TotalSpend += sd.Spend
	}
	for _, r := range response {
		if r > insight.PeakResponse {
			insight.PeakResponse = r
		}
	}

	avg, ok := AverageElasticity(elasticity)
	insight.AvgElasticity = avg
	insight.HasElasticity = ok

	insight.Action, insight.Rationale = recommendAction(avg, ok)
	return insight
}

// recommendAction maps average elasticity to a spend recommendation
func recommendAction(avgElasticity float64, defined bool) (SpendAction, string) {
	if !defined {
		return ActionInconclusive, "No defined elasticity points; series too short or flat to assess efficiency"
	}

	switch {
	case avgElasticity > IncreaseSpendThreshold:
		return ActionIncreaseSpend, fmt.Sprintf("High elasticity (%.2f): response grows faster than spend, consider increasing media spend", avgElasticity)
	case avgElasticity > MaintainSpendThreshold:
		return ActionMaintainSpend, fmt.Sprintf("Good elasticity (%.2f): maintain or slightly increase spend", avgElasticity)
	case avgElasticity > CautiousSpendThreshold:
		return ActionSpendCautiously, fmt.Sprintf("Moderate elasticity (%.2f): spend cautiously and test optimizations", avgElasticity)
	case avgElasticity > ReduceSpendThreshold:
		return ActionReduceSpend, fmt.Sprintf("Low elasticity (%.2f): response is inefficient, consider reducing spend", avgElasticity)
	default:
		return ActionStopSpend, fmt.Sprintf("Saturation zone (%.2f): stop or reallocate budget", avgElasticity)
	}
}

// PortfolioInsights aggregates per-campaign insights across one run
type PortfolioInsights struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	TotalCampaigns  int               `json:"total_campaigns"`
	MostElastic     string            `json:"most_elastic,omitempty"`
	LeastElastic    string            `json:"least_elastic,omitempty"`
	AvgPeakResponse float64           `json:"avg_peak_response"`
	Campaigns       []CampaignInsight `json:"campaigns"`
}

// BuildPortfolioInsights summarizes all campaign curves from a run
func BuildPortfolioInsights(curves []*CampaignCurve) PortfolioInsights {
	insights := PortfolioInsights{
		GeneratedAt:    time.Now(),
		TotalCampaigns: len(curves),
	}

	var totalPeak float64
	var bestAvg, worstAvg float64
	for _, curve := range curves {
		ci := curve.Insight
		insights.Campaigns = append(insights.Campaigns, ci)
		totalPeak += ci.PeakResponse

		if !ci.HasElasticity {
			continue
		}
		if insights.MostElastic == "" || ci.AvgElasticity > bestAvg {
			insights.MostElastic = ci.Campaign
			bestAvg = ci.AvgElasticity
		}
		if insights.LeastElastic == "" || ci.AvgElasticity < worstAvg {
			insights.LeastElastic = ci.Campaign
			worstAvg = ci.AvgElasticity
		}
	}

	if len(curves) > 0 {
		insights.AvgPeakResponse = totalPeak / float64(len(curves))
	}
	return insights
}
