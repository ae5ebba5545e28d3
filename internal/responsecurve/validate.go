package responsecurve

import (
	"sort"
	"time"
)

// NormalizeSeries validates one campaign's spend series and returns it
// sorted by date ascending. It fails with a ValidationError on an empty
// series, a duplicate date, negative spend, or negative sales; the input
// slice is not mutated.
func NormalizeSeries(campaign string, days []SpendDay) ([]SpendDay, error) {
	if len(days) == 0 {
		return nil, &ValidationError{Field: "series", Message: "empty spend series", Value: campaign}
	}

	sorted := make([]SpendDay, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var prev time.Time
	for i, sd := range sorted {
		if sd.Date.IsZero() {
			return nil, &ValidationError{Field: "date", Message: "missing date", Value: campaign}
		}
		if i > 0 && !sd.Date.After(prev) {
			return nil, &ValidationError{
				Field:   "date",
				Message: "dates must be strictly increasing within a campaign",
				Value:   sd.Date.Format("2006-01-02"),
			}
		}
		if sd.Spend < 0 {
			return nil, &ValidationError{Field: "spend", Message: "spend must be non-negative", Value: sd.Spend}
		}
		if sd.HasSales && sd.Sales < 0 {
			return nil, &ValidationError{Field: "sales", Message: "sales must be non-negative", Value: sd.Sales}
		}
		prev = sd.Date
	}

	return sorted, nil
}

// GroupByCampaign splits mixed spend rows into per-campaign series.
// Rows with an empty campaign name fail validation.
func GroupByCampaign(days []SpendDay) (map[string][]SpendDay, error) {
	if len(days) == 0 {
		return nil, &ValidationError{Field: "series", Message: "no spend rows provided"}
	}

	grouped := make(map[string][]SpendDay)
	for _, sd := range days {
		if sd.Campaign == "" {
			return nil, &ValidationError{
				Field:   "campaign",
				Message: "missing campaign name",
				Value:   sd.Date.Format("2006-01-02"),
			}
		}
		grouped[sd.Campaign] = append(grouped[sd.Campaign], sd)
	}
	return grouped, nil
}

// SpendValues extracts the raw spend column from a series
func SpendValues(days []SpendDay) []float64 {
	spend := make([]float64, len(days))
	for i, sd := range days {
		spend[i] = sd.Spend
	}
	return spend
}
