package exporter

import (
	"fmt"
	"math"

	"mrcli/internal/responsecurve"
)

// Curve CSV column headers
var curveHeaders = []string{
	"Date",
	"Campaign",
	"Spend",
	"Adstocked_Spend",
	"Response",
	"Marginal_Response",
	"Elasticity",
	"Elasticity_Zone",
}

// WriteCurves writes the full per-day series of every campaign curve to
// a single CSV file. Rows are ordered campaign by campaign, dates
// ascending; the slope and elasticity columns are blank on each
// campaign's last day because the forward difference has no interval
// there.
func (w *CSVWriter) WriteCurves(filePath string, curves []*responsecurve.CampaignCurve) error {
	if len(curves) == 0 {
		return fmt.Errorf("no curves to write")
	}

	var records [][]string
	for _, curve := range curves {
		for i, day := range curve.Days {
			record := []string{
				day.Date.Format("2006-01-02"),
				curve.Campaign,
				formatFloat(day.Spend, 2),
				formatFloat(curve.Adstocked[i], 4),
				formatFloat(curve.Response[i], 4),
				"", // marginal response
				"", // elasticity
				"", // zone
			}

			if i < len(curve.Elasticity) {
				if s := curve.Slope[i]; !math.IsNaN(s) {
					record[5] = formatFloat(s, 6)
				}
				if e := curve.Elasticity[i]; e.Defined {
					record[6] = formatFloat(e.Value, 4)
					record[7] = string(e.Zone)
				} else {
					record[7] = string(responsecurve.ZoneUndefined)
				}
			}

			records = append(records, record)
		}
	}

	return w.WriteSimpleCSV(filePath, curveHeaders, records)
}

// Summary CSV column headers
var summaryHeaders = []string{
	"Campaign",
	"Data_Points",
	"Total_Spend",
	"Peak_Response",
	"Avg_Elasticity",
	"Inflection",
	"Inflection_X",
	"Diminishing_Return",
	"Diminishing_Return_X",
	"Saturation",
	"Saturation_X",
	"Action",
	"Rationale",
}

// WriteSummary writes a one-row-per-campaign report of landmarks and
// spend recommendations. Landmark coordinate cells are blank unless the
// landmark was found.
func (w *CSVWriter) WriteSummary(filePath string, curves []*responsecurve.CampaignCurve) error {
	if len(curves) == 0 {
		return fmt.Errorf("no curves to write")
	}

	var records [][]string
	for _, curve := range curves {
		insight := curve.Insight

		avgElasticity := ""
		if insight.HasElasticity {
			avgElasticity = formatFloat(insight.AvgElasticity, 4)
		}

		record := []string{
			curve.Campaign,
			fmt.Sprintf("%d", len(curve.Days)),
			formatFloat(insight.TotalSpend, 2),
			formatFloat(insight.PeakResponse, 4),
			avgElasticity,
		}
		record = append(record, landmarkCells(curve.Landmarks.Inflection)...)
		record = append(record, landmarkCells(curve.Landmarks.DiminishingReturn)...)
		record = append(record, landmarkCells(curve.Landmarks.Saturation)...)
		record = append(record, string(insight.Action), insight.Rationale)

		records = append(records, record)
	}

	return w.WriteSimpleCSV(filePath, summaryHeaders, records)
}

// landmarkCells renders a landmark as its status plus an optional
// coordinate cell
func landmarkCells(lm responsecurve.Landmark) []string {
	if !lm.Found() {
		return []string{lm.Status.String(), ""}
	}
	return []string{lm.Status.String(), formatFloat(lm.X, 4)}
}
