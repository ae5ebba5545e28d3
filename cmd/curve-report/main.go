package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"mrcli/internal/responsecurve"
	"mrcli/internal/services"
)

func main() {
	defaults := responsecurve.DefaultParams()

	inputPath := flag.String("input", "", "spend data file (.csv or .xlsx)")
	outputDir := flag.String("out", "data/reports", "output directory for curve reports")
	halfLife := flag.Float64("half-life", defaults.HalfLife, "adstock half-life in days")
	penetration := flag.Float64("penetration", defaults.Penetration, "adstocked spend at half the response ceiling")
	effectiveness := flag.Float64("effectiveness", defaults.Effectiveness, "response ceiling per campaign")
	hillPower := flag.Float64("hill-power", defaults.HillPower, "Hill exponent controlling curve steepness")
	target := flag.Float64("target", responsecurve.DefaultSaturationTarget, "saturation landmark as a fraction of the response ceiling")
	flag.Parse()

	if *inputPath == "" {
		slog.Error("No input file specified",
			"hint", "Pass -input with a spend data CSV or Excel file")
		os.Exit(1)
	}

	if _, err := os.Stat(*inputPath); os.IsNotExist(err) {
		slog.Error("Input file not found", "path", *inputPath)
		os.Exit(1)
	}

	params := responsecurve.ModelParams{
		HalfLife:      *halfLife,
		Penetration:   *penetration,
		Effectiveness: *effectiveness,
		HillPower:     *hillPower,
	}
	if err := params.Validate(); err != nil {
		slog.Error("Invalid model parameters", "error", err)
		os.Exit(1)
	}
	if *target <= 0 || *target >= 1 {
		slog.Error("Saturation target must be strictly between 0 and 1", "target", *target)
		os.Exit(1)
	}

	service := services.NewCurveService(services.CurveServiceConfig{
		Defaults:         params,
		SaturationTarget: *target,
		ReportsDir:       *outputDir,
	}, slog.Default())

	slog.Info("Computing response curves",
		"input", *inputPath,
		"half_life", params.HalfLife,
		"penetration", params.Penetration,
		"effectiveness", params.Effectiveness,
		"hill_power", params.HillPower,
		"saturation_target", *target)

	ctx := context.Background()
	result, err := service.ComputeFromFile(ctx, *inputPath, params, *target)
	if err != nil {
		slog.Error("Failed to compute response curves", "error", err)
		os.Exit(1)
	}
	slog.Info("Computed response curves",
		"campaigns", len(result.Curves),
		"duration", result.Duration)

	baseName := fmt.Sprintf("curves_%s", time.Now().Format("20060102"))
	reports, err := service.WriteReports(ctx, result, baseName)
	if err != nil {
		slog.Error("Failed to write curve reports", "error", err)
		os.Exit(1)
	}

	slog.Info("Curve reports generated successfully",
		"curves", reports.Curves,
		"summary", reports.Summary,
		"insights", reports.Insights,
		"dir", *outputDir)

	printSummary(result)
}

func printSummary(result *services.CurveResult) {
	if len(result.Curves) == 0 {
		return
	}

	fmt.Println("\n=== CAMPAIGN RESPONSE SUMMARY ===")
	fmt.Println("Campaign             | Total Spend | Peak Response | Avg Elast | Action")
	fmt.Println("---------------------|-------------|---------------|-----------|------------------")

	for _, curve := range result.Curves {
		in := curve.Insight
		elast := "n/a"
		if in.HasElasticity {
			elast = fmt.Sprintf("%.3f", in.AvgElasticity)
		}
		fmt.Printf("%-20s | %11.0f | %13.1f | %9s | %s\n",
			in.Campaign, in.TotalSpend, in.PeakResponse, elast, in.Action)
	}

	fmt.Println("\n=== CURVE LANDMARKS (ADSTOCKED SPEND) ===")
	for _, curve := range result.Curves {
		fmt.Printf("%-20s | inflection %s | diminishing return %s | saturation %s\n",
			curve.Campaign,
			formatLandmark(curve.Landmarks.Inflection),
			formatLandmark(curve.Landmarks.DiminishingReturn),
			formatLandmark(curve.Landmarks.Saturation))
	}

	fmt.Println("\n=== INTERPRETATION ===")
	fmt.Println("Inflection:         Point where marginal returns start to decline")
	fmt.Println("Diminishing return: Elasticity drops below 1; spend grows faster than response")
	fmt.Println("Saturation:         Response reaches the configured fraction of its ceiling")

	insights := result.Insights
	if insights.MostElastic != "" {
		fmt.Printf("\nMost responsive campaign:  %s\n", insights.MostElastic)
	}
	if insights.LeastElastic != "" {
		fmt.Printf("Least responsive campaign: %s\n", insights.LeastElastic)
	}
}

func formatLandmark(l responsecurve.Landmark) string {
	if !l.Found() {
		return fmt.Sprintf("(%s)", l.Status)
	}
	return fmt.Sprintf("at %.0f", l.X)
}
