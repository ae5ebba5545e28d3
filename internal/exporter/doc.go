// Package exporter writes computed response curves and portfolio
// insights to disk.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers
// and UTF-8 BOM for Excel compatibility. Relative paths resolve against
// a configured reports directory.
//
// Curve reports: WriteCurves emits the full per-day series for every
// campaign, WriteSummary emits one row per campaign with landmarks and
// the spend recommendation, and WriteInsightsJSON emits the aggregated
// portfolio view.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("data/reports")
//
//	// Export the full per-day curve series
//	err := writer.WriteCurves("curves.csv", curves)
//
//	// Export the per-campaign summary
//	err = writer.WriteSummary("summary.csv", curves)
package exporter
