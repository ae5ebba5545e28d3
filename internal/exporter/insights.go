package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apierrors "mrcli/internal/errors"
	"mrcli/internal/responsecurve"
)

// WriteInsightsJSON writes the aggregated portfolio insights as an
// indented JSON document, suitable for downstream dashboards.
func (w *CSVWriter) WriteInsightsJSON(filePath string, insights responsecurve.PortfolioInsights) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apierrors.NewStorageError("create reports directory", err)
	}

	data, err := json.MarshalIndent(insights, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	if err := os.WriteFile(fullPath, append(data, '\n'), 0644); err != nil {
		return apierrors.NewStorageError("write insights file", err)
	}
	return nil
}
