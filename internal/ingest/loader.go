// Package ingest loads media spend data from CSV and Excel files into
// the row format the response curve pipeline consumes. Files carry a
// header row naming the Date, Campaign, Spend and optional Sales
// columns in any order; dates are accepted in the common ISO, US and
// European formats.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"mrcli/internal/responsecurve"
)

// LoadSpendData reads spend rows from the given file, dispatching on
// the file extension. Supported formats: .csv, .xlsx, .xlsm.
func LoadSpendData(path string) ([]responsecurve.SpendDay, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx", ".xlsm":
		return ReadExcelFile(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (expected .csv, .xlsx or .xlsm)", filepath.Ext(path))
	}
}
