package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "mrcli/internal/errors"
	"mrcli/internal/responsecurve"
)

// ReadExcelFile reads media spend rows from an Excel workbook. The sheet
// holding the data is located by scanning the first rows of each sheet
// for the Date, Campaign and Spend headers, so exports with a cover
// sheet or renamed tabs still load.
func ReadExcelFile(path string) ([]responsecurve.SpendDay, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apierrors.NewParsingError("open Excel file", err)
	}
	defer f.Close()

	rows, headerRow, err := findSpendSheet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	columns, err := mapColumns(rows[headerRow])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var days []responsecurve.SpendDay
	for i := headerRow + 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		day, err := parseSpendRecord(rows[i], columns, i+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("%s: no spend rows found", path)
	}
	return days, nil
}

// findSpendSheet scans every sheet for a header row containing the
// required spend columns and returns that sheet's rows
func findSpendSheet(f *excelize.File) ([][]string, int, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}

		// Headers are expected near the top; tolerate a few title rows
		limit := len(rows)
		if limit > 10 {
			limit = 10
		}
		for i := 0; i < limit; i++ {
			if looksLikeHeader(rows[i]) {
				return rows, i, nil
			}
		}
	}
	return nil, 0, fmt.Errorf("could not find a sheet with Date, Campaign and Spend columns")
}

// looksLikeHeader reports whether a row carries all required column names
func looksLikeHeader(row []string) bool {
	found := map[string]bool{}
	for _, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case ColumnDate, ColumnCampaign, ColumnSpend:
			found[strings.ToLower(strings.TrimSpace(cell))] = true
		}
	}
	return found[ColumnDate] && found[ColumnCampaign] && found[ColumnSpend]
}

// isEmptyRow reports whether every cell in the row is blank
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
