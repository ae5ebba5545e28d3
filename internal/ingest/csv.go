package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	apierrors "mrcli/internal/errors"
	"mrcli/internal/responsecurve"
)

// Column header names recognized in input files (case-insensitive)
const (
	ColumnDate     = "date"
	ColumnCampaign = "campaign"
	ColumnSpend    = "spend"
	ColumnSales    = "sales"
)

// ReadCSV reads media spend rows from CSV data.
// Expected columns: Date, Campaign, Spend and optionally Sales, matched
// by header name in any order. Headers are case-insensitive.
func ReadCSV(r io.Reader) ([]responsecurve.SpendDay, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV input")
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("CSV input contains only a header")
	}

	var days []responsecurve.SpendDay
	for i := 1; i < len(records); i++ {
		day, err := parseSpendRecord(records[i], columns, i+1)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// ReadCSVFile reads media spend rows from a CSV file on disk
func ReadCSVFile(path string) ([]responsecurve.SpendDay, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewParsingError("open CSV file", err)
	}
	defer file.Close()

	days, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return days, nil
}

// columnMap holds the resolved index of each recognized column.
// Sales is optional; -1 means absent.
type columnMap struct {
	date     int
	campaign int
	spend    int
	sales    int
}

// mapColumns resolves header positions by name so column order in the
// input does not matter
func mapColumns(header []string) (columnMap, error) {
	columns := columnMap{date: -1, campaign: -1, spend: -1, sales: -1}

	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(stripBOM(cell))) {
		case ColumnDate:
			columns.date = i
		case ColumnCampaign:
			columns.campaign = i
		case ColumnSpend:
			columns.spend = i
		case ColumnSales:
			columns.sales = i
		}
	}

	switch {
	case columns.date == -1:
		return columnMap{}, &responsecurve.ValidationError{Field: ColumnDate, Message: "missing required column"}
	case columns.campaign == -1:
		return columnMap{}, &responsecurve.ValidationError{Field: ColumnCampaign, Message: "missing required column"}
	case columns.spend == -1:
		return columnMap{}, &responsecurve.ValidationError{Field: ColumnSpend, Message: "missing required column"}
	}
	return columns, nil
}

// parseSpendRecord parses one data row into a SpendDay
func parseSpendRecord(record []string, columns columnMap, lineNum int) (responsecurve.SpendDay, error) {
	cell := func(idx int) string {
		if idx >= 0 && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	date, err := parseDate(cell(columns.date))
	if err != nil {
		return responsecurve.SpendDay{}, &responsecurve.ValidationError{
			Field:   ColumnDate,
			Message: fmt.Sprintf("unparseable date (line %d)", lineNum),
			Value:   cell(columns.date),
		}
	}

	campaign := cell(columns.campaign)
	if campaign == "" {
		return responsecurve.SpendDay{}, &responsecurve.ValidationError{
			Field:   ColumnCampaign,
			Message: fmt.Sprintf("empty campaign (line %d)", lineNum),
		}
	}

	spend, err := parseFloat(cell(columns.spend), "spend", lineNum)
	if err != nil {
		return responsecurve.SpendDay{}, err
	}

	day := responsecurve.SpendDay{
		Date:     date,
		Campaign: campaign,
		Spend:    spend,
	}

	if columns.sales >= 0 && cell(columns.sales) != "" {
		sales, err := parseFloat(cell(columns.sales), "sales", lineNum)
		if err != nil {
			return responsecurve.SpendDay{}, err
		}
		day.Sales = sales
		day.HasSales = true
	}

	return day, nil
}

// parseDate attempts to parse date strings in multiple formats
func parseDate(dateStr string) (time.Time, error) {
	dateFormats := []string{
		"2006-01-02",          // ISO format
		"01/02/2006",          // US format
		"02/01/2006",          // European format
		"2006/01/02",          // Alternative ISO
		"2006-01-02 15:04:05", // With time
		"01-02-2006",          // US with dashes
	}

	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// parseFloat safely parses a float64 value from string, tolerating
// thousands separators
func parseFloat(str, fieldName string, lineNum int) (float64, error) {
	str = strings.ReplaceAll(strings.TrimSpace(str), ",", "")
	if str == "" {
		return 0, &responsecurve.ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("empty %s (line %d)", fieldName, lineNum),
		}
	}

	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, &responsecurve.ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unparseable %s (line %d)", fieldName, lineNum),
			Value:   str,
		}
	}
	return value, nil
}

// stripBOM removes a UTF-8 byte order mark from the first header cell
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
