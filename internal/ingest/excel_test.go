package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "spend.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadExcelFile(t *testing.T) {
	t.Run("reads spend rows from the data sheet", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]string{
			"Spend": {
				{"Date", "Campaign", "Spend", "Sales"},
				{"2025-01-01", "brand", "100", "2000"},
				{"2025-01-02", "brand", "150", ""},
				{"", "", "", ""},
			},
		})

		days, err := ReadExcelFile(path)
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, "brand", days[0].Campaign)
		assert.Equal(t, 100.0, days[0].Spend)
		assert.True(t, days[0].HasSales)
		assert.False(t, days[1].HasSales)
	})

	t.Run("skips title rows above the header", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]string{
			"Export": {
				{"Media Spend Export"},
				{},
				{"Date", "Campaign", "Spend"},
				{"2025-01-01", "search", "75"},
			},
		})

		days, err := ReadExcelFile(path)
		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, "search", days[0].Campaign)
	})

	t.Run("no recognizable sheet", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]string{
			"Notes": {{"just", "some", "text"}},
		})

		_, err := ReadExcelFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not find a sheet")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadExcelFile(filepath.Join(t.TempDir(), "absent.xlsx"))
		require.Error(t, err)
	})
}
