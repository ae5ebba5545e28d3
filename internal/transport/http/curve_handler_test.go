package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "mrcli/internal/errors"
	"mrcli/internal/services"
)

func newTestCurveHandler(t *testing.T) (*CurveHandler, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reportsDir := t.TempDir()
	svc := services.NewCurveService(services.CurveServiceConfig{ReportsDir: reportsDir}, logger)
	return NewCurveHandler(svc, logger, apierrors.NewErrorHandler(logger, false)), reportsDir
}

func mountCurveRoutes(h *CurveHandler) http.Handler {
	r := chi.NewRouter()
	r.Mount("/api/curves", h.Routes())
	return r
}

const computeBody = `{
	"days": [
		{"date": "2024-03-01", "campaign": "brand", "spend": 100},
		{"date": "2024-03-02", "campaign": "brand", "spend": 200},
		{"date": "2024-03-03", "campaign": "brand", "spend": 300},
		{"date": "2024-03-01", "campaign": "search", "spend": 50},
		{"date": "2024-03-02", "campaign": "search", "spend": 80},
		{"date": "2024-03-03", "campaign": "search", "spend": 120}
	]
}`

type computeWire struct {
	Curves []struct {
		Campaign  string     `json:"campaign"`
		Adstocked []float64  `json:"adstocked"`
		Response  []float64  `json:"response"`
		Slope     []*float64 `json:"slope"`
	} `json:"curves"`
	Insights struct {
		TotalCampaigns int `json:"total_campaigns"`
	} `json:"insights"`
	Reports *struct {
		Curves   string `json:"curves"`
		Summary  string `json:"summary"`
		Insights string `json:"insights"`
	} `json:"reports"`
}

func TestCurveHandlerCompute(t *testing.T) {
	h, _ := newTestCurveHandler(t)
	router := mountCurveRoutes(h)

	t.Run("computes curves for all campaigns", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(computeBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp computeWire
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Curves, 2)
		assert.Equal(t, "brand", resp.Curves[0].Campaign)
		assert.Equal(t, "search", resp.Curves[1].Campaign)
		assert.Len(t, resp.Curves[0].Response, 3)
		assert.Len(t, resp.Curves[0].Slope, 2)
		assert.Equal(t, 2, resp.Insights.TotalCampaigns)
		assert.Nil(t, resp.Reports)
	})

	t.Run("writes reports when a report name is given", func(t *testing.T) {
		h, reportsDir := newTestCurveHandler(t)
		router := mountCurveRoutes(h)

		body := strings.Replace(computeBody, `"days"`, `"report_name": "march", "days"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp computeWire
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Reports)
		assert.Equal(t, "march_curves.csv", resp.Reports.Curves)
		assert.FileExists(t, filepath.Join(reportsDir, "march_curves.csv"))
		assert.FileExists(t, filepath.Join(reportsDir, "march_summary.csv"))
		assert.FileExists(t, filepath.Join(reportsDir, "march_insights.json"))
	})

	t.Run("applies parameter overrides", func(t *testing.T) {
		body := strings.Replace(computeBody, `"days"`,
			`"params": {"effectiveness": 1000}, "days"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp computeWire
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Curves)
		// doubling the ceiling lifts the final response above what the
		// default effectiveness of 500 can produce
		last := resp.Curves[0].Response[len(resp.Curves[0].Response)-1]
		assert.Greater(t, last, 300.0)
		assert.Less(t, last, 1000.0)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "/errors/validation")
	})

	t.Run("rejects empty day list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(`{"days": []}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects invalid date", func(t *testing.T) {
		body := `{"days": [{"date": "03/01/2024", "campaign": "brand", "spend": 100}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-positive parameter override", func(t *testing.T) {
		body := strings.Replace(computeBody, `"days"`,
			`"params": {"half_life": -1}, "days"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "half_life")
	})

	t.Run("rejects saturation target of one or more", func(t *testing.T) {
		body := strings.Replace(computeBody, `"days"`, `"saturation_target": 1.0, "days"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCurveHandlerDefaults(t *testing.T) {
	h, _ := newTestCurveHandler(t)
	router := mountCurveRoutes(h)

	req := httptest.NewRequest(http.MethodGet, "/api/curves/defaults", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Params struct {
			HalfLife      float64 `json:"half_life"`
			Penetration   float64 `json:"penetration"`
			Effectiveness float64 `json:"effectiveness"`
			HillPower     float64 `json:"hill_power"`
		} `json:"params"`
		SaturationTarget float64 `json:"saturation_target"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7.0, resp.Params.HalfLife)
	assert.Equal(t, 2000.0, resp.Params.Penetration)
	assert.Equal(t, 500.0, resp.Params.Effectiveness)
	assert.Equal(t, 0.5, resp.Params.HillPower)
	assert.Equal(t, 0.95, resp.SaturationTarget)
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCurveHandlerUpload(t *testing.T) {
	h, _ := newTestCurveHandler(t)
	router := mountCurveRoutes(h)

	csvContent := "Date,Campaign,Spend\n" +
		"2024-03-01,brand,100\n" +
		"2024-03-02,brand,200\n" +
		"2024-03-03,brand,300\n"

	t.Run("computes curves from uploaded CSV", func(t *testing.T) {
		req := uploadRequest(t, "/api/curves/upload", "spend.csv", csvContent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp computeWire
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Curves, 1)
		assert.Equal(t, "brand", resp.Curves[0].Campaign)
		assert.Equal(t, 1, resp.Insights.TotalCampaigns)
	})

	t.Run("honours query parameter overrides", func(t *testing.T) {
		req := uploadRequest(t, "/api/curves/upload?half_life=3&saturation_target=0.9", "spend.csv", csvContent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("accepts macro-enabled workbooks", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		rows := [][]string{
			{"Date", "Campaign", "Spend"},
			{"2024-03-01", "brand", "100"},
			{"2024-03-02", "brand", "200"},
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		path := filepath.Join(t.TempDir(), "spend.xlsm")
		require.NoError(t, f.SaveAs(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		req := uploadRequest(t, "/api/curves/upload", "spend.xlsm", string(data))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("rejects unsupported file extension", func(t *testing.T) {
		req := uploadRequest(t, "/api/curves/upload", "spend.txt", csvContent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unsupported file type")
	})

	t.Run("rejects missing file part", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("note", "no file"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/curves/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-numeric model parameter", func(t *testing.T) {
		req := uploadRequest(t, "/api/curves/upload?half_life=abc", "spend.csv", csvContent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects saturation target of one or more", func(t *testing.T) {
		req := uploadRequest(t, "/api/curves/upload?saturation_target=1.0", "spend.csv", csvContent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed spend file", func(t *testing.T) {
		req := uploadRequest(t, "/api/curves/upload", "spend.csv", "not,a,spend\nfile,at,all\n")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCurveHandlerReports(t *testing.T) {
	t.Run("404 when no reports exist", func(t *testing.T) {
		h, _ := newTestCurveHandler(t)
		router := mountCurveRoutes(h)

		req := httptest.NewRequest(http.MethodGet, "/api/curves/reports", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lists and downloads written reports", func(t *testing.T) {
		h, reportsDir := newTestCurveHandler(t)
		router := mountCurveRoutes(h)

		body := strings.Replace(computeBody, `"days"`, `"report_name": "q1", "days"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/curves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/api/curves/reports", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var list struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
			Data   []struct {
				Name string `json:"name"`
				Size int64  `json:"size"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Equal(t, "success", list.Status)
		assert.Equal(t, 3, list.Count)

		req = httptest.NewRequest(http.MethodGet, "/api/curves/reports/q1_curves.csv", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "q1_curves.csv")

		written, err := os.ReadFile(filepath.Join(reportsDir, "q1_curves.csv"))
		require.NoError(t, err)
		assert.Equal(t, string(written), rec.Body.String())
	})

	t.Run("404 for unknown report file", func(t *testing.T) {
		h, _ := newTestCurveHandler(t)
		router := mountCurveRoutes(h)

		req := httptest.NewRequest(http.MethodGet, "/api/curves/reports/missing.csv", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects hidden file names", func(t *testing.T) {
		h, _ := newTestCurveHandler(t)
		router := mountCurveRoutes(h)

		req := httptest.NewRequest(http.MethodGet, "/api/curves/reports/.hidden", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToSpendDaysSalesPresence(t *testing.T) {
	handler, _ := newTestCurveHandler(t)

	zero := 0.0
	rows := []SpendRow{
		{Date: "2024-03-01", Campaign: "brand", Spend: 100, Sales: &zero},
		{Date: "2024-03-02", Campaign: "brand", Spend: 200},
	}

	days, err := handler.toSpendDays(rows)
	require.NoError(t, err)
	require.Len(t, days, 2)

	// an explicit zero is still a reported sales figure
	assert.True(t, days[0].HasSales)
	assert.Equal(t, 0.0, days[0].Sales)
	assert.False(t, days[1].HasSales)
}
