package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrcli/internal/responsecurve"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCurveService(t *testing.T) *CurveService {
	t.Helper()
	return NewCurveService(CurveServiceConfig{
		Defaults:         responsecurve.DefaultParams(),
		SaturationTarget: 0.95,
		MaxConcurrency:   2,
		ReportsDir:       t.TempDir(),
	}, testLogger())
}

func spendDays() []responsecurve.SpendDay {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	days := make([]responsecurve.SpendDay, 0, 6)
	for i, spend := range []float64{100, 200, 300} {
		days = append(days, responsecurve.SpendDay{
			Date: base.AddDate(0, 0, i), Campaign: "brand", Spend: spend,
		})
	}
	for i, spend := range []float64{50, 80, 120} {
		days = append(days, responsecurve.SpendDay{
			Date: base.AddDate(0, 0, i), Campaign: "search", Spend: spend,
		})
	}
	return days
}

func TestNewCurveService(t *testing.T) {
	t.Run("invalid defaults fall back", func(t *testing.T) {
		s := NewCurveService(CurveServiceConfig{
			Defaults:         responsecurve.ModelParams{HalfLife: -1},
			SaturationTarget: 2.0,
		}, testLogger())

		assert.Equal(t, responsecurve.DefaultParams(), s.Defaults())
		assert.InDelta(t, responsecurve.DefaultSaturationTarget, s.SaturationTarget(), 1e-9)
	})

	t.Run("configured values kept", func(t *testing.T) {
		params := responsecurve.ModelParams{HalfLife: 14, Penetration: 1000, Effectiveness: 250, HillPower: 2}
		s := NewCurveService(CurveServiceConfig{Defaults: params, SaturationTarget: 0.9}, testLogger())

		assert.Equal(t, params, s.Defaults())
		assert.InDelta(t, 0.9, s.SaturationTarget(), 1e-9)
	})
}

func TestCurveServiceCompute(t *testing.T) {
	s := testCurveService(t)
	ctx := context.Background()

	t.Run("computes all campaigns", func(t *testing.T) {
		result, err := s.Compute(ctx, spendDays(), s.Defaults(), s.SaturationTarget())
		require.NoError(t, err)
		require.Len(t, result.Curves, 2)

		assert.Equal(t, "brand", result.Curves[0].Campaign)
		assert.Equal(t, "search", result.Curves[1].Campaign)
		assert.Equal(t, 2, result.Insights.TotalCampaigns)
		assert.False(t, result.ComputedAt.IsZero())
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := s.Compute(ctx, nil, s.Defaults(), s.SaturationTarget())
		require.ErrorIs(t, err, ErrNoSpendData)
	})

	t.Run("invalid parameters rejected", func(t *testing.T) {
		params := s.Defaults()
		params.Penetration = 0
		_, err := s.Compute(ctx, spendDays(), params, s.SaturationTarget())
		require.Error(t, err)

		var paramErr *responsecurve.ParameterError
		require.True(t, errors.As(err, &paramErr))
		assert.Equal(t, "penetration", paramErr.Param)
	})

	t.Run("invalid saturation target rejected", func(t *testing.T) {
		_, err := s.Compute(ctx, spendDays(), s.Defaults(), 1.5)
		require.Error(t, err)
	})
}

func TestComputeFromFile(t *testing.T) {
	s := testCurveService(t)
	ctx := context.Background()

	t.Run("loads CSV and computes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spend.csv")
		content := "Date,Campaign,Spend\n" +
			"2024-03-01,brand,100\n" +
			"2024-03-02,brand,200\n" +
			"2024-03-03,brand,300\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		result, err := s.ComputeFromFile(ctx, path, s.Defaults(), s.SaturationTarget())
		require.NoError(t, err)
		require.Len(t, result.Curves, 1)
		assert.Equal(t, "brand", result.Curves[0].Campaign)
		assert.Len(t, result.Curves[0].Days, 3)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := s.ComputeFromFile(ctx, filepath.Join(t.TempDir(), "nope.csv"), s.Defaults(), s.SaturationTarget())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load spend data")
	})
}

func TestWriteReports(t *testing.T) {
	reportsDir := t.TempDir()
	s := NewCurveService(CurveServiceConfig{
		Defaults:         responsecurve.DefaultParams(),
		SaturationTarget: 0.95,
		ReportsDir:       reportsDir,
	}, testLogger())
	ctx := context.Background()

	result, err := s.Compute(ctx, spendDays(), s.Defaults(), s.SaturationTarget())
	require.NoError(t, err)

	t.Run("writes all report files", func(t *testing.T) {
		paths, err := s.WriteReports(ctx, result, "march")
		require.NoError(t, err)

		assert.Equal(t, "march_curves.csv", paths.Curves)
		assert.Equal(t, "march_summary.csv", paths.Summary)
		assert.Equal(t, "march_insights.json", paths.Insights)

		for _, name := range []string{paths.Curves, paths.Summary, paths.Insights} {
			_, err := os.Stat(filepath.Join(reportsDir, name))
			require.NoError(t, err, name)
		}
	})

	t.Run("default base name", func(t *testing.T) {
		paths, err := s.WriteReports(ctx, result, "")
		require.NoError(t, err)
		assert.Equal(t, "response_curves_curves.csv", paths.Curves)
	})

	t.Run("empty result rejected", func(t *testing.T) {
		_, err := s.WriteReports(ctx, nil, "x")
		require.ErrorIs(t, err, ErrNoCurves)

		_, err = s.WriteReports(ctx, &CurveResult{}, "x")
		require.ErrorIs(t, err, ErrNoCurves)
	})
}

func TestReportListing(t *testing.T) {
	dir := t.TempDir()
	svc := NewCurveService(CurveServiceConfig{ReportsDir: dir}, testLogger())

	t.Run("no reports", func(t *testing.T) {
		_, err := svc.ListReports(context.Background())
		assert.ErrorIs(t, err, ErrNoReportsFound)
	})

	t.Run("lists only report files", func(t *testing.T) {
		old := time.Now().Add(-time.Hour)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "q1_curves.csv"), []byte("a"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "q1_insights.json"), []byte("{}"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
		require.NoError(t, os.Chtimes(filepath.Join(dir, "q1_curves.csv"), old, old))

		reports, err := svc.ListReports(context.Background())
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "q1_insights.json", reports[0].Name)
		assert.Equal(t, "q1_curves.csv", reports[1].Name)
	})
}

func TestReportPath(t *testing.T) {
	dir := t.TempDir()
	svc := NewCurveService(CurveServiceConfig{ReportsDir: dir}, testLogger())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q1_curves.csv"), []byte("a"), 0o644))

	t.Run("resolves existing report", func(t *testing.T) {
		path, err := svc.ReportPath("q1_curves.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "q1_curves.csv"), path)
	})

	t.Run("missing report", func(t *testing.T) {
		_, err := svc.ReportPath("q2_curves.csv")
		assert.ErrorIs(t, err, ErrNoReportsFound)
	})

	t.Run("rejects traversal and hidden names", func(t *testing.T) {
		for _, name := range []string{"", "../secret.csv", "sub/secret.csv", ".hidden"} {
			_, err := svc.ReportPath(name)
			assert.ErrorIs(t, err, ErrInvalidInput, name)
		}
	})
}
