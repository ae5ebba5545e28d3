package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mrcli/internal/exporter"
	"mrcli/internal/infrastructure"
	"mrcli/internal/ingest"
	"mrcli/internal/responsecurve"
)

// CurveServiceConfig carries the model defaults and output location
type CurveServiceConfig struct {
	Defaults         responsecurve.ModelParams
	SaturationTarget float64
	MaxConcurrency   int
	ReportsDir       string
}

// CurveService runs the response curve pipeline for API and CLI callers.
// Model parameters are per-request: each computation builds its own
// calculator so concurrent requests with different parameters never
// share state.
type CurveService struct {
	cfg     CurveServiceConfig
	writer  *exporter.CSVWriter
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewCurveService creates a new curve service
func NewCurveService(cfg CurveServiceConfig, logger *slog.Logger) *CurveService {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Defaults.IsValid() {
		cfg.Defaults = responsecurve.DefaultParams()
	}
	if cfg.SaturationTarget <= 0 || cfg.SaturationTarget >= 1 {
		cfg.SaturationTarget = responsecurve.DefaultSaturationTarget
	}

	return &CurveService{
		cfg:    cfg,
		writer: exporter.NewCSVWriter(cfg.ReportsDir),
		logger: logger,
	}
}

// SetMetrics attaches business metrics for computation recording
func (s *CurveService) SetMetrics(metrics *infrastructure.BusinessMetrics) {
	s.metrics = metrics
}

// Defaults returns the configured default model parameters
func (s *CurveService) Defaults() responsecurve.ModelParams {
	return s.cfg.Defaults
}

// SaturationTarget returns the configured default saturation target
func (s *CurveService) SaturationTarget() float64 {
	return s.cfg.SaturationTarget
}

// CurveResult is the outcome of one pipeline run
type CurveResult struct {
	Curves     []*responsecurve.CampaignCurve  `json:"curves"`
	Insights   responsecurve.PortfolioInsights `json:"insights"`
	ComputedAt time.Time                       `json:"computed_at"`
	Duration   time.Duration                   `json:"-"`
}

// Compute runs the full pipeline for every campaign in days
func (s *CurveService) Compute(ctx context.Context, days []responsecurve.SpendDay, params responsecurve.ModelParams, saturationTarget float64) (*CurveResult, error) {
	if len(days) == 0 {
		return nil, ErrNoSpendData
	}

	start := time.Now()

	calc, err := responsecurve.NewCalculator(params, s.logger)
	if err != nil {
		s.recordComputation(ctx, 0, time.Since(start), err)
		return nil, err
	}
	if err := calc.SetSaturationTarget(saturationTarget); err != nil {
		s.recordComputation(ctx, 0, time.Since(start), err)
		return nil, err
	}
	calc.SetMaxConcurrency(s.cfg.MaxConcurrency)

	curves, err := calc.ComputeAll(ctx, days)
	if err != nil {
		s.recordComputation(ctx, 0, time.Since(start), err)
		return nil, fmt.Errorf("compute curves: %w", err)
	}

	result := &CurveResult{
		Curves:     curves,
		Insights:   responsecurve.BuildPortfolioInsights(curves),
		ComputedAt: time.Now(),
		Duration:   time.Since(start),
	}

	s.recordComputation(ctx, len(curves), result.Duration, nil)
	s.logger.InfoContext(ctx, "curves computed",
		slog.Int("campaigns", len(curves)),
		slog.Int("rows", len(days)),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// ComputeFromFile loads a spend file and runs the pipeline on its contents
func (s *CurveService) ComputeFromFile(ctx context.Context, path string, params responsecurve.ModelParams, saturationTarget float64) (*CurveResult, error) {
	days, err := ingest.LoadSpendData(path)
	if err != nil {
		return nil, fmt.Errorf("load spend data: %w", err)
	}

	if s.metrics != nil {
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		infrastructure.RecordIngestMetrics(ctx, s.metrics, len(days), format)
	}

	return s.Compute(ctx, days, params, saturationTarget)
}

// ReportPaths names the files produced by WriteReports
type ReportPaths struct {
	Curves   string `json:"curves"`
	Summary  string `json:"summary"`
	Insights string `json:"insights"`
}

// WriteReports writes the per-day curves, the campaign summary and the
// portfolio insights under the configured reports directory. baseName
// is used as the file name prefix.
func (s *CurveService) WriteReports(ctx context.Context, result *CurveResult, baseName string) (ReportPaths, error) {
	if result == nil || len(result.Curves) == 0 {
		return ReportPaths{}, ErrNoCurves
	}
	if baseName == "" {
		baseName = "response_curves"
	}

	paths := ReportPaths{
		Curves:   baseName + "_curves.csv",
		Summary:  baseName + "_summary.csv",
		Insights: baseName + "_insights.json",
	}

	if err := s.writer.WriteCurves(paths.Curves, result.Curves); err != nil {
		return ReportPaths{}, fmt.Errorf("write curves report: %w", err)
	}
	if err := s.writer.WriteSummary(paths.Summary, result.Curves); err != nil {
		return ReportPaths{}, fmt.Errorf("write summary report: %w", err)
	}
	if err := s.writer.WriteInsightsJSON(paths.Insights, result.Insights); err != nil {
		return ReportPaths{}, fmt.Errorf("write insights report: %w", err)
	}

	s.logger.InfoContext(ctx, "reports written",
		slog.String("dir", s.cfg.ReportsDir),
		slog.String("base", baseName),
		slog.Int("campaigns", len(result.Curves)))

	return paths, nil
}

func (s *CurveService) recordComputation(ctx context.Context, campaigns int, duration time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	infrastructure.RecordComputationMetrics(ctx, s.metrics, campaigns, duration, err)
}

// ReportFile describes a generated report on disk
type ReportFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// ListReports returns the generated report files, newest first
func (s *CurveService) ListReports(ctx context.Context) ([]ReportFile, error) {
	entries, err := os.ReadDir(s.cfg.ReportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoReportsFound
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var files []ReportFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".csv" && ext != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ReportFile{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	if len(files) == 0 {
		return nil, ErrNoReportsFound
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}

// ReportPath resolves a report filename to its on-disk path.
// Rejects anything that is not a bare filename so callers cannot
// escape the reports directory.
func (s *CurveService) ReportPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid report name %q", ErrInvalidInput, name)
	}
	path := filepath.Join(s.cfg.ReportsDir, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoReportsFound
		}
		return "", fmt.Errorf("stat report: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: invalid report name %q", ErrInvalidInput, name)
	}
	return path, nil
}
