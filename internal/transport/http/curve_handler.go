package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "mrcli/internal/errors"
	custommw "mrcli/internal/middleware"
	"mrcli/internal/responsecurve"
	"mrcli/internal/services"
)

// maxUploadSize caps multipart spend file uploads
const maxUploadSize = 10 << 20 // 10MB

// SpendRow is one spend observation in a compute request. Sales is a
// pointer so an explicit zero stays distinct from an absent value.
type SpendRow struct {
	Date     string   `json:"date" validate:"required,iso8601"`
	Campaign string   `json:"campaign" validate:"required,campaign"`
	Spend    float64  `json:"spend" validate:"gte=0"`
	Sales    *float64 `json:"sales,omitempty" validate:"omitempty,gte=0"`
}

// ModelParamsRequest overrides the configured model defaults.
// Absent fields fall back to the service defaults.
type ModelParamsRequest struct {
	HalfLife      *float64 `json:"half_life,omitempty" validate:"omitempty,gt=0"`
	Penetration   *float64 `json:"penetration,omitempty" validate:"omitempty,gt=0"`
	Effectiveness *float64 `json:"effectiveness,omitempty" validate:"omitempty,gt=0"`
	HillPower     *float64 `json:"hill_power,omitempty" validate:"omitempty,gt=0"`
}

// ComputeRequest is the POST /api/curves payload
type ComputeRequest struct {
	Days             []SpendRow          `json:"days" validate:"required,min=1,dive"`
	Params           *ModelParamsRequest `json:"params,omitempty"`
	SaturationTarget *float64            `json:"saturation_target,omitempty" validate:"omitempty,gt=0,lt=1"`
	ReportName       *string             `json:"report_name,omitempty" validate:"omitempty,filename"`
}

// ComputeResponse wraps a curve result with any written report paths
type ComputeResponse struct {
	*services.CurveResult
	Reports *services.ReportPaths `json:"reports,omitempty"`
}

// CurveHandler handles response curve HTTP requests with RFC 7807 compliance
type CurveHandler struct {
	service      *services.CurveService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *custommw.ValidationMiddleware
	query        *custommw.QueryParamValidator
}

// NewCurveHandler creates a new curve handler
func NewCurveHandler(service *services.CurveService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CurveHandler {
	return &CurveHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "curve_handler")),
		errorHandler: errorHandler,
		validation:   custommw.NewValidationMiddleware(logger, errorHandler),
		query:        custommw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the curve routes
func (h *CurveHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Compute)
	r.Post("/upload", h.Upload)
	r.Get("/defaults", h.Defaults)

	r.Get("/reports", h.ListReports)
	r.Get("/reports/{filename}", h.DownloadReport)

	return r
}

// Compute handles POST /api/curves
func (h *CurveHandler) Compute(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetReqID(r.Context())

	var req ComputeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.logger.WarnContext(r.Context(), "malformed compute request",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validation.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	days, err := h.toSpendDays(req.Days)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	params := h.resolveParams(req.Params)
	target := h.service.SaturationTarget()
	if req.SaturationTarget != nil {
		target = *req.SaturationTarget
	}

	h.logger.InfoContext(r.Context(), "computing curves",
		slog.String("request_id", reqID),
		slog.Int("rows", len(days)),
		slog.Float64("saturation_target", target),
	)

	result, err := h.service.Compute(r.Context(), days, params, target)
	if err != nil {
		h.handleComputeError(w, r, err)
		return
	}

	resp := ComputeResponse{CurveResult: result}
	if req.ReportName != nil {
		paths, err := h.service.WriteReports(r.Context(), result, *req.ReportName)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		resp.Reports = &paths
	}

	render.JSON(w, r, resp)
}

// Upload handles POST /api/curves/upload with a multipart spend file.
// Model parameters come from query parameters and fall back to the
// service defaults.
func (h *CurveHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetReqID(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_MULTIPART",
			"Invalid multipart form data",
			err.Error(),
		))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A spend data file is required"))
		return
	}
	defer file.Close()

	// Mirrors the formats ingest.LoadSpendData dispatches on
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" && ext != ".xlsm" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file",
			fmt.Sprintf("Unsupported file type %q, expected .csv, .xlsx or .xlsm", ext)))
		return
	}

	defaults := h.service.Defaults()
	params := responsecurve.ModelParams{}
	var ok bool
	if params.HalfLife, ok = h.query.ValidateFloat(w, r, "half_life", defaults.HalfLife); !ok {
		return
	}
	if params.Penetration, ok = h.query.ValidateFloat(w, r, "penetration", defaults.Penetration); !ok {
		return
	}
	if params.Effectiveness, ok = h.query.ValidateFloat(w, r, "effectiveness", defaults.Effectiveness); !ok {
		return
	}
	if params.HillPower, ok = h.query.ValidateFloat(w, r, "hill_power", defaults.HillPower); !ok {
		return
	}
	target, ok := h.query.ValidateFloat(w, r, "saturation_target", h.service.SaturationTarget())
	if !ok {
		return
	}
	if target >= 1 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("saturation_target",
			"saturation_target must be below 1"))
		return
	}

	// The ingest layer dispatches on extension, so the temp copy keeps it
	tmp, err := os.CreateTemp("", "spend-upload-*"+ext)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("upload", err))
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("upload", err))
		return
	}
	if err := tmp.Close(); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("upload", err))
		return
	}

	h.logger.InfoContext(r.Context(), "computing curves from upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	result, err := h.service.ComputeFromFile(r.Context(), tmpPath, params, target)
	if err != nil {
		h.handleComputeError(w, r, err)
		return
	}

	render.JSON(w, r, ComputeResponse{CurveResult: result})
}

// Defaults handles GET /api/curves/defaults
func (h *CurveHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"params":            h.service.Defaults(),
		"saturation_target": h.service.SaturationTarget(),
	})
}

// ListReports handles GET /api/curves/reports
func (h *CurveHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoReportsFound) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusNotFound,
				"NO_REPORTS_FOUND",
				"No reports available",
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   reports,
		"count":  len(reports),
	})
}

// DownloadReport handles GET /api/curves/reports/{filename}
func (h *CurveHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.service.ReportPath(filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoReportsFound):
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				"FILE_NOT_FOUND",
				fmt.Sprintf("Report file %q not found", filename),
				filename,
			))
		case errors.Is(err, services.ErrInvalidInput):
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Invalid report filename"))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/csv")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

// toSpendDays converts request rows to domain spend days
func (h *CurveHandler) toSpendDays(rows []SpendRow) ([]responsecurve.SpendDay, error) {
	days := make([]responsecurve.SpendDay, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, apierrors.ErrValidation(
				fmt.Sprintf("days[%d].date", i),
				fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", row.Date),
			)
		}
		day := responsecurve.SpendDay{
			Date:     date,
			Campaign: strings.TrimSpace(row.Campaign),
			Spend:    row.Spend,
		}
		if row.Sales != nil {
			day.Sales = *row.Sales
			day.HasSales = true
		}
		days = append(days, day)
	}
	return days, nil
}

// resolveParams merges request overrides onto the service defaults
func (h *CurveHandler) resolveParams(req *ModelParamsRequest) responsecurve.ModelParams {
	params := h.service.Defaults()
	if req == nil {
		return params
	}
	if req.HalfLife != nil {
		params.HalfLife = *req.HalfLife
	}
	if req.Penetration != nil {
		params.Penetration = *req.Penetration
	}
	if req.Effectiveness != nil {
		params.Effectiveness = *req.Effectiveness
	}
	if req.HillPower != nil {
		params.HillPower = *req.HillPower
	}
	return params
}

// handleComputeError maps service errors to API errors
func (h *CurveHandler) handleComputeError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "curve computation failed",
		slog.String("error", err.Error()),
		slog.String("request_id", custommw.GetReqID(r.Context())),
	)

	var paramErr *responsecurve.ParameterError
	var valErr *responsecurve.ValidationError

	switch {
	case errors.Is(err, services.ErrNoSpendData):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("days", "No valid spend data provided"))
	case errors.As(err, &paramErr), errors.As(err, &valErr):
		h.errorHandler.HandleError(w, r, err)
	case strings.Contains(err.Error(), "load spend data"):
		h.errorHandler.HandleError(w, r, apierrors.ErrIngest(err))
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrComputation(err))
	}
}
