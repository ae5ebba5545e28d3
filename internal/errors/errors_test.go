package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrcli/internal/responsecurve"
)

func TestAPIError(t *testing.T) {
	t.Run("implements error", func(t *testing.T) {
		err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
		assert.Equal(t, "bad input", err.Error())
	})

	t.Run("details survive marshaling", func(t *testing.T) {
		err := ErrValidation("half_life", "must be positive")

		data, merr := json.Marshal(err)
		require.NoError(t, merr)
		assert.Contains(t, string(data), `"field":"half_life"`)
	})
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrInvalidRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.ErrorCode)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "bad field", "/api/curves").
		WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeValidation, decoded["type"])
	assert.Equal(t, float64(http.StatusBadRequest), decoded["status"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
	assert.Equal(t, "bad field", decoded["detail"])
}

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/curves", nil)

	t.Run("parameter error maps to 400", func(t *testing.T) {
		err := fmt.Errorf("compute: %w", &responsecurve.ParameterError{
			Param: "half_life", Value: -1, Message: "must be positive",
		})

		problem := h.ErrorToProblem(err, req)
		assert.Equal(t, http.StatusBadRequest, problem.Status)
		assert.Equal(t, TypeInvalidParameter, problem.Type)
		assert.Equal(t, "half_life", problem.Extensions["param"])
	})

	t.Run("series validation error maps to 400", func(t *testing.T) {
		err := fmt.Errorf("validate series: %w", &responsecurve.ValidationError{
			Field: "date", Message: "missing date",
		})

		problem := h.ErrorToProblem(err, req)
		assert.Equal(t, http.StatusBadRequest, problem.Status)
		assert.Equal(t, TypeInvalidSeries, problem.Type)
		assert.Equal(t, "date", problem.Extensions["field"])
	})

	t.Run("api error carries its status", func(t *testing.T) {
		problem := h.ErrorToProblem(ErrRateLimitExceeded, req)
		assert.Equal(t, http.StatusTooManyRequests, problem.Status)
		assert.Equal(t, TypeRateLimit, problem.Type)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		problem := h.ErrorToProblem(fmt.Errorf("boom"), req)
		assert.Equal(t, http.StatusInternalServerError, problem.Status)
		assert.Equal(t, TypeInternal, problem.Type)
	})
}

func TestHandleError(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/curves", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, &responsecurve.ParameterError{
		Param: "penetration", Value: 0, Message: "must be positive",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "penetration")
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("write report", cause)

	assert.Contains(t, err.Error(), "STORAGE")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, err.Unwrap())

	err.WithContext("path", "data/reports/summary.csv")
	assert.Equal(t, "data/reports/summary.csv", err.Context["path"])
}

func TestAppErrorToProblem(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/curves", nil)

	t.Run("parsing errors map to ingest failures", func(t *testing.T) {
		problem := h.ErrorToProblem(NewParsingError("open CSV file", io.ErrUnexpectedEOF), req)
		assert.Equal(t, http.StatusBadRequest, problem.Status)
		assert.Equal(t, TypeIngestFailed, problem.Type)
		assert.Contains(t, problem.Detail, "open CSV file")
	})

	t.Run("storage errors stay internal", func(t *testing.T) {
		problem := h.ErrorToProblem(NewStorageError("open report file", io.ErrClosedPipe), req)
		assert.Equal(t, http.StatusInternalServerError, problem.Status)
		assert.Equal(t, TypeStorage, problem.Type)
	})

	t.Run("context carries into extensions", func(t *testing.T) {
		appErr := NewNotFoundError("report").WithContext("name", "q1_curves.csv")
		problem := h.ErrorToProblem(appErr, req)
		assert.Equal(t, http.StatusNotFound, problem.Status)
		assert.Equal(t, "q1_curves.csv", problem.Extensions["name"])
	})
}
