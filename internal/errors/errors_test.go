package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickstats/internal/registry"
	"tickstats/internal/stats"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, CodeInvalidRequest, "bad body")
	assert.Equal(t, "bad body", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestAPIError_Render(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	err := render.Render(rec, req, New(http.StatusConflict, CodeTooManySeries, "limit"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeTooManySeries, body["error_code"])
}

func TestValidationHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{
			name:       "single field",
			err:        ErrValidation("symbol", "is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidationFailed,
		},
		{
			name: "multiple fields",
			err: NewValidationErrors([]ValidationError{
				{Field: "symbol", Message: "is required"},
				{Field: "values", Message: "too many"},
			}),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidationFailed,
		},
		{
			name:       "invalid parameter",
			err:        InvalidParameter("k", "must be an integer"),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidParameter,
		},
		{
			name:       "invalid request",
			err:        InvalidRequestWithError(fmt.Errorf("unexpected EOF")),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotNil(t, tt.err.Details)
		})
	}

	details, ok := ErrValidation("symbol", "is required").Details.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "symbol", details.Errors[0].Field)
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantNil    bool
		wantStatus int
		wantCode   string
		wantMsg    string
		wantExt    map[string]any
	}{
		{
			name:       "unknown series",
			err:        fmt.Errorf("%w: 'XYZ'", registry.ErrSeriesNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeSeriesNotFound,
			wantMsg:    "no data found for symbol: 'XYZ'",
		},
		{
			name:       "insufficient data",
			err:        fmt.Errorf("stats: %w", &stats.InsufficientDataError{Required: 100, Available: 11}),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeInsufficientData,
			wantMsg:    "data points to be analyzed is less than: 100",
			wantExt:    map[string]any{"required": 100, "available": 11},
		},
		{
			name:       "too many series",
			err:        fmt.Errorf("%w: 10 series", registry.ErrTooManySeries),
			wantStatus: http.StatusConflict,
			wantCode:   CodeTooManySeries,
		},
		{
			name:       "invalid scale",
			err:        fmt.Errorf("%w: k must be between 1 and 8, got 9", stats.ErrInvalidScale),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidParameter,
		},
		{
			name:       "body too large",
			err:        &http.MaxBytesError{Limit: 1024},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   CodePayloadTooLarge,
			wantExt:    map[string]any{"limit": int64(1024)},
		},
		{
			name:    "unrelated error",
			err:     fmt.Errorf("disk on fire"),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDomain(tt.err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message)
			}
			for k, v := range tt.wantExt {
				assert.Equal(t, v, got.Extensions[k], k)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(http.StatusNotFound, CodeSeriesNotFound, fmt.Errorf("%w: 'A'", registry.ErrSeriesNotFound))
	assert.ErrorIs(t, err, registry.ErrSeriesNotFound)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusNotFound, TypeSeriesNotFound, "Not Found", "missing", "/stats").
		WithExtension("error_code", CodeSeriesNotFound).
		WithExtension("status", 999)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, TypeSeriesNotFound, body["type"])
	assert.Equal(t, "Not Found", body["title"])
	assert.Equal(t, "missing", body["detail"])
	assert.Equal(t, "/stats", body["instance"])
	assert.Equal(t, CodeSeriesNotFound, body["error_code"])
	// standard members win over extensions with the same name
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestProblemDetails_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	NewProblemDetails(http.StatusTeapot, TypeInternal, "Teapot", "", "").Write(rec)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "detail")
}
