package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apierrors "tickstats/internal/errors"
	"tickstats/internal/registry"
	"tickstats/internal/services"
	"tickstats/internal/shared/testutil"
	"tickstats/internal/stats"
	api "tickstats/pkg/contracts/api/v1"
)

// MockStatsService is a mock implementation of StatsServiceInterface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) AddBatch(ctx context.Context, symbol string, values []float64) (int, error) {
	args := m.Called(symbol, values)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsService) Stats(ctx context.Context, symbol string, k int) (stats.Result, error) {
	args := m.Called(symbol, k)
	return args.Get(0).(stats.Result), args.Error(1)
}

func (m *MockStatsService) Overview(ctx context.Context, symbol string) (registry.Overview, error) {
	args := m.Called(symbol)
	return args.Get(0).(registry.Overview), args.Error(1)
}

func (m *MockStatsService) Symbols(ctx context.Context) []registry.SymbolInfo {
	args := m.Called()
	return args.Get(0).([]registry.SymbolInfo)
}

// MockExportService is a mock implementation of ExportServiceInterface
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, symbol, format string) (*services.Document, error) {
	args := m.Called(symbol, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Document), args.Error(1)
}

func newTestRouter(t *testing.T, svc StatsServiceInterface, exports ExportServiceInterface, cfg StatsHandlerConfig) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)
	h := NewStatsHandler(svc, exports, cfg, logger, eh)

	r := chi.NewRouter()
	r.NotFound(eh.NotFound)
	r.MethodNotAllowed(eh.MethodNotAllowed)
	r.Mount("/", h.Routes())
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStatsHandler_AddBatch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockStatsService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"symbol":"ABC","values":[1.1,2.2,3.3]}`,
			setupMock: func(m *MockStatsService) {
				m.On("AddBatch", "ABC", []float64{1.1, 2.2, 3.3}).Return(3, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "empty batch",
			body: `{"symbol":"ABC","values":[]}`,
			setupMock: func(m *MockStatsService) {
				m.On("AddBatch", "ABC", []float64{}).Return(0, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing symbol",
			body:       `{"values":[1]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:       "missing values",
			body:       `{"symbol":"ABC"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:       "invalid symbol",
			body:       `{"symbol":"A B","values":[1]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:       "batch over limit",
			body:       `{"symbol":"ABC","values":[1,2,3,4,5,6]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:       "malformed json",
			body:       `{"symbol":"ABC","values":[1,`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeInvalidRequest,
		},
		{
			name: "series limit",
			body: `{"symbol":"NEW","values":[1]}`,
			setupMock: func(m *MockStatsService) {
				m.On("AddBatch", "NEW", []float64{1}).Return(0, fmt.Errorf("%w: 1 series", registry.ErrTooManySeries))
			},
			wantStatus: http.StatusConflict,
			wantCode:   apierrors.CodeTooManySeries,
		},
		{
			name: "unexpected failure",
			body: `{"symbol":"ABC","values":[1]}`,
			setupMock: func(m *MockStatsService) {
				m.On("AddBatch", "ABC", []float64{1}).Return(0, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockStatsService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			r := newTestRouter(t, svc, new(MockExportService), StatsHandlerConfig{MaxBatchSize: 5})

			rec := serve(r, testutil.JSONRequest(t, http.MethodPost, "/add_batch", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				var resp api.BatchResponse
				testutil.DecodeJSON(t, rec, &resp)
				assert.Equal(t, "batch is added successfully", resp.Message)
				assert.Equal(t, "ABC", resp.Symbol)
			} else if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, testutil.DecodeProblem(t, rec).Code())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestStatsHandler_AddBatchRequiresJSON(t *testing.T) {
	svc := new(MockStatsService)
	r := newTestRouter(t, svc, new(MockExportService), StatsHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/add_batch", strings.NewReader(`{"symbol":"A","values":[1]}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := serve(r, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	svc.AssertNotCalled(t, "AddBatch", mock.Anything, mock.Anything)
}

func TestStatsHandler_AddBatchIngestToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("token"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := new(MockStatsService)
	svc.On("AddBatch", "A", []float64{1}).Return(1, nil).Once()
	r := newTestRouter(t, svc, new(MockExportService), StatsHandlerConfig{IngestTokenHash: string(hash)})

	rec := serve(r, testutil.JSONRequest(t, http.MethodPost, "/add_batch", `{"symbol":"A","values":[1]}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := testutil.JSONRequest(t, http.MethodPost, "/add_batch", `{"symbol":"A","values":[1]}`)
	req.Header.Set("X-Ingest-Token", "token")
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// reads stay open
	svc.On("Symbols").Return([]registry.SymbolInfo{})
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/symbols", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestStatsHandler_GetStats(t *testing.T) {
	result := stats.Result{Min: 1.1, Max: 12.4, Last: 1.1, Avg: 6.06, Var: 15.1644}

	tests := []struct {
		name       string
		query      string
		setupMock  func(*MockStatsService)
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{
			name:  "success",
			query: "symbol=ABC&k=1",
			setupMock: func(m *MockStatsService) {
				m.On("Stats", "ABC", 1).Return(result, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "unknown symbol",
			query: "symbol=XYZ&k=1",
			setupMock: func(m *MockStatsService) {
				m.On("Stats", "XYZ", 1).Return(stats.Result{}, fmt.Errorf("%w: '%s'", registry.ErrSeriesNotFound, "XYZ"))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apierrors.CodeSeriesNotFound,
			wantDetail: "no data found for symbol: 'XYZ'",
		},
		{
			name:  "insufficient data",
			query: "symbol=ABC&k=2",
			setupMock: func(m *MockStatsService) {
				m.On("Stats", "ABC", 2).Return(stats.Result{}, &stats.InsufficientDataError{Required: 100, Available: 11})
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apierrors.CodeInsufficientData,
			wantDetail: "data points to be analyzed is less than: 100",
		},
		{name: "k out of range", query: "symbol=ABC&k=9", wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
		{name: "k zero", query: "symbol=ABC&k=0", wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
		{name: "k not a number", query: "symbol=ABC&k=x", wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
		{name: "missing k", query: "symbol=ABC", wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
		{name: "missing symbol", query: "k=1", wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockStatsService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			r := newTestRouter(t, svc, new(MockExportService), StatsHandlerConfig{})

			rec := serve(r, httptest.NewRequest(http.MethodGet, "/stats?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"min":1.1,"max":12.4,"last":1.1,"avg":6.06,"var":15.1644}`, rec.Body.String())
			} else {
				problem := testutil.DecodeProblem(t, rec)
				assert.Equal(t, tt.wantCode, problem.Code())
				if tt.wantDetail != "" {
					assert.Equal(t, tt.wantDetail, problem.Detail())
				}
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestStatsHandler_GetScales(t *testing.T) {
	res := stats.Result{Min: 1, Max: 10, Last: 10, Avg: 5.5, Var: 8.25}
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	svc := new(MockStatsService)
	svc.On("Overview", "ABC").Return(registry.Overview{
		Symbol:    "ABC",
		Length:    10,
		Capacity:  stats.MaxObservations,
		UpdatedAt: updated,
		Scales: []stats.ScaleSummary{
			{Scale: 1, Length: 10, Available: true, Result: &res},
			{Scale: 2, Length: 100},
		},
	}, nil)
	svc.On("Overview", "XYZ").Return(registry.Overview{}, registry.ErrSeriesNotFound)

	r := newTestRouter(t, svc, new(MockExportService), StatsHandlerConfig{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/stats/ABC/scales", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.OverviewResponse
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, "ABC", resp.Symbol)
	assert.Equal(t, 10, resp.Length)
	assert.True(t, resp.UpdatedAt.Equal(updated))
	require.Len(t, resp.Scales, 2)
	require.NotNil(t, resp.Scales[0].Stats)
	assert.Equal(t, api.Float(5.5), resp.Scales[0].Stats.Avg)
	assert.Nil(t, resp.Scales[1].Stats)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/stats/XYZ/scales", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.CodeSeriesNotFound, testutil.DecodeProblem(t, rec).Code())
}

func TestStatsHandler_ListSymbols(t *testing.T) {
	svc := new(MockStatsService)
	svc.On("Symbols").Return([]registry.SymbolInfo{
		{Symbol: "A", Length: 3},
		{Symbol: "B", Length: 20},
	})
	r := newTestRouter(t, svc, new(MockExportService), StatsHandlerConfig{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/symbols", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SymbolsResponse
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "B", resp.Symbols[1].Symbol)
	assert.Equal(t, 20, resp.Symbols[1].Length)
}

func TestStatsHandler_Export(t *testing.T) {
	exports := new(MockExportService)
	exports.On("Export", "ABC", services.FormatCSV).Return(
		services.NewDocument("text/csv; charset=utf-8", "ABC-stats.csv", func(w io.Writer) error {
			_, err := io.WriteString(w, "k,length\n1,10\n")
			return err
		}), nil)
	exports.On("Export", "XYZ", services.FormatXLSX).Return(nil, registry.ErrSeriesNotFound)

	r := newTestRouter(t, new(MockStatsService), exports, StatsHandlerConfig{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/stats/ABC/export.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ABC-stats.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "k,length\n1,10\n", rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/stats/XYZ/export.xlsx", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	testutil.DecodeProblem(t, rec)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/stats/ABC/export.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	exports.AssertExpectations(t)
}

func TestStatsHandler_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, new(MockStatsService), new(MockExportService), StatsHandlerConfig{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/add_batch", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestStatsHandler_EndToEnd drives the real services through the router
func TestStatsHandler_EndToEnd(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewStatsService(registry.New(registry.Options{}), nil, nil, logger)
	exports := services.NewExportService(svc, nil, nil, logger)
	r := newTestRouter(t, svc, exports, StatsHandlerConfig{MaxBatchSize: 10_000})

	post := func(symbol string, values []float64) *httptest.ResponseRecorder {
		return serve(r, testutil.JSONRequest(t, http.MethodPost, "/add_batch", api.BatchRequest{Symbol: symbol, Values: values}))
	}

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/stats?symbol=ABC&k=1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no data found for symbol: 'ABC'", testutil.DecodeProblem(t, rec).Detail())

	rec = post("ABC", testutil.MixedPrices)
	require.Equal(t, http.StatusOK, rec.Code)
	var added api.BatchResponse
	testutil.DecodeJSON(t, rec, &added)
	assert.Equal(t, len(testutil.MixedPrices), added.Count)
	assert.Equal(t, len(testutil.MixedPrices), added.Length)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/stats?symbol=ABC&k=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"min":1.1,"max":12.4,"last":1.1,"avg":6.06,"var":15.1644}`, rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/stats?symbol=ABC&k=2", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	problem := testutil.DecodeProblem(t, rec)
	assert.Equal(t, "data points to be analyzed is less than: 100", problem.Detail())
	assert.EqualValues(t, 100, problem["required"])
	assert.EqualValues(t, 11, problem["available"])

	rec = post("ABC", testutil.RepeatingPattern)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/stats?symbol=ABC&k=1", nil))
	assert.JSONEq(t, `{"min":1,"max":3,"last":1,"avg":1.9,"var":0.69}`, rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/stats/ABC/export.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := bytes.TrimPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF})
	assert.True(t, strings.HasPrefix(string(body), "k,length,available,min,max,last,avg,var\n1,10,true,1,3,1,1.9,0.69\n"), string(body))
}
