package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tickstats/internal/errors"
	"tickstats/internal/middleware"
	"tickstats/internal/services"
	"tickstats/internal/stats"
	api "tickstats/pkg/contracts/api/v1"
)

// StatsHandlerConfig bounds the ingest endpoint
type StatsHandlerConfig struct {
	MaxBatchSize    int
	IngestTokenHash string
}

// StatsHandler serves batch ingestion and statistics queries
type StatsHandler struct {
	service      StatsServiceInterface
	exports      ExportServiceInterface
	cfg          StatsHandlerConfig
	validator    *middleware.Validator
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service StatsServiceInterface, exports ExportServiceInterface, cfg StatsHandlerConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StatsHandler {
	return &StatsHandler{
		service:      service,
		exports:      exports,
		cfg:          cfg,
		validator:    middleware.NewValidator(logger, errorHandler),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "stats_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the series routes
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(
		middleware.IngestAuth(h.cfg.IngestTokenHash, h.logger, h.errorHandler),
		middleware.ContentTypeValidator(h.errorHandler, "application/json"),
	).Post("/add_batch", h.AddBatch)

	r.Get("/stats", h.GetStats)
	r.Get("/symbols", h.ListSymbols)

	r.Route("/stats/{symbol}", func(r chi.Router) {
		r.Get("/scales", h.GetScales)
		r.Get("/export.csv", h.exportAs(services.FormatCSV))
		r.Get("/export.xlsx", h.exportAs(services.FormatXLSX))
	})

	return r
}

// AddBatch handles POST /add_batch
func (h *StatsHandler) AddBatch(w http.ResponseWriter, r *http.Request) {
	var req api.BatchRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if h.cfg.MaxBatchSize > 0 && len(req.Values) > h.cfg.MaxBatchSize {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("values",
			fmt.Sprintf("values must contain at most %d items", h.cfg.MaxBatchSize)))
		return
	}

	length, err := h.service.AddBatch(r.Context(), req.Symbol, req.Values)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.BatchResponse{
		Message: api.BatchAddedMessage,
		Symbol:  req.Symbol,
		Count:   len(req.Values),
		Length:  length,
	})
}

// GetStats handles GET /stats?symbol=S&k=K
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.query.RequireString(w, r, "symbol")
	if !ok {
		return
	}
	k, ok := h.query.RequireInt(w, r, "k", int(stats.MinScale), int(stats.MaxScale))
	if !ok {
		return
	}

	res, err := h.service.Stats(r.Context(), symbol, k)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, newStatsResponse(res))
}

// GetScales handles GET /stats/{symbol}/scales
func (h *StatsHandler) GetScales(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	ov, err := h.service.Overview(r.Context(), symbol)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.OverviewResponse{
		Symbol:    ov.Symbol,
		Length:    ov.Length,
		Capacity:  ov.Capacity,
		UpdatedAt: ov.UpdatedAt,
		Scales:    newScaleResponses(ov.Scales),
	})
}

// ListSymbols handles GET /symbols
func (h *StatsHandler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	infos := h.service.Symbols(r.Context())

	resp := api.SymbolsResponse{
		Symbols: make([]api.SymbolResponse, 0, len(infos)),
		Count:   len(infos),
	}
	for _, info := range infos {
		resp.Symbols = append(resp.Symbols, api.SymbolResponse{
			Symbol:    info.Symbol,
			Length:    info.Length,
			UpdatedAt: info.UpdatedAt,
		})
	}

	render.JSON(w, r, resp)
}

// exportAs handles GET /stats/{symbol}/export.{csv,xlsx}
func (h *StatsHandler) exportAs(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		doc, err := h.exports.Export(r.Context(), symbol, format)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
		w.WriteHeader(http.StatusOK)

		// Headers are out; a failure here can only be logged
		if err := doc.Render(w); err != nil {
			h.logger.ErrorContext(r.Context(), "export write failed",
				slog.String("symbol", symbol),
				slog.String("format", format),
				slog.String("error", err.Error()))
		}
	}
}
