package http

import (
	"net/http"

	apierrors "tickstats/internal/errors"
)

// MetricsHandler serves the Prometheus exposition
type MetricsHandler struct {
	exposition   http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps the exporter's HTTP handler. A nil exposition
// means the metric exporter is disabled.
func NewMetricsHandler(exposition http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			apierrors.CodeNotFound,
			"Metrics exporter is disabled",
		))
		return
	}
	h.exposition.ServeHTTP(w, r)
}
