package errors

import (
	"errors"
	"net/http"

	"tickstats/internal/registry"
	"tickstats/internal/stats"
)

// FromDomain maps registry and engine errors to API errors.
// It returns nil when err is not a known domain error.
func FromDomain(err error) *APIError {
	var insufficient *stats.InsufficientDataError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &insufficient):
		return Wrap(http.StatusNotFound, CodeInsufficientData, insufficient).
			WithExtension("required", insufficient.Required).
			WithExtension("available", insufficient.Available)
	case errors.Is(err, registry.ErrSeriesNotFound):
		return Wrap(http.StatusNotFound, CodeSeriesNotFound, err)
	case errors.Is(err, registry.ErrTooManySeries):
		return Wrap(http.StatusConflict, CodeTooManySeries, err)
	case errors.Is(err, stats.ErrInvalidScale):
		return InvalidParameter("k", "must be an integer between 1 and 8")
	case errors.As(err, &tooLarge):
		return Wrap(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, err).
			WithExtension("limit", tooLarge.Limit)
	}
	return nil
}
