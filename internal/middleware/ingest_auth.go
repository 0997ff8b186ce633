package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	apierrors "tickstats/internal/errors"
)

// IngestTokenHeader carries the shared ingest secret
const IngestTokenHeader = "X-Ingest-Token"

// IngestAuth guards write endpoints with a shared token checked against a
// bcrypt hash. An empty hash disables the check.
func IngestAuth(tokenHash string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) func(next http.Handler) http.Handler {
	hash := []byte(tokenHash)

	return func(next http.Handler) http.Handler {
		if len(hash) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := r.Header.Get(IngestTokenHeader)
			if token == "" {
				logger.WarnContext(ctx, "missing ingest token",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				errorHandler.HandleError(w, r, apierrors.New(
					http.StatusUnauthorized,
					apierrors.CodeUnauthorized,
					"Ingest token required",
				))
				return
			}

			if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
				logger.WarnContext(ctx, "invalid ingest token",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				errorHandler.HandleError(w, r, apierrors.New(
					http.StatusUnauthorized,
					apierrors.CodeUnauthorized,
					"Invalid ingest token",
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
