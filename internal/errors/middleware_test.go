package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"tickstats/internal/shared/testutil"
)

func TestRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name: "passes through normal responses",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte("ok"))
			},
			wantStatus: http.StatusAccepted,
			wantBody:   "ok",
		},
		{
			name: "converts panics to problem documents",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("nil map")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			mw := RecoveryMiddleware(NewErrorHandler(logger, false))

			rec := httptest.NewRecorder()
			mw(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRecoveryMiddlewareRepanicsOnAbort(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	mw := RecoveryMiddleware(NewErrorHandler(logger, false))

	h := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
