package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pingErr  error
		wantCode int
		wantBody string
	}{
		{
			name:     "database reachable",
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok","database":"up"}`,
		},
		{
			name:     "database unreachable",
			pingErr:  errors.New("connection refused"),
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"degraded","database":"down"}`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := healthHandler(stubPinger{err: tc.pingErr}, discardLogger())
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()

			handler(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestServerRoutesHealthz(t *testing.T) {
	t.Parallel()

	s := New(0, stubPinger{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Anything else is not part of the surface.
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
