package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestIDGeneratesUUID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rr.Header().Get("X-Request-ID")
	assert.Len(t, id, 36)
	assert.Equal(t, id, seen)
}

func TestRequestIDPreservesClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rr := httptest.NewRecorder()
	RequestID(ok).ServeHTTP(rr, req)
	assert.Equal(t, "trace-123", rr.Header().Get("X-Request-ID"))
}

func TestGetRequestIDEmptyContext(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   bool
	}{
		{"no token configured", "", "", true},
		{"missing header", "s3cret", "", false},
		{"wrong scheme", "s3cret", "Basic s3cret", false},
		{"wrong token", "s3cret", "Bearer nope", false},
		{"match", "s3cret", "Bearer s3cret", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(tt.token)(req))
		})
	}
}

func TestAuthorize(t *testing.T) {
	deny := func(*http.Request) bool { return false }

	rr := httptest.NewRecorder()
	Authorize(deny)(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unauthorized access")

	rr = httptest.NewRecorder()
	Authorize(AllowAll)(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tables/x", nil))

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, "level=WARN")
	assert.Contains(t, line, "status=404")
	assert.Contains(t, line, "path=/api/tables/x")
	assert.Contains(t, line, "bytes=7")
	assert.Contains(t, line, "request_id="+rr.Header().Get("X-Request-ID"))
}

func TestLoggerRecordsRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Get("/api/tables/{table}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tables/users", nil))

	line := buf.String()
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, "route=/api/tables/{table}")
	assert.Contains(t, line, "table=users")
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1)(ok)
	codes := make([]int, 0, 2)
	for range 2 {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0)(ok)
	for range 3 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
