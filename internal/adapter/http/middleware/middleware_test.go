package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/adapter/http/dto"
	"github.com/iho/txledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Post("/api/v1/ledger/process", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ledger/process", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected handler status, got %d", rec.Code)
	}

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodPost, "/api/v1/ledger/process", "418"))
	if got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}

	if inFlight := testutil.ToFloat64(m.HTTPInFlight); inFlight != 0 {
		t.Fatalf("expected in-flight gauge back at 0, got %v", inFlight)
	}
}

func TestMetricsMiddlewareUnmatchedPath(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	handler := Metrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "200")); got != 1 {
		t.Fatalf("expected unmatched label, got %v", got)
	}
}

func TestLoggingMiddlewareLogsAndInjectsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var ctxLoggerEnabled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLoggerEnabled = zerolog.Ctx(r.Context()).GetLevel() != zerolog.Disabled
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	NewLoggingMiddleware(logger).Wrap(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !ctxLoggerEnabled {
		t.Fatal("expected request context to carry the logger")
	}

	out := buf.String()
	for _, want := range []string{`"status":202`, `"path":"/health"`, "request completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log to contain %s, got %q", want, out)
		}
	}
}

func TestRecoveryReturns500WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := chimiddleware.RequestID(NewLoggingMiddleware(logger).Wrap(Recovery(panicking)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/process", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal server error" || body.Message != "request req-42" {
		t.Fatalf("unexpected body: %+v", body)
	}

	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"panic":"boom"`, "handler panicked"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log to contain %s, got %q", want, out)
		}
	}
}

func TestRecoveryWithoutRequestID(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "message") {
		t.Fatalf("expected no request message, got %s", rec.Body.String())
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rejected := 0
	rl := NewRateLimiter(1, 1, func() { rejected++ })
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("1.2.3.4:1000"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := do("1.2.3.4:2000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected same IP on another port to be throttled, got %d", code)
	}
	if code := do("5.6.7.8:1000"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}
	if rejected != 1 {
		t.Fatalf("expected one rejection callback, got %d", rejected)
	}

	rl.Reset()
	if code := do("1.2.3.4:3000"); code != http.StatusOK {
		t.Fatalf("expected reset to forget the client, got %d", code)
	}
}
