package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerHTTP(mux, testLogger(), Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerHTTP(mux, testLogger(), Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 in memory mode", rec.Code)
	}
}

func TestReadyzRequiresDB(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerHTTP(mux, testLogger(), Config{ReadinessRequireDB: true}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when DB required but absent", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	metrics.Observe(http.MethodGet, "/healthz", http.StatusOK, 0.001)

	mux := http.NewServeMux()
	registerHTTP(mux, testLogger(), Config{}, nil, metrics, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "chirp_http_requests_total") {
		t.Fatalf("request counter missing from exposition:\n%s", rec.Body.String())
	}
}
