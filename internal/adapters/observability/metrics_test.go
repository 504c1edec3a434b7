package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hqvjet/TourAI/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("catalog", "/service", 200, 8*time.Millisecond)
	observability.ObserveCache("redis", "miss")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "tourai_http_requests_total") {
		t.Fatalf("expected tourai_http_requests_total in output")
	}
	if !strings.Contains(out, "tourai_external_requests_total") {
		t.Fatalf("expected tourai_external_requests_total in output")
	}
	if !strings.Contains(out, "tourai_cache_events_total") {
		t.Fatalf("expected tourai_cache_events_total in output")
	}
}
