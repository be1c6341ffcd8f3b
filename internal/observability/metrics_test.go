package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordAndServe(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/taste/profile", 200, 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/taste/profile", 200, 30*time.Millisecond)
	m.IncClassification("sweet-fruity", "base")
	m.IncRetry("taste.incorporate_review")

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/taste/profile", "200")); got != 2 {
		t.Fatalf("api requests: got %v", got)
	}
	if got := testutil.ToFloat64(m.writeRetries.WithLabelValues("taste.incorporate_review")); got != 1 {
		t.Fatalf("retries: got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `jumak_taste_classifications_total{kind="base",label="sweet-fruity"} 1`) {
		t.Fatalf("classification series missing from exposition")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveOperation("op", "success", time.Millisecond)
	m.IncConflict("op")
	m.IncRetry("op")
	m.IncClassification("x", "base")
	m.ObserveRetake("x", 0.4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
}
