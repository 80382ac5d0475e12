package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordsObservations(t *testing.T) {
	m := New()

	m.ObserveRequest("/forms/{form}", http.MethodPost, http.StatusUnprocessableEntity, 20*time.Millisecond)
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)
	m.ObserveSubmission("form-one", true)
	m.ObserveSubmission("form-one", false)
	m.ObserveSubmission("form-one", false)
	m.ObserveValidation("form-two", true)
	m.SetSessions(3)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("/forms/{form}", "POST", "422")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("expected unmatched route label, got %v", got)
	}
	if got := testutil.ToFloat64(m.Submissions.WithLabelValues("form-one", OutcomeRejected)); got != 2 {
		t.Fatalf("expected 2 rejected submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.Validations.WithLabelValues("form-two", "true")); got != 1 {
		t.Fatalf("expected 1 validation, got %v", got)
	}
	if got := testutil.ToFloat64(m.Sessions); got != 3 {
		t.Fatalf("expected 3 sessions, got %v", got)
	}
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveSubmission("form-two", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `regforms_submissions_total{form="form-two",outcome="accepted"} 1`) {
		t.Fatalf("submission counter missing from exposition:\n%s", body)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
	m.ObserveSubmission("form-one", true)
	m.ObserveValidation("form-one", false)
	m.SetSessions(1)
	if m.Registry() != nil {
		t.Fatalf("expected nil registry")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil metrics, got %d", rec.Code)
	}
}
