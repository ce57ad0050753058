package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLedgerEntry(t *testing.T) {
	before := testutil.ToFloat64(statusTransitions.WithLabelValues("Offer"))
	RecordLedgerEntry("Offer")
	RecordLedgerEntry("Offer")
	assert.Equal(t, before+2, testutil.ToFloat64(statusTransitions.WithLabelValues("Offer")))
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/v1/dashboard", http.StatusOK, 12*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `job_tracker_http_requests_total{method="GET",path="/api/v1/dashboard",status="200"}`)
	assert.Contains(t, body, "job_tracker_http_request_duration_seconds_bucket")
}
