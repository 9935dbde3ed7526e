package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordIngested()
	m.RecordIngested()
	m.RecordSync(3)
	m.RecordSync(0)
	m.RecordDBError(DBOperationInsert)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsIngested))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.eventsProcessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.syncRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbErrors.WithLabelValues("insert")))
}

func TestMetrics_InstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RecordIngested()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.eventsIngested))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.eventsIngested))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordIngested()
	m.ObserveRequest("/events", http.MethodPost, "201", 0.01)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "retailsync_events_ingested_total 1")
	assert.Contains(t, body, `retailsync_http_request_duration_seconds_count{code="201",method="POST",route="/events"} 1`)
}
