package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type DBOperation string

const (
	DBOperationInsert DBOperation = "insert"
	DBOperationRead   DBOperation = "read"
	DBOperationCount  DBOperation = "count"
	DBOperationSync   DBOperation = "sync"
)

const prefix = "retailsync_"

type Metrics struct {
	gatherer prometheus.Gatherer

	eventsIngested  prometheus.Counter
	eventsProcessed prometheus.Counter
	syncRuns        prometheus.Counter
	dbErrors        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry. Using a private registry
// keeps tests free to build as many instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		eventsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "events_ingested_total",
			Help: "Number of sale events stored",
		}),
		eventsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "events_processed_total",
			Help: "Number of sale events moved from PENDING to PROCESSED",
		}),
		syncRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "sync_runs_total",
			Help: "Number of completed sync passes",
		}),
		dbErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "db_errors_total",
			Help: "Number of database errors grouped by database operation",
		}, []string{"operation"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "http_request_duration_seconds",
			Help:    "HTTP request latency grouped by route, method and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
	}
}

func (m *Metrics) RecordIngested() {
	m.eventsIngested.Inc()
}

func (m *Metrics) RecordSync(processed int64) {
	m.syncRuns.Inc()
	m.eventsProcessed.Add(float64(processed))
}

func (m *Metrics) RecordDBError(operation DBOperation) {
	m.dbErrors.With(prometheus.Labels{"operation": string(operation)}).Inc()
}

func (m *Metrics) ObserveRequest(route, method, code string, seconds float64) {
	m.requestDuration.With(prometheus.Labels{"route": route, "method": method, "code": code}).Observe(seconds)
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
