package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения label "result" для FlowResolutions.
const (
	ResultOK       = "ok"
	ResultCached   = "cached"
	ResultCycle    = "cycle"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	// FlowResolutions — количество разрешений зависимостей flows.
	FlowResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthflow_flow_resolutions_total",
		Help: "Total flow dependency resolutions by result",
	}, []string{"result"})

	// BuildsTotal — количество запусков синтеза по backend и статусу.
	BuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthflow_builds_total",
		Help: "Total synthesis builds by backend and status",
	}, []string{"backend", "status"})

	// BuildDuration — длительность запуска внешнего инструмента.
	BuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "synthflow_build_duration_seconds",
		Help:    "Duration of external synthesis tool invocations",
		Buckets: []float64{1, 10, 30, 60, 300, 900, 1800, 3600, 7200},
	}, []string{"backend"})

	// BuildRequestsPublished — запросы на сборку, опубликованные scheduler'ом.
	BuildRequestsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synthflow_build_requests_published_total",
		Help: "Total build requests published by the scheduler",
	})

	// HTTPRequests — запросы к HTTP API по методу и статусу.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthflow_api_http_requests_total",
		Help: "Total HTTP requests handled by synthflow-api",
	}, []string{"method", "status"})
)
