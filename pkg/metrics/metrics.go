package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IngestRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vod_ingest_records_total",
		Help: "Object-created records handled by the ingest trigger, by result",
	}, []string{"result"})

	CompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vod_completions_total",
		Help: "Job state change events handled, by event type and envelope status code",
	}, []string{"event_type", "code"})

	SinkFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vod_sink_failures_total",
		Help: "Notification sends that failed, by sink",
	}, []string{"sink"})

	ArtifactsListed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vod_artifacts_listed",
		Help:    "Number of artifacts found per completed job, by kind",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
	}, []string{"kind"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vod_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})
)
