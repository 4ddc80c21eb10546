package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 分析
	BatchesAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwatch_batches_analyzed_total",
			Help: "Total number of plot reading batches analyzed",
		},
		[]string{"action_type"},
	)

	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwatch_alerts_raised_total",
			Help: "Total number of anomaly alerts raised by the rule engine",
		},
		[]string{"category", "severity"},
	)

	OutlierVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwatch_outlier_verdicts_total",
			Help: "Total number of isolation forest verdicts",
		},
		[]string{"label"},
	)

	// Worker 任务
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwatch_jobs_processed_total",
			Help: "Total number of queue jobs processed by outcome",
		},
		[]string{"action_type", "outcome"},
	)

	QueuePolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwatch_queue_polls_total",
			Help: "Total number of queue consume calls by result",
		},
		[]string{"queue", "result"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cropwatch_job_duration_seconds",
			Help:    "Queue job processing duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"action_type"},
	)

	// API / 回调
	ReadingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwatch_readings_ingested_total",
			Help: "Total number of sensor readings stored",
		},
		[]string{"source"},
	)

	AlertsPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cropwatch_alerts_persisted_total",
			Help: "Total number of alerts written by the callback consumer",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cropwatch_websocket_clients",
			Help: "Number of connected alert websocket clients",
		},
	)
)
