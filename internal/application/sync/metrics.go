package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dynastyscope_sync_runs_total",
			Help: "Total league sync runs by outcome",
		},
		[]string{"outcome"},
	)

	syncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dynastyscope_sync_duration_seconds",
			Help:    "End-to-end duration of successful league syncs",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
	)
)
