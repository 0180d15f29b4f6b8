package upgrade

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Plan build metrics
	planBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mayastor_upgrade_plan_build_duration_seconds",
			Help:    "Duration of upgrade plan builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	planBuildTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mayastor_upgrade_plan_build_total",
			Help: "Total number of upgrade plan build attempts",
		},
		[]string{"status"}, // success or error
	)

	// Apply metrics
	applyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mayastor_upgrade_apply_duration_seconds",
			Help:    "Duration of upgrade plan applies in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	applyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mayastor_upgrade_apply_total",
			Help: "Total number of upgrade plan apply attempts",
		},
		[]string{"status"}, // success or error
	)
)
