package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// The metric names and label sets here are the ones SPEC_FULL.md §10.3
// commits to; nothing else in the service shell should register a
// prometheus collector outside this file.
var (
	AllocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_allocations_total",
			Help: "Total allocation attempts, labeled by outcome",
		},
		[]string{"result"}, // success|failure
	)

	AllocationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parking_allocation_duration_seconds",
			Help:    "Duration of allocation processing",
			Buckets: prometheus.DefBuckets,
		},
	)

	RollbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_rollback_total",
			Help: "Total number of operations undone by rollback",
		},
	)

	RequestsByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parking_requests_by_state",
			Help: "Current number of requests in each lifecycle state",
		},
		[]string{"state"},
	)

	ZoneUtilizationPercent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parking_zone_utilization_percent",
			Help: "Percentage of slots currently occupied, per zone",
		},
		[]string{"zone"},
	)
)

func init() {
	prometheus.MustRegister(AllocationsTotal)
	prometheus.MustRegister(AllocationDuration)
	prometheus.MustRegister(RollbackTotal)
	prometheus.MustRegister(RequestsByState)
	prometheus.MustRegister(ZoneUtilizationPercent)
}

// Register mounts the Prometheus scrape endpoint on mux.
func Register(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}

// ObserveSnapshot pushes an analytics.Snapshot-shaped view into the gauge
// vectors. The service shell calls it periodically from cmd/parkingd's
// reportAnalytics loop (SPEC_FULL.md §10.3); the core itself never touches
// prometheus.
func ObserveSnapshot(zoneUtilization map[string]float64, requestsByState map[string]int) {
	for zone, pct := range zoneUtilization {
		ZoneUtilizationPercent.WithLabelValues(zone).Set(pct)
	}
	for state, count := range requestsByState {
		RequestsByState.WithLabelValues(state).Set(float64(count))
	}
}
