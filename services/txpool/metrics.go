package txpool

import (
	"sync"

	"github.com/mvs-org/mvsd/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusTxPoolSize  prometheus.Gauge
	prometheusTxPoolStore prometheus.Histogram

	// transactions leaving the pool, by reason
	prometheusTxPoolRemoved *prometheus.CounterVec
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusTxPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mvsd",
			Subsystem: "txpool",
			Name:      "size",
			Help:      "Number of transactions in the pool",
		},
	)

	prometheusTxPoolStore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "txpool",
			Name:      "store",
			Help:      "Histogram of validating and admitting a transaction",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusTxPoolRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "txpool",
			Name:      "removed",
			Help:      "Number of transactions removed from the pool, by reason",
		},
		[]string{"reason"},
	)
}
