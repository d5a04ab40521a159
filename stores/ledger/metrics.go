package ledger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusLedgerPush        prometheus.Histogram
	prometheusLedgerPop         prometheus.Histogram
	prometheusLedgerReadRetries prometheus.Counter
	prometheusLedgerHeight      prometheus.Gauge
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusLedgerPush = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "ledger",
			Name:      "push_seconds",
			Help:      "Duration of pushing a block into the ledger",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		},
	)

	prometheusLedgerPop = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "ledger",
			Name:      "pop_seconds",
			Help:      "Duration of popping the top block from the ledger",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		},
	)

	prometheusLedgerReadRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "ledger",
			Name:      "read_retries",
			Help:      "Number of reads repeated because a write epoch overlapped them",
		},
	)

	prometheusLedgerHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mvsd",
			Subsystem: "ledger",
			Name:      "height",
			Help:      "Height of the top block in the ledger",
		},
	)
}
