package blockchain

import (
	"sync"

	"github.com/mvs-org/mvsd/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockchainProcessBlock    prometheus.Histogram
	prometheusBlockchainBlocksProcessed *prometheus.CounterVec
	prometheusBlockchainReorgs          prometheus.Counter
	prometheusBlockchainReorgDepth      prometheus.Histogram
	prometheusOrphanPoolSize            prometheus.Gauge
	prometheusOrphanPoolEvicted         prometheus.Counter
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockchainProcessBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "blockchain",
			Name:      "process_block",
			Help:      "Histogram of organizing a block",
			Buckets:   util.MetricsBucketsMilliLongSeconds,
		},
	)

	prometheusBlockchainBlocksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "blockchain",
			Name:      "blocks_processed",
			Help:      "Number of blocks processed, by result",
		},
		[]string{"result"},
	)

	prometheusBlockchainReorgs = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "blockchain",
			Name:      "reorgs",
			Help:      "Number of reorganizations that replaced committed blocks",
		},
	)

	prometheusBlockchainReorgDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "blockchain",
			Name:      "reorg_depth",
			Help:      "Number of committed blocks replaced by a reorganization",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	prometheusOrphanPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mvsd",
			Subsystem: "blockchain",
			Name:      "orphan_pool_size",
			Help:      "Number of blocks held in the orphan pool",
		},
	)

	prometheusOrphanPoolEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "blockchain",
			Name:      "orphan_pool_evicted",
			Help:      "Number of blocks evicted from a full orphan pool",
		},
	)
}
