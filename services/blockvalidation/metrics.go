package blockvalidation

import (
	"sync"

	"github.com/mvs-org/mvsd/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockValidationCheckBlock   prometheus.Histogram
	prometheusBlockValidationAcceptBlock  prometheus.Histogram
	prometheusBlockValidationConnectBlock prometheus.Histogram

	// rejected blocks by error code
	prometheusBlockValidationRejected *prometheus.CounterVec
)

var prometheusMetricsInitOnce sync.Once

// initPrometheusMetrics registers the block validation metrics once,
// however many validators are created.
func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockValidationCheckBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "blockvalidation",
			Name:      "check_block",
			Help:      "Histogram of context free block checks",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusBlockValidationAcceptBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "blockvalidation",
			Name:      "accept_block",
			Help:      "Histogram of height dependent block checks",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusBlockValidationConnectBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "blockvalidation",
			Name:      "connect_block",
			Help:      "Histogram of block input connection",
			Buckets:   util.MetricsBucketsMilliLongSeconds,
		},
	)

	prometheusBlockValidationRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "blockvalidation",
			Name:      "rejected",
			Help:      "Number of blocks rejected, by error code",
		},
		[]string{"code"},
	)
}
