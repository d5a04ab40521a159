package validator

import (
	"sync"

	"github.com/mvs-org/mvsd/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// prometheusTransactionsValidated counts transactions accepted in pool mode
	prometheusTransactionsValidated prometheus.Counter

	// prometheusTransactionsRejected counts pool mode rejections by error code
	prometheusTransactionsRejected *prometheus.CounterVec

	// prometheusTransactionValidate measures the staged pool mode pipeline
	prometheusTransactionValidate prometheus.Histogram

	// prometheusTransactionSize tracks the size of validated transactions
	prometheusTransactionSize prometheus.Histogram
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusTransactionsValidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "validator",
			Name:      "transactions_validated",
			Help:      "Number of transactions accepted by the validator",
		},
	)

	prometheusTransactionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mvsd",
			Subsystem: "validator",
			Name:      "transactions_rejected",
			Help:      "Number of transactions rejected by the validator, by error code",
		},
		[]string{"code"},
	)

	prometheusTransactionValidate = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "validator",
			Name:      "transactions_validate",
			Help:      "Histogram of pool mode transaction validation",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusTransactionSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mvsd",
			Subsystem: "validator",
			Name:      "transactions_size",
			Help:      "Size of validated transactions",
			Buckets:   util.MetricsBucketsSize,
		},
	)
}
