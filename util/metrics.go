package util

import "github.com/prometheus/client_golang/prometheus"

// Histogram buckets shared by the service metrics. Durations are in seconds.
var (
	// 128µs to 262ms, per transaction work
	MetricsBucketsMicroSeconds = prometheus.ExponentialBuckets(128e-6, 2, 12)
	// 1ms to 2s, per block checks and pool requests
	MetricsBucketsMilliSeconds = prometheus.ExponentialBuckets(1e-3, 2, 12)
	// 64ms to 131s, whole block processing including reorganizations
	MetricsBucketsMilliLongSeconds = prometheus.ExponentialBuckets(64e-3, 2, 12)
	// 128 bytes to 256KB, serialized transaction sizes
	MetricsBucketsSize = prometheus.ExponentialBuckets(128, 2, 12)
)
