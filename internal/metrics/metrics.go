// Package metrics exposes Prometheus instrumentation for the parse and
// split pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReceiptsParsed counts successful parses that yielded items.
	ReceiptsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbill_receipts_parsed_total",
		Help: "Number of receipts parsed with at least one extracted item.",
	})

	// ParseFallbacks counts parses that yielded zero items and were
	// replaced with synthetic data.
	ParseFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbill_parse_fallbacks_total",
		Help: "Number of parses that fell back to a synthetic receipt.",
	})

	// OCRFailures counts failed OCR invocations.
	OCRFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbill_ocr_failures_total",
		Help: "Number of OCR invocations that returned an error.",
	})

	// ParseDuration observes end-to-end parse latency in seconds.
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapbill_parse_duration_seconds",
		Help:    "Time spent parsing receipt text.",
		Buckets: prometheus.DefBuckets,
	})

	// SplitsComputed counts allocation computations.
	SplitsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbill_splits_computed_total",
		Help: "Number of split allocations computed.",
	})
)
