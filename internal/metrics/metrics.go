// Package metrics exposes Prometheus collectors for compression calls.
package metrics

import (
	"time"

	"github.com/AnyUserName/imgcompress/internal/compress"
	"github.com/AnyUserName/imgcompress/internal/encoder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess     = "success"
	StatusDecodeError = "decode_error"
	StatusEncodeError = "encode_error"
)

var (
	CompressionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imgcompress_compressions_total",
			Help: "Total number of compress calls by target and outcome",
		},
		[]string{"target", "status"},
	)

	CompressionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imgcompress_compression_duration_seconds",
			Help:    "Time spent in a compress call (decode + encode)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"target"},
	)

	InputBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imgcompress_input_bytes_total",
			Help: "Bytes received for compression",
		},
	)

	OutputBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imgcompress_output_bytes_total",
			Help: "Bytes produced by successful compress calls",
		},
		[]string{"target"},
	)
)

var targets = []encoder.Target{encoder.TargetJPEG, encoder.TargetPNG, encoder.TargetFallback}

// Init pre-populates label combinations so every series is exported from
// the first scrape.
func Init() {
	for _, t := range targets {
		for _, s := range []string{StatusSuccess, StatusDecodeError, StatusEncodeError} {
			CompressionsTotal.WithLabelValues(t.String(), s)
		}
		CompressionDuration.WithLabelValues(t.String())
		OutputBytesTotal.WithLabelValues(t.String())
	}
}

// Status classifies the result of a compress call.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case compress.IsDecode(err):
		return StatusDecodeError
	default:
		return StatusEncodeError
	}
}

// Observe records one compress call.
func Observe(format string, err error, d time.Duration, in, out int) {
	target := encoder.ParseTarget(format).String()
	CompressionsTotal.WithLabelValues(target, Status(err)).Inc()
	CompressionDuration.WithLabelValues(target).Observe(d.Seconds())
	InputBytesTotal.Add(float64(in))
	if err == nil {
		OutputBytesTotal.WithLabelValues(target).Add(float64(out))
	}
}
