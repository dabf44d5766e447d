// Package metrics exposes Prometheus instruments for the encoder and the
// handle table.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/pcmwav"
)

// Failure kinds reported by EncodeFailures.
const (
	KindDecode    = "decode"
	KindMalformed = "malformed"
	KindFormat    = "format"
	KindOther     = "other"
)

// Metrics contains all Prometheus metrics of the pcmwav tool.
type Metrics struct {
	// Encoding metrics
	Encoded        prometheus.Counter
	EncodeFailures *prometheus.CounterVec
	EncodedBytes   prometheus.Histogram
	EncodeDuration prometheus.Histogram

	// Handle table
	LiveHandles     prometheus.Gauge
	HandlesReleased prometheus.Counter

	// Speech synthesis
	SpeechRequests *prometheus.CounterVec

	// HTTP API metrics
	HTTPRequests *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Encoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "pcmwav_encoded_total",
			Help: "Total number of wav containers produced",
		}),
		EncodeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmwav_encode_failures_total",
			Help: "Total number of rejected encode requests by error kind",
		}, []string{"kind"}),
		EncodedBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pcmwav_encoded_bytes",
			Help:    "Size of produced wav containers",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to ~256MB
		}),
		EncodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pcmwav_encode_duration_seconds",
			Help:    "Time spent decoding and assembling a container",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		LiveHandles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pcmwav_live_handles",
			Help: "Current number of registered playback handles",
		}),
		HandlesReleased: factory.NewCounter(prometheus.CounterOpts{
			Name: "pcmwav_handles_released_total",
			Help: "Total number of playback handles released",
		}),
		SpeechRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmwav_speech_requests_total",
			Help: "Total number of speech synthesis requests by outcome",
		}, []string{"outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmwav_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
	}
}

// Kind maps an encode error to its failure label.
func Kind(err error) string {
	switch {
	case errors.Is(err, pcmwav.ErrDecode):
		return KindDecode
	case errors.Is(err, pcmwav.ErrMalformedAudio):
		return KindMalformed
	case errors.Is(err, pcmwav.ErrInvalidFormat):
		return KindFormat
	default:
		return KindOther
	}
}

// RecordEncode records the outcome of one encode call.
func (m *Metrics) RecordEncode(size int, elapsed time.Duration, err error) {
	if err != nil {
		m.EncodeFailures.WithLabelValues(Kind(err)).Inc()
		return
	}

	m.Encoded.Inc()
	m.EncodedBytes.Observe(float64(size))
	m.EncodeDuration.Observe(elapsed.Seconds())
}

// RecordSpeech records a synthesis request outcome.
func (m *Metrics) RecordSpeech(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	m.SpeechRequests.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
}

// Observe attaches the live handle gauge to r. It replaces any OnChange
// callback already set on r.
func (m *Metrics) Observe(r *pcmwav.Registry) {
	last := r.Len()
	m.LiveHandles.Set(float64(last))

	r.OnChange = func(live int) {
		if live < last {
			m.HandlesReleased.Add(float64(last - live))
		}

		last = live
		m.LiveHandles.Set(float64(live))
	}
}
