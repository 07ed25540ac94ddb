package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	// HTTPRequestsTotal tracks requests by method, route template and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks handler latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)

// Sensor Metrics
var (
	// SensorReadingsTotal counts readings accepted and persisted
	SensorReadingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensor_readings_total",
			Help: "Total sensor readings stored",
		},
	)

	// SensorAbnormalReadingsTotal counts stored readings outside the operating range
	SensorAbnormalReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensor_abnormal_readings_total",
			Help: "Total abnormal sensor readings by the first out-of-range sensor",
		},
		[]string{"sensor"},
	)
)

// Mixer Metrics
var (
	// MixerRunning is 1 while the mixer is switched on
	MixerRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mixer_running",
			Help: "Whether the mixer is switched on (1) or off (0)",
		},
	)
)

// WebSocket Metrics
var (
	// WebSocketClients tracks currently connected live-update clients
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Number of connected WebSocket clients",
		},
	)
)
