// Package metrics defines HTTP and websocket metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// HTTP counter and histogram vectors
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wildcard_sim",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Websocket metrics
var (
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wildcard_sim",
		Name:      "connected_clients",
		Help:      "Number of websocket clients currently connected",
	})

	BroadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wildcard_sim",
		Name:      "broadcasts_total",
		Help:      "Total number of snapshot broadcasts to websocket clients",
	})
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// UpdateConnectedClients updates the connected websocket client gauge.
func UpdateConnectedClients(count int) {
	ConnectedClients.Set(float64(count))
}

// RecordBroadcast records a snapshot broadcast to websocket clients.
func RecordBroadcast() {
	BroadcastsTotal.Inc()
}
