package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RefreshCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradeguard_refresh_cycles_total", Help: "Refresh cycles by outcome"},
		[]string{"outcome"},
	)
	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradeguard_refresh_duration_seconds",
			Help:    "Wall time of a full refresh cycle",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
	)
	InferenceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradeguard_inference_requests_total", Help: "Inference calls by provider, model and outcome"},
		[]string{"provider", "model", "outcome"},
	)
	InferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradeguard_inference_duration_seconds",
			Help:    "Latency of inference calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"provider", "model"},
	)
	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradeguard_fallbacks_total", Help: "Fallback values substituted for failed or empty responses"},
		[]string{"component", "reason"},
	)
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tradeguard_notifications_total", Help: "Notifications delivered by channel"},
		[]string{"channel", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RefreshCycles, RefreshDuration, InferenceRequests, InferenceDuration, Fallbacks, NotificationsSent)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
