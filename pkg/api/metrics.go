package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "namedir",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})
	metricReady = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "namedir",
		Name:      "index_ready",
		Help:      "1 once the directory index has been published.",
	})
	metricNames = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "namedir",
		Name:      "index_names",
		Help:      "Number of names in the published index.",
	})
	metricLetters = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "namedir",
		Name:      "index_letters",
		Help:      "Number of distinct first letters in the published index.",
	})
	metricLoadSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "namedir",
		Name:      "index_load_seconds",
		Help:      "Time spent building the index at startup.",
	})
)

// ObserveLoad records a completed index build.
func ObserveLoad(names, letters int, took time.Duration) {
	metricReady.Set(1)
	metricNames.Set(float64(names))
	metricLetters.Set(float64(letters))
	metricLoadSeconds.Set(took.Seconds())
}

func observeRequest(route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	metricRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
