package devserver

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	requests     *prometheus.CounterVec
	authRequests *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintdash",
			Subsystem: "devserver",
			Name:      "http_requests_total",
			Help:      "API requests by method and status code.",
		}, []string{"method", "code"}),
		authRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintdash",
			Subsystem: "devserver",
			Name:      "auth_requests_total",
			Help:      "Login, refresh and logout calls by outcome.",
		}, []string{"endpoint", "outcome"}),
	}
	reg.MustRegister(m.requests, m.authRequests)
	return m
}
