package apiclient

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeSuccess        = "success"
	outcomeFailure        = "failure"
	outcomeNoRefreshToken = "no_refresh_token"
	outcomeAlreadyFresh   = "already_fresh"
	outcomeStorageError   = "storage_error"
)

// Metrics counts refresh activity for one client.
type Metrics struct {
	Refreshes *prometheus.CounterVec
	Coalesced prometheus.Counter
	Retries   prometheus.Counter
}

// NewMetrics creates the client counters and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintdash",
			Subsystem: "apiclient",
			Name:      "token_refreshes_total",
			Help:      "Token refresh cycles by outcome.",
		}, []string{"outcome"}),
		Coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maintdash",
			Subsystem: "apiclient",
			Name:      "token_refresh_waiters_total",
			Help:      "Callers that joined a refresh already in flight.",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maintdash",
			Subsystem: "apiclient",
			Name:      "request_retries_total",
			Help:      "Requests replayed after a successful refresh.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Refreshes, m.Coalesced, m.Retries)
	}
	return m
}
