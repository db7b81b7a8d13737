package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Client counts backend requests by method and outcome so operators can
// watch error classes (network, unauthorized, server, decoding) per build.
type Client struct {
	Requests *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Client {
	return &Client{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gametrade_client_requests_total",
			Help: "Total number of backend requests issued by the client",
		}, []string{"method", "outcome"}),
	}
}

// ObserveRequest records a finished request. Safe on a nil receiver so the
// api client works without a registry wired in.
func (m *Client) ObserveRequest(method, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, outcome).Inc()
}
