package nbapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK     = "ok"
	outcomeError  = "error"
	outcomeStatus = "bad_status"
)

var (
	remoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbdev",
			Name:      "remote_requests_total",
			Help:      "NationBuilder API calls issued by the remote client.",
		},
		[]string{"method", "resource", "outcome"},
	)

	mockOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbdev",
			Name:      "mock_operations_total",
			Help:      "Contract operations served by the in-memory mock.",
		},
		[]string{"operation", "outcome"},
	)
)

func observeMock(op string, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	mockOperationsTotal.WithLabelValues(op, outcome).Inc()
}
