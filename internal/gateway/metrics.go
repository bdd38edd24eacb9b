package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	identifierConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loanbook",
			Name:      "identifier_conflicts_total",
			Help:      "Contract id uniqueness violations recovered by reissuing",
		},
	)
	modeFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loanbook",
			Name:      "naming_mode_fallbacks_total",
			Help:      "Writes retried under an alternate column-naming mode",
		},
	)
)
