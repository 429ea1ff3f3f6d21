package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores do settlement-service, expostos no /metrics do sidecar.
var (
	ClaimsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_claims_settled_total",
		Help: "Claims liquidados, por desfecho",
	}, []string{"outcome"}) // "won" | "lost" | "bounty"

	ClaimsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_claims_rejected_total",
		Help: "Claims rejeitados, por motivo",
	}, []string{"reason"})

	PayoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_payouts_amount_total",
		Help: "Soma dos pagamentos liquidados",
	})

	RoundsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_rounds_finalized_total",
		Help: "Rodadas com receita finalizada",
	})
)
