package topics

const (
	// Rodadas
	RoundSettled = "round_settled"

	// Liquidação
	ClaimSettled     = "claim_settled"
	RevenueFinalized = "revenue_finalized"

	// DLQs
	RoundSettledDLQ = "round_settled_dlq"
)
