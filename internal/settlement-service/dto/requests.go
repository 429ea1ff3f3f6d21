package dto

type ClaimRequest struct {
	BetID     uint64 `json:"bet_id"`
	Claimer   string `json:"claimer"`
	MinPayout uint64 `json:"min_payout"` // piso de slippage; 0 = sem piso
}

type FinalizeRequest struct {
	RoundID   uint64 `json:"round_id"`
	Authority string `json:"authority"`
}
