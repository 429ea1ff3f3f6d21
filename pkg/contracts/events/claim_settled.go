package events

// Evento publicado no tópico "claim_settled" após cada claim bem
// sucedido (vencedor ou não).
type ClaimSettled struct {
	PoolID      string `json:"pool_id"`
	BetID       uint64 `json:"bet_id"`
	RoundID     uint64 `json:"round_id"`
	Bettor      string `json:"bettor"`
	Claimer     string `json:"claimer"`
	Won         bool   `json:"won"`
	BasePayout  uint64 `json:"base_payout"`
	FinalPayout uint64 `json:"final_payout"`
	BettorShare uint64 `json:"bettor_share"`
	Bounty      uint64 `json:"bounty"`
	BountyClaim bool   `json:"bounty_claim"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}
