package dto

type ClaimResponse struct {
	BetID       uint64 `json:"bet_id"`
	Won         bool   `json:"won"`
	BasePayout  uint64 `json:"base_payout"`
	FinalPayout uint64 `json:"final_payout"`
	BettorShare uint64 `json:"bettor_share"`
	Bounty      uint64 `json:"bounty"`
	BountyClaim bool   `json:"bounty_claim"`
}

type FinalizeResponse struct {
	RoundID        uint64 `json:"round_id"`
	ProtocolProfit uint64 `json:"protocol_profit"`
	SeasonShare    uint64 `json:"season_share"`
}

type BetStatusResponse struct {
	BetID         uint64 `json:"bet_id"`
	RoundID       uint64 `json:"round_id"`
	Bettor        string `json:"bettor"`
	Claimed       bool   `json:"claimed"`
	Settled       bool   `json:"settled"`
	ClaimDeadline int64  `json:"claim_deadline"` // 0 = ainda não fixado
	BountyClaimer string `json:"bounty_claimer,omitempty"`
}

type PayoutPreviewResponse struct {
	BetID       uint64 `json:"bet_id"`
	Won         bool   `json:"won"`
	BasePayout  uint64 `json:"base_payout"`
	FinalPayout uint64 `json:"final_payout"`
}

type RoundResponse struct {
	RoundID                 uint64 `json:"round_id"`
	Settled                 bool   `json:"settled"`
	RoundEndTime            int64  `json:"round_end_time"`
	TotalUserDeposits       uint64 `json:"total_user_deposits"`
	ProtocolFeeCollected    uint64 `json:"protocol_fee_collected"`
	TotalBetVolume          uint64 `json:"total_bet_volume"`
	TotalReservedForWinners uint64 `json:"total_reserved_for_winners"`
	TotalClaimed            uint64 `json:"total_claimed"`
	TotalPaidOut            uint64 `json:"total_paid_out"`
	RevenueDistributed      bool   `json:"revenue_distributed"`
	ProtocolRevenueShare    uint64 `json:"protocol_revenue_share"`
	SeasonRevenueShare      uint64 `json:"season_revenue_share"`
}
