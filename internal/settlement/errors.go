package settlement

import "errors"

// Erros do núcleo de liquidação. Cada operação falha com o primeiro
// erro encontrado e não aplica nenhuma mutação parcial.
var (
	ErrRoundNotSettled                = errors.New("round not settled")
	ErrBetAlreadyClaimed              = errors.New("bet already claimed")
	ErrNotBettor                      = errors.New("only the bettor can claim inside the claim window")
	ErrPayoutBelowMinimum             = errors.New("payout below minimum")
	ErrOddsNotLocked                  = errors.New("odds not locked")
	ErrCalculationOverflow            = errors.New("calculation overflow")
	ErrRoundPayoutLimitReached        = errors.New("round payout limit reached")
	ErrInsufficientProtocolLiquidity  = errors.New("insufficient protocol liquidity")
	ErrRevenueAlreadyDistributed      = errors.New("revenue already distributed")
	ErrRevenueDistributedBeforeClaims = errors.New("revenue distribution before all claims")
	ErrNotPoolAuthority               = errors.New("caller is not the pool authority")
)
