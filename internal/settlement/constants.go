package settlement

// Constantes de escala e limites do núcleo de liquidação.
// Odds e multiplicadores são fixed-point com 4 casas (10000 = 1.0x).
const (
	// OddsScale é o denominador do fixed-point de odds e multiplicador
	OddsScale uint64 = 10000

	// BpsDenominator é o denominador de basis points (10000 = 100%)
	BpsDenominator uint64 = 10000

	// ClaimWindowSeconds é a janela exclusiva do apostador após o
	// encerramento da rodada (24h)
	ClaimWindowSeconds int64 = 86400

	// BountyBps é a taxa do caçador de recompensa em bps (10%)
	BountyBps uint64 = 1000

	// MaxPayoutPerBet limita o pagamento de uma aposta individual
	MaxPayoutPerBet uint64 = 100000

	// MaxRoundPayouts limita o total pago por rodada
	MaxRoundPayouts uint64 = 1000000
)
