package settlement

// PayoutResult é o resultado puro do cálculo de pagamento de uma
// aposta, sem efeito colateral.
type PayoutResult struct {
	Won         bool
	BasePayout  uint64
	FinalPayout uint64
}

// ComputePayout avalia a aposta contra os resultados da rodada.
//
// Cada perna paga amount * odd / OddsScale (truncado). Uma única perna
// errada anula o parlay inteiro: (won=false, 0, 0), sem crédito
// parcial. Se todas acertam, soma-se os pagamentos por perna e
// aplica-se um único multiplicador travado sobre o total, com teto
// MaxPayoutPerBet. O modelo é aposta-fixa-com-bônus, não parlay
// composto de odds multiplicadas; manter a fórmula como está.
func ComputePayout(bet *Bet, round *RoundAccounting) (PayoutResult, error) {
	var base uint64

	for _, pred := range bet.Predictions {
		result := round.MatchResults[pred.MatchIndex]
		locked := round.LockedOdds[pred.MatchIndex]

		predicted := DecodeOutcome(pred.PredictedOutcome)
		if result != predicted {
			return PayoutResult{Won: false}, nil
		}

		if !locked.Locked {
			return PayoutResult{}, ErrOddsNotLocked
		}

		legPayout, err := MulDiv(pred.AmountInPool, locked.OddsFor(predicted), OddsScale)
		if err != nil {
			return PayoutResult{}, err
		}
		base, err = AddChecked(base, legPayout)
		if err != nil {
			return PayoutResult{}, err
		}
	}

	final, err := MulDiv(base, bet.LockedMultiplier, OddsScale)
	if err != nil {
		return PayoutResult{}, err
	}
	if final > MaxPayoutPerBet {
		final = MaxPayoutPerBet
	}

	return PayoutResult{Won: true, BasePayout: base, FinalPayout: final}, nil
}
