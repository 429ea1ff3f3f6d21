package settlement

// RevenueResult descreve o split de receita de uma rodada finalizada.
type RevenueResult struct {
	ProtocolProfit uint64
	SeasonShare    uint64
}

// FinalizeRevenue divide a liquidez residual da rodada entre o
// protocolo e o fundo de recompensas da temporada, uma única vez por
// rodada e somente pela authority do pool.
//
// O fundo da temporada recebe season_pool_share_bps sobre o total
// apostado pelos usuários antes da taxa, limitado ao que de fato
// sobrou; o protocolo fica com o restante. A receita só pode ser
// varrida depois que todos os ganhos reservados foram reivindicados.
// O share da temporada permanece dentro do pool (acumulador), sem
// transferência externa.
func FinalizeRevenue(pool *BettingPool, round *RoundAccounting, remainingLiquidity uint64, authority string) (RevenueResult, error) {
	if authority != pool.Authority {
		return RevenueResult{}, ErrNotPoolAuthority
	}
	if !round.Settled {
		return RevenueResult{}, ErrRoundNotSettled
	}
	if round.RevenueDistributed {
		return RevenueResult{}, ErrRevenueAlreadyDistributed
	}
	if round.TotalClaimed < round.TotalReservedForWinners {
		return RevenueResult{}, ErrRevenueDistributedBeforeClaims
	}

	var protocolProfit, seasonShare uint64
	if remainingLiquidity > 0 {
		totalUserBetsBeforeFee, err := AddChecked(round.TotalUserDeposits, round.ProtocolFeeCollected)
		if err != nil {
			return RevenueResult{}, err
		}

		seasonShare, err = MulDiv(totalUserBetsBeforeFee, pool.SeasonPoolShareBps, BpsDenominator)
		if err != nil {
			return RevenueResult{}, err
		}
		if seasonShare > remainingLiquidity {
			seasonShare = remainingLiquidity
		}
		protocolProfit = SubSaturating(remainingLiquidity, seasonShare)
	}

	if seasonShare > 0 {
		pool.SeasonRewardPool += seasonShare
	}
	round.ProtocolRevenueShare = protocolProfit
	round.SeasonRevenueShare = seasonShare
	round.RevenueDistributed = true

	return RevenueResult{ProtocolProfit: protocolProfit, SeasonShare: seasonShare}, nil
}
