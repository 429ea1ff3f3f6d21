package settlement

import "context"

// ClaimResult descreve o desfecho de uma tentativa de claim para
// observabilidade; nenhum outro efeito além das mutações descritas.
type ClaimResult struct {
	Won         bool
	BasePayout  uint64
	FinalPayout uint64
	BettorShare uint64
	Bounty      uint64
	BountyClaim bool
}

// ClaimSettlement orquestra a liquidação de uma aposta: elegibilidade
// do claimer, janela de claim, cálculo de pagamento, contabilidade da
// rodada e transferências. Uma chamada por tentativa; a serialização
// entre claims concorrentes da mesma rodada é responsabilidade do
// chamador (lock externo / transação).
type ClaimSettlement struct {
	clock  Clock
	ledger Ledger
}

func NewClaimSettlement(clock Clock, ledger Ledger) *ClaimSettlement {
	return &ClaimSettlement{clock: clock, ledger: ledger}
}

// Claim liquida a aposta. Toda pré-condição e todo passo aritmético é
// validado antes de qualquer mutação: em caso de erro as entidades
// ficam intactas (tudo-ou-nada), com uma exceção documentada — o
// ClaimDeadline é fixado na primeira tentativa e persiste mesmo se a
// tentativa falhar adiante.
func (c *ClaimSettlement) Claim(ctx context.Context, pool *BettingPool, round *RoundAccounting, bet *Bet, claimer string, minPayout uint64) (ClaimResult, error) {
	if !round.Settled {
		return ClaimResult{}, ErrRoundNotSettled
	}
	if bet.Claimed {
		return ClaimResult{}, ErrBetAlreadyClaimed
	}

	now := c.clock.Now()

	// Janela de claim: 24h após o encerramento da rodada. Fixado na
	// primeira tentativa (mesmo perdedora) e nunca recalculado: as
	// checagens abaixo leem sempre o valor cacheado.
	if bet.ClaimDeadline == 0 {
		bet.ClaimDeadline = round.RoundEndTime + ClaimWindowSeconds
	}

	isBettor := claimer == bet.Bettor
	isBountyClaim := now > bet.ClaimDeadline && !isBettor

	// Dentro da janela só o apostador pode liquidar
	if now <= bet.ClaimDeadline && !isBettor {
		return ClaimResult{}, ErrNotBettor
	}

	payout, err := ComputePayout(bet, round)
	if err != nil {
		return ClaimResult{}, err
	}

	// Proteção de slippage contra leitura defasada do estado da rodada
	if payout.FinalPayout < minPayout {
		return ClaimResult{}, ErrPayoutBelowMinimum
	}

	res := ClaimResult{
		Won:         payout.Won,
		BasePayout:  payout.BasePayout,
		FinalPayout: payout.FinalPayout,
		BountyClaim: isBountyClaim,
	}

	if !payout.Won || payout.FinalPayout == 0 {
		// Aposta perdedora é liquidada com pagamento zero, sem
		// transferência
		bet.Claimed = true
		bet.Settled = true
		return res, nil
	}

	// Teto de pagamento por rodada
	newPaidOut, err := AddChecked(round.TotalPaidOut, payout.FinalPayout)
	if err != nil {
		return ClaimResult{}, err
	}
	if newPaidOut > MaxRoundPayouts {
		return ClaimResult{}, ErrRoundPayoutLimitReached
	}
	newClaimed, err := AddChecked(round.TotalClaimed, payout.FinalPayout)
	if err != nil {
		return ClaimResult{}, err
	}

	// Split do bounty: 10% para o claimer fora da janela, resto para o
	// apostador
	bettorShare := payout.FinalPayout
	var bounty uint64
	if isBountyClaim {
		bounty, err = MulDiv(payout.FinalPayout, BountyBps, BpsDenominator)
		if err != nil {
			return ClaimResult{}, err
		}
		bettorShare = SubSaturating(payout.FinalPayout, bounty)
	}

	signer := NewPoolSigner(pool.PoolID)
	balance, err := c.ledger.Balance(ctx, signer.Account())
	if err != nil {
		return ClaimResult{}, err
	}
	if balance < payout.FinalPayout {
		return ClaimResult{}, ErrInsufficientProtocolLiquidity
	}

	// Checks concluídos; aplica mutações e transferências
	bet.Claimed = true
	bet.Settled = true
	round.TotalClaimed = newClaimed
	round.TotalPaidOut = newPaidOut
	if isBountyClaim {
		bet.BountyClaimer = claimer
	}

	if err := c.ledger.Transfer(ctx, signer, BettorAccount(pool.PoolID, bet.Bettor), bettorShare); err != nil {
		return ClaimResult{}, err
	}
	if bounty > 0 {
		if err := c.ledger.Transfer(ctx, signer, BettorAccount(pool.PoolID, claimer), bounty); err != nil {
			return ClaimResult{}, err
		}
	}

	res.BettorShare = bettorShare
	res.Bounty = bounty
	return res, nil
}
