package settlement

import (
	"math"
	"testing"
)

// Rodada padrão dos testes: 3 partidas com odds travadas.
func testRound() *RoundAccounting {
	return &RoundAccounting{
		RoundID:      7,
		Settled:      true,
		RoundEndTime: 1_700_000_000,
		MatchResults: []MatchOutcome{OutcomeHomeWin, OutcomeDraw, OutcomeAwayWin},
		LockedOdds: []LockedOdds{
			{Locked: true, HomeOdds: 20000, AwayOdds: 30000, DrawOdds: 25000},
			{Locked: true, HomeOdds: 18000, AwayOdds: 35000, DrawOdds: 15000},
			{Locked: true, HomeOdds: 40000, AwayOdds: 12000, DrawOdds: 28000},
		},
	}
}

func TestComputePayoutAllLegsCorrect(t *testing.T) {
	// Cenário de referência: duas pernas de 100 a 2.0x e 1.5x,
	// multiplicador 1.2x => 350 base, 420 final
	round := testRound()
	round.MatchResults = []MatchOutcome{OutcomeHomeWin, OutcomeDraw}
	round.LockedOdds = []LockedOdds{
		{Locked: true, HomeOdds: 20000},
		{Locked: true, DrawOdds: 15000},
	}
	bet := &Bet{
		ID:      1,
		RoundID: 7,
		Predictions: []Prediction{
			{MatchIndex: 0, PredictedOutcome: 1, AmountInPool: 100},
			{MatchIndex: 1, PredictedOutcome: 3, AmountInPool: 100},
		},
		LockedMultiplier: 12000,
	}

	res, err := ComputePayout(bet, round)
	if err != nil {
		t.Fatalf("ComputePayout: %v", err)
	}
	if !res.Won {
		t.Fatal("expected won")
	}
	if res.BasePayout != 350 {
		t.Fatalf("base payout = %d, want 350", res.BasePayout)
	}
	if res.FinalPayout != 420 {
		t.Fatalf("final payout = %d, want 420", res.FinalPayout)
	}
}

func TestComputePayoutSingleWrongLegVoidsParlay(t *testing.T) {
	round := testRound()
	bet := &Bet{
		Predictions: []Prediction{
			{MatchIndex: 0, PredictedOutcome: 1, AmountInPool: 100}, // correta
			{MatchIndex: 1, PredictedOutcome: 1, AmountInPool: 100}, // errada (resultado: draw)
			{MatchIndex: 2, PredictedOutcome: 2, AmountInPool: 100}, // correta
		},
		LockedMultiplier: 12000,
	}

	res, err := ComputePayout(bet, round)
	if err != nil {
		t.Fatalf("ComputePayout: %v", err)
	}
	if res.Won {
		t.Fatal("expected lost parlay")
	}
	if res.BasePayout != 0 || res.FinalPayout != 0 {
		t.Fatalf("expected zero payouts, got base=%d final=%d", res.BasePayout, res.FinalPayout)
	}
}

func TestComputePayoutUnlockedOdds(t *testing.T) {
	round := testRound()
	round.LockedOdds[0].Locked = false
	bet := &Bet{
		Predictions:      []Prediction{{MatchIndex: 0, PredictedOutcome: 1, AmountInPool: 100}},
		LockedMultiplier: 10000,
	}

	if _, err := ComputePayout(bet, round); err != ErrOddsNotLocked {
		t.Fatalf("err = %v, want ErrOddsNotLocked", err)
	}
}

func TestComputePayoutCapPerBet(t *testing.T) {
	round := testRound()
	bet := &Bet{
		Predictions:      []Prediction{{MatchIndex: 0, PredictedOutcome: 1, AmountInPool: 200_000}},
		LockedMultiplier: 20000,
	}

	res, err := ComputePayout(bet, round)
	if err != nil {
		t.Fatalf("ComputePayout: %v", err)
	}
	// 200000*2.0=400000 base, *2.0=800000, capado em MaxPayoutPerBet
	if res.FinalPayout != MaxPayoutPerBet {
		t.Fatalf("final payout = %d, want cap %d", res.FinalPayout, MaxPayoutPerBet)
	}
	if res.BasePayout != 400_000 {
		t.Fatalf("base payout = %d, want 400000", res.BasePayout)
	}
}

func TestComputePayoutTruncatingDivision(t *testing.T) {
	round := testRound()
	round.LockedOdds[0] = LockedOdds{Locked: true, HomeOdds: 15000}
	bet := &Bet{
		// 7 * 1.5 = 10.5 => trunca para 10
		Predictions:      []Prediction{{MatchIndex: 0, PredictedOutcome: 1, AmountInPool: 7}},
		LockedMultiplier: 10000,
	}

	res, err := ComputePayout(bet, round)
	if err != nil {
		t.Fatalf("ComputePayout: %v", err)
	}
	if res.BasePayout != 10 || res.FinalPayout != 10 {
		t.Fatalf("got base=%d final=%d, want 10/10", res.BasePayout, res.FinalPayout)
	}
}

func TestComputePayoutOverflow(t *testing.T) {
	round := testRound()
	round.LockedOdds[0] = LockedOdds{Locked: true, HomeOdds: math.MaxUint64}
	bet := &Bet{
		Predictions:      []Prediction{{MatchIndex: 0, PredictedOutcome: 1, AmountInPool: math.MaxUint64}},
		LockedMultiplier: 10000,
	}

	if _, err := ComputePayout(bet, round); err != ErrCalculationOverflow {
		t.Fatalf("err = %v, want ErrCalculationOverflow", err)
	}
}

func TestComputePayoutPendingPredictionNeverWins(t *testing.T) {
	round := testRound()
	bet := &Bet{
		// valor de outcome desconhecido decodifica para Pending
		Predictions:      []Prediction{{MatchIndex: 0, PredictedOutcome: 9, AmountInPool: 100}},
		LockedMultiplier: 10000,
	}

	res, err := ComputePayout(bet, round)
	if err != nil {
		t.Fatalf("ComputePayout: %v", err)
	}
	if res.Won {
		t.Fatal("pending prediction must not win")
	}
}
