package settlement

import (
	"errors"
	"testing"
)

func testFinalizeFixtures() (*BettingPool, *RoundAccounting) {
	pool := &BettingPool{
		PoolID:             testPool,
		Authority:          "authority",
		SeasonPoolShareBps: 200, // 2%
	}
	round := &RoundAccounting{
		RoundID:                 7,
		Settled:                 true,
		TotalUserDeposits:       90_000,
		ProtocolFeeCollected:    10_000,
		TotalReservedForWinners: 5_000,
		TotalClaimed:            5_000,
	}
	return pool, round
}

func TestFinalizeRevenueSplit(t *testing.T) {
	pool, round := testFinalizeFixtures()

	// season = floor(100000*200/10000) = 2000; protocol = resto
	res, err := FinalizeRevenue(pool, round, 50_000, "authority")
	if err != nil {
		t.Fatalf("FinalizeRevenue: %v", err)
	}
	if res.SeasonShare != 2000 {
		t.Fatalf("season share = %d, want 2000", res.SeasonShare)
	}
	if res.ProtocolProfit != 48_000 {
		t.Fatalf("protocol profit = %d, want 48000", res.ProtocolProfit)
	}
	if pool.SeasonRewardPool != 2000 {
		t.Fatalf("season reward pool = %d", pool.SeasonRewardPool)
	}
	if round.ProtocolRevenueShare != 48_000 || round.SeasonRevenueShare != 2000 {
		t.Fatal("round shares not recorded")
	}
	if !round.RevenueDistributed {
		t.Fatal("round must be frozen")
	}
}

func TestFinalizeRevenueSeasonShareCappedByLiquidity(t *testing.T) {
	pool, round := testFinalizeFixtures()

	// floor(100000*200/10000)=2000 mas só restam 1500
	res, err := FinalizeRevenue(pool, round, 1500, "authority")
	if err != nil {
		t.Fatalf("FinalizeRevenue: %v", err)
	}
	if res.SeasonShare != 1500 || res.ProtocolProfit != 0 {
		t.Fatalf("got season=%d protocol=%d, want 1500/0", res.SeasonShare, res.ProtocolProfit)
	}
}

func TestFinalizeRevenueZeroLiquidity(t *testing.T) {
	pool, round := testFinalizeFixtures()

	res, err := FinalizeRevenue(pool, round, 0, "authority")
	if err != nil {
		t.Fatalf("FinalizeRevenue: %v", err)
	}
	if res.SeasonShare != 0 || res.ProtocolProfit != 0 {
		t.Fatalf("expected zero split, got %+v", res)
	}
	if !round.RevenueDistributed {
		t.Fatal("round must still be frozen")
	}
	if pool.SeasonRewardPool != 0 {
		t.Fatal("season pool must stay untouched")
	}
}

func TestFinalizeRevenueBeforeAllClaims(t *testing.T) {
	pool, round := testFinalizeFixtures()
	round.TotalClaimed = 4_999

	if _, err := FinalizeRevenue(pool, round, 50_000, "authority"); !errors.Is(err, ErrRevenueDistributedBeforeClaims) {
		t.Fatalf("err = %v, want ErrRevenueDistributedBeforeClaims", err)
	}
	if round.RevenueDistributed || pool.SeasonRewardPool != 0 {
		t.Fatal("failed finalize must not mutate state")
	}
}

func TestFinalizeRevenueIsTerminal(t *testing.T) {
	pool, round := testFinalizeFixtures()

	if _, err := FinalizeRevenue(pool, round, 50_000, "authority"); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if _, err := FinalizeRevenue(pool, round, 50_000, "authority"); !errors.Is(err, ErrRevenueAlreadyDistributed) {
		t.Fatalf("err = %v, want ErrRevenueAlreadyDistributed", err)
	}
	if pool.SeasonRewardPool != 2000 {
		t.Fatal("second finalize must not accumulate again")
	}
}

func TestFinalizeRevenueRequiresSettledRound(t *testing.T) {
	pool, round := testFinalizeFixtures()
	round.Settled = false

	if _, err := FinalizeRevenue(pool, round, 50_000, "authority"); !errors.Is(err, ErrRoundNotSettled) {
		t.Fatalf("err = %v, want ErrRoundNotSettled", err)
	}
}

func TestFinalizeRevenueWrongAuthority(t *testing.T) {
	pool, round := testFinalizeFixtures()

	if _, err := FinalizeRevenue(pool, round, 50_000, "mallory"); !errors.Is(err, ErrNotPoolAuthority) {
		t.Fatalf("err = %v, want ErrNotPoolAuthority", err)
	}
	if round.RevenueDistributed {
		t.Fatal("unauthorized finalize must not mutate state")
	}
}
