package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/parlay-settlement-poc/internal/settlement"
	"github.com/radieske/parlay-settlement-poc/internal/settlement-service/dto"
	"github.com/radieske/parlay-settlement-poc/pkg/contracts/events"
)

type stubRepo struct {
	claimRes settlement.ClaimResult
	claimErr error
	bet      *settlement.Bet
	round    *settlement.RoundAccounting
}

func (s *stubRepo) Claim(_ context.Context, _ settlement.Clock, _ string, betID uint64, _ string, _ uint64) (settlement.ClaimResult, *settlement.Bet, error) {
	if s.claimErr != nil {
		return settlement.ClaimResult{}, nil, s.claimErr
	}
	return s.claimRes, s.bet, nil
}

func (s *stubRepo) FinalizeRevenue(context.Context, string, uint64, string) (settlement.RevenueResult, error) {
	return settlement.RevenueResult{ProtocolProfit: 48_000, SeasonShare: 2000}, nil
}

func (s *stubRepo) GetBet(context.Context, string, uint64) (*settlement.Bet, error) {
	return s.bet, nil
}

func (s *stubRepo) GetRound(context.Context, string, uint64) (*settlement.RoundAccounting, error) {
	return s.round, nil
}

type stubPublisher struct {
	claims   []events.ClaimSettled
	revenues []events.RevenueFinalized
}

func (p *stubPublisher) PublishClaimSettled(_ context.Context, e events.ClaimSettled) error {
	p.claims = append(p.claims, e)
	return nil
}

func (p *stubPublisher) PublishRevenueFinalized(_ context.Context, e events.RevenueFinalized) error {
	p.revenues = append(p.revenues, e)
	return nil
}

func testServer(r *stubRepo) (*Server, *stubPublisher) {
	publ := &stubPublisher{}
	srv := NewServer(zap.NewNop(), r, nil, settlement.SystemClock{}, "main", publ)
	return srv, publ
}

func stubEntities() (*settlement.Bet, *settlement.RoundAccounting) {
	round := &settlement.RoundAccounting{
		RoundID:      7,
		Settled:      true,
		RoundEndTime: 1_700_000_000,
		MatchResults: []settlement.MatchOutcome{settlement.OutcomeHomeWin},
		LockedOdds:   []settlement.LockedOdds{{Locked: true, HomeOdds: 20000}},
	}
	bet := &settlement.Bet{
		ID:      42,
		Bettor:  "alice",
		RoundID: 7,
		Predictions: []settlement.Prediction{
			{MatchIndex: 0, PredictedOutcome: 1, AmountInPool: 100},
		},
		LockedMultiplier: 10000,
	}
	return bet, round
}

func TestClaimEndpoint(t *testing.T) {
	bet, round := stubEntities()
	repo := &stubRepo{
		claimRes: settlement.ClaimResult{Won: true, BasePayout: 200, FinalPayout: 200, BettorShare: 200},
		bet:      bet,
		round:    round,
	}
	srv, publ := testServer(repo)

	body, _ := json.Marshal(dto.ClaimRequest{BetID: 42, Claimer: "alice"})
	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp dto.ClaimResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Won || resp.FinalPayout != 200 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(publ.claims) != 1 || publ.claims[0].BetID != 42 {
		t.Fatalf("claim event not published: %+v", publ.claims)
	}
}

func TestClaimEndpointErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{settlement.ErrBetAlreadyClaimed, http.StatusConflict},
		{settlement.ErrNotBettor, http.StatusForbidden},
		{settlement.ErrRoundNotSettled, http.StatusConflict},
		{settlement.ErrPayoutBelowMinimum, http.StatusConflict},
		{settlement.ErrOddsNotLocked, http.StatusUnprocessableEntity},
		{settlement.ErrCalculationOverflow, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		srv, publ := testServer(&stubRepo{claimErr: tc.err})

		body, _ := json.Marshal(dto.ClaimRequest{BetID: 42, Claimer: "alice"})
		req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.want)
		}
		if len(publ.claims) != 0 {
			t.Fatalf("%v: failed claim must not publish", tc.err)
		}
	}
}

func TestPayoutPreviewEndpoint(t *testing.T) {
	bet, round := stubEntities()
	srv, _ := testServer(&stubRepo{bet: bet, round: round})

	req := httptest.NewRequest(http.MethodGet, "/bets/42/payout", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp dto.PayoutPreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// 100 * 2.0, multiplicador 1.0
	if !resp.Won || resp.FinalPayout != 200 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestFinalizeEndpoint(t *testing.T) {
	srv, publ := testServer(&stubRepo{})

	body, _ := json.Marshal(dto.FinalizeRequest{RoundID: 7, Authority: "authority"})
	req := httptest.NewRequest(http.MethodPost, "/rounds/finalize", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp dto.FinalizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SeasonShare != 2000 || resp.ProtocolProfit != 48_000 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(publ.revenues) != 1 {
		t.Fatal("revenue event not published")
	}
}
