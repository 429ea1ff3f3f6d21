package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/parlay-settlement-poc/internal/settlement"
	"github.com/radieske/parlay-settlement-poc/internal/settlement-service/cache"
	"github.com/radieske/parlay-settlement-poc/internal/settlement-service/dto"
	"github.com/radieske/parlay-settlement-poc/internal/settlement-service/metrics"
	"github.com/radieske/parlay-settlement-poc/internal/settlement-service/repo"
	"github.com/radieske/parlay-settlement-poc/pkg/contracts/events"
)

// Repo define as operações de persistência usadas pelos handlers
type Repo interface {
	Claim(ctx context.Context, clock settlement.Clock, poolID string, betID uint64, claimer string, minPayout uint64) (settlement.ClaimResult, *settlement.Bet, error)
	FinalizeRevenue(ctx context.Context, poolID string, roundID uint64, authority string) (settlement.RevenueResult, error)
	GetBet(ctx context.Context, poolID string, betID uint64) (*settlement.Bet, error)
	GetRound(ctx context.Context, poolID string, roundID uint64) (*settlement.RoundAccounting, error)
}

// Server expõe a API de liquidação: claims, finalização de receita e
// leituras de aposta/rodada.
type Server struct {
	log    *zap.Logger
	repo   Repo
	cache  *cache.RoundCache
	clock  settlement.Clock
	poolID string
	publ   interface {
		PublishClaimSettled(context.Context, events.ClaimSettled) error
		PublishRevenueFinalized(context.Context, events.RevenueFinalized) error
	}
}

func NewServer(log *zap.Logger, r Repo, c *cache.RoundCache, clock settlement.Clock, poolID string, p interface {
	PublishClaimSettled(context.Context, events.ClaimSettled) error
	PublishRevenueFinalized(context.Context, events.RevenueFinalized) error
}) *Server {
	return &Server{log: log, repo: r, cache: c, clock: clock, poolID: poolID, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/claims", s.claim)             // POST
	mux.HandleFunc("/rounds/finalize", s.finalize) // POST
	mux.HandleFunc("/rounds/", s.getRound)         // GET /rounds/{id}
	mux.HandleFunc("/bets/", s.getBet)             // GET /bets/{id} | /bets/{id}/payout
	return mux
}

// claim executa claim_winnings: liquida a aposta, publica o evento e
// atualiza o cache da rodada.
func (s *Server) claim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.BetID == 0 || req.Claimer == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	res, bet, err := s.repo.Claim(r.Context(), s.clock, s.poolID, req.BetID, req.Claimer, req.MinPayout)
	if err != nil {
		metrics.ClaimsRejected.WithLabelValues(reasonLabel(err)).Inc()
		httpError(w, err)
		return
	}

	metrics.ClaimsSettled.WithLabelValues(outcomeLabel(res)).Inc()
	metrics.PayoutsTotal.Add(float64(res.FinalPayout))

	_ = s.publ.PublishClaimSettled(r.Context(), events.ClaimSettled{
		PoolID:      s.poolID,
		BetID:       req.BetID,
		RoundID:     bet.RoundID,
		Bettor:      bet.Bettor,
		Claimer:     req.Claimer,
		Won:         res.Won,
		BasePayout:  res.BasePayout,
		FinalPayout: res.FinalPayout,
		BettorShare: res.BettorShare,
		Bounty:      res.Bounty,
		BountyClaim: res.BountyClaim,
	})
	s.refreshRoundCache(r.Context(), bet.RoundID)

	writeJSON(w, dto.ClaimResponse{
		BetID:       req.BetID,
		Won:         res.Won,
		BasePayout:  res.BasePayout,
		FinalPayout: res.FinalPayout,
		BettorShare: res.BettorShare,
		Bounty:      res.Bounty,
		BountyClaim: res.BountyClaim,
	})
}

// finalize executa finalize_round_revenue pela authority do pool.
func (s *Server) finalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.RoundID == 0 || req.Authority == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	res, err := s.repo.FinalizeRevenue(r.Context(), s.poolID, req.RoundID, req.Authority)
	if err != nil {
		httpError(w, err)
		return
	}

	metrics.RoundsFinalized.Inc()
	_ = s.publ.PublishRevenueFinalized(r.Context(), events.RevenueFinalized{
		PoolID:         s.poolID,
		RoundID:        req.RoundID,
		ProtocolProfit: res.ProtocolProfit,
		SeasonShare:    res.SeasonShare,
	})
	s.refreshRoundCache(r.Context(), req.RoundID)

	writeJSON(w, dto.FinalizeResponse{
		RoundID:        req.RoundID,
		ProtocolProfit: res.ProtocolProfit,
		SeasonShare:    res.SeasonShare,
	})
}

// getBet trata GET /bets/{id} e GET /bets/{id}/payout
func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/bets/")
	preview := false
	if rest, ok := strings.CutSuffix(path, "/payout"); ok {
		path = rest
		preview = true
	}
	betID, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		http.Error(w, "betId required", http.StatusBadRequest)
		return
	}

	bet, err := s.repo.GetBet(r.Context(), s.poolID, betID)
	if err != nil {
		httpError(w, err)
		return
	}

	if !preview {
		writeJSON(w, dto.BetStatusResponse{
			BetID:         bet.ID,
			RoundID:       bet.RoundID,
			Bettor:        bet.Bettor,
			Claimed:       bet.Claimed,
			Settled:       bet.Settled,
			ClaimDeadline: bet.ClaimDeadline,
			BountyClaimer: bet.BountyClaimer,
		})
		return
	}

	// Prévia de pagamento: cálculo puro, sem mutação; serve pro
	// cliente escolher min_payout
	round, err := s.repo.GetRound(r.Context(), s.poolID, bet.RoundID)
	if err != nil {
		httpError(w, err)
		return
	}
	payout, err := settlement.ComputePayout(bet, round)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, dto.PayoutPreviewResponse{
		BetID:       bet.ID,
		Won:         payout.Won,
		BasePayout:  payout.BasePayout,
		FinalPayout: payout.FinalPayout,
	})
}

// getRound retorna o snapshot contábil da rodada, cache primeiro
func (s *Server) getRound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/rounds/")
	roundID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		http.Error(w, "roundId required", http.StatusBadRequest)
		return
	}

	if s.cache != nil {
		if snap, ok, cerr := s.cache.GetRound(r.Context(), s.poolID, roundID); cerr == nil && ok {
			writeJSON(w, snap)
			return
		}
	}

	round, err := s.repo.GetRound(r.Context(), s.poolID, roundID)
	if err != nil {
		httpError(w, err)
		return
	}
	snap := roundSnapshot(round)
	if s.cache != nil {
		_ = s.cache.SetRound(r.Context(), s.poolID, snap)
	}
	writeJSON(w, snap)
}

// refreshRoundCache recarrega a rodada e atualiza o snapshot cacheado
func (s *Server) refreshRoundCache(ctx context.Context, roundID uint64) {
	if s.cache == nil {
		return
	}
	round, err := s.repo.GetRound(ctx, s.poolID, roundID)
	if err != nil {
		s.log.Warn("round cache refresh", zap.Uint64("roundId", roundID), zap.Error(err))
		return
	}
	if err := s.cache.SetRound(ctx, s.poolID, roundSnapshot(round)); err != nil {
		s.log.Warn("round cache set", zap.Uint64("roundId", roundID), zap.Error(err))
	}
}

func roundSnapshot(round *settlement.RoundAccounting) dto.RoundResponse {
	return dto.RoundResponse{
		RoundID:                 round.RoundID,
		Settled:                 round.Settled,
		RoundEndTime:            round.RoundEndTime,
		TotalUserDeposits:       round.TotalUserDeposits,
		ProtocolFeeCollected:    round.ProtocolFeeCollected,
		TotalBetVolume:          round.TotalBetVolume,
		TotalReservedForWinners: round.TotalReservedForWinners,
		TotalClaimed:            round.TotalClaimed,
		TotalPaidOut:            round.TotalPaidOut,
		RevenueDistributed:      round.RevenueDistributed,
		ProtocolRevenueShare:    round.ProtocolRevenueShare,
		SeasonRevenueShare:      round.SeasonRevenueShare,
	}
}

// httpError mapeia os erros do núcleo para status específicos: o
// cliente distingue "tente depois" de "nunca".
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, settlement.ErrNotBettor),
		errors.Is(err, settlement.ErrNotPoolAuthority):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, settlement.ErrRoundNotSettled),
		errors.Is(err, settlement.ErrBetAlreadyClaimed),
		errors.Is(err, settlement.ErrPayoutBelowMinimum),
		errors.Is(err, settlement.ErrRoundPayoutLimitReached),
		errors.Is(err, settlement.ErrInsufficientProtocolLiquidity),
		errors.Is(err, settlement.ErrRevenueAlreadyDistributed),
		errors.Is(err, settlement.ErrRevenueDistributedBeforeClaims):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, settlement.ErrOddsNotLocked),
		errors.Is(err, settlement.ErrCalculationOverflow):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, settlement.ErrRoundNotSettled):
		return "round_not_settled"
	case errors.Is(err, settlement.ErrBetAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, settlement.ErrNotBettor):
		return "not_bettor"
	case errors.Is(err, settlement.ErrPayoutBelowMinimum):
		return "below_minimum"
	case errors.Is(err, settlement.ErrOddsNotLocked):
		return "odds_not_locked"
	case errors.Is(err, settlement.ErrCalculationOverflow):
		return "overflow"
	case errors.Is(err, settlement.ErrRoundPayoutLimitReached):
		return "round_limit"
	case errors.Is(err, settlement.ErrInsufficientProtocolLiquidity):
		return "insufficient_liquidity"
	case errors.Is(err, repo.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func outcomeLabel(res settlement.ClaimResult) string {
	switch {
	case res.BountyClaim && res.Won:
		return "bounty"
	case res.Won:
		return "won"
	default:
		return "lost"
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
