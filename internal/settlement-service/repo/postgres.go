package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/parlay-settlement-poc/internal/settlement"
)

// Postgres implementa a persistência do núcleo de liquidação.
// Cada operação de escrita roda numa transação com lock pessimista
// (FOR UPDATE) nas linhas tocadas: claims concorrentes da mesma rodada
// são serializados pelo banco, sem lost update nos totais.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var ErrNotFound = errors.New("not found")

// Claim executa uma tentativa de liquidação de aposta ponta a ponta:
// carrega as entidades sob lock, roda o núcleo e persiste mutações e
// transferências na mesma transação. Erro => rollback total.
func (p *Postgres) Claim(ctx context.Context, clock settlement.Clock, poolID string, betID uint64, claimer string, minPayout uint64) (settlement.ClaimResult, *settlement.Bet, error) {
	// Fixa o claim_deadline antes da transação principal: o cache de
	// primeira tentativa persiste mesmo que o claim abaixo falhe.
	// Idempotente (só escreve enquanto claim_deadline = 0).
	if _, err := p.db.ExecContext(ctx, `
		UPDATE bets b SET claim_deadline = r.round_end_time + $1
		FROM rounds r
		WHERE b.pool_id=$2 AND b.bet_id=$3
		  AND r.pool_id=b.pool_id AND r.round_id=b.round_id
		  AND r.settled AND NOT b.claimed AND b.claim_deadline = 0`,
		settlement.ClaimWindowSeconds, poolID, betID); err != nil {
		return settlement.ClaimResult{}, nil, fmt.Errorf("fix claim deadline: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return settlement.ClaimResult{}, nil, err
	}
	defer tx.Rollback()

	pool, err := p.poolTx(ctx, tx, poolID, false)
	if err != nil {
		return settlement.ClaimResult{}, nil, err
	}
	bet, err := p.betTx(ctx, tx, poolID, betID)
	if err != nil {
		return settlement.ClaimResult{}, nil, err
	}
	round, err := p.roundTx(ctx, tx, poolID, bet.RoundID)
	if err != nil {
		return settlement.ClaimResult{}, nil, err
	}

	ledger := &txLedger{tx: tx, poolID: poolID, ref: fmt.Sprintf("claim:%d", betID)}
	cs := settlement.NewClaimSettlement(clock, ledger)

	res, err := cs.Claim(ctx, pool, round, bet, claimer, minPayout)
	if err != nil {
		return settlement.ClaimResult{}, nil, err
	}

	var bountyClaimer sql.NullString
	if bet.BountyClaimer != "" {
		bountyClaimer = sql.NullString{String: bet.BountyClaimer, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE bets SET claimed=$1, settled=$2, claim_deadline=$3, bounty_claimer=$4
		WHERE pool_id=$5 AND bet_id=$6`,
		bet.Claimed, bet.Settled, bet.ClaimDeadline, bountyClaimer, poolID, betID); err != nil {
		return settlement.ClaimResult{}, nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE rounds SET total_claimed=$1, total_paid_out=$2
		WHERE pool_id=$3 AND round_id=$4`,
		int64(round.TotalClaimed), int64(round.TotalPaidOut), poolID, round.RoundID); err != nil {
		return settlement.ClaimResult{}, nil, err
	}

	if err := tx.Commit(); err != nil {
		return settlement.ClaimResult{}, nil, err
	}
	return res, bet, nil
}

// FinalizeRevenue roda o split de receita da rodada sob a mesma
// disciplina transacional do claim.
func (p *Postgres) FinalizeRevenue(ctx context.Context, poolID string, roundID uint64, authority string) (settlement.RevenueResult, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return settlement.RevenueResult{}, err
	}
	defer tx.Rollback()

	pool, err := p.poolTx(ctx, tx, poolID, true)
	if err != nil {
		return settlement.RevenueResult{}, err
	}
	round, err := p.roundTx(ctx, tx, poolID, roundID)
	if err != nil {
		return settlement.RevenueResult{}, err
	}

	// Liquidez residual = saldo corrente da conta do pool
	ledger := &txLedger{tx: tx, poolID: poolID}
	remaining, err := ledger.Balance(ctx, settlement.PoolAccount(poolID))
	if err != nil {
		return settlement.RevenueResult{}, err
	}

	res, err := settlement.FinalizeRevenue(pool, round, remaining, authority)
	if err != nil {
		return settlement.RevenueResult{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE pools SET season_reward_pool=$1 WHERE pool_id=$2`,
		int64(pool.SeasonRewardPool), poolID); err != nil {
		return settlement.RevenueResult{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE rounds SET revenue_distributed=TRUE, protocol_revenue_share=$1, season_revenue_share=$2
		WHERE pool_id=$3 AND round_id=$4`,
		int64(round.ProtocolRevenueShare), int64(round.SeasonRevenueShare), poolID, roundID); err != nil {
		return settlement.RevenueResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return settlement.RevenueResult{}, err
	}
	return res, nil
}

// GetBet carrega uma aposta sem lock (leituras da API).
func (p *Postgres) GetBet(ctx context.Context, poolID string, betID uint64) (*settlement.Bet, error) {
	return p.scanBet(p.db.QueryRowContext(ctx, `
		SELECT bet_id, bettor, round_id, predictions, locked_multiplier,
		       claimed, settled, claim_deadline, bounty_claimer
		FROM bets WHERE pool_id=$1 AND bet_id=$2`, poolID, betID))
}

// GetRound carrega a contabilidade da rodada sem lock.
func (p *Postgres) GetRound(ctx context.Context, poolID string, roundID uint64) (*settlement.RoundAccounting, error) {
	return p.scanRound(p.db.QueryRowContext(ctx, roundQuery+` WHERE pool_id=$1 AND round_id=$2`, poolID, roundID))
}

// GetPool carrega o pool sem lock.
func (p *Postgres) GetPool(ctx context.Context, poolID string) (*settlement.BettingPool, error) {
	return scanPool(p.db.QueryRowContext(ctx, poolQuery+` WHERE pool_id=$1`, poolID), poolID)
}

// ListUnclaimedBets lista as apostas ainda não liquidadas de uma
// rodada, para o sweeper varrer após a janela de claim.
func (p *Postgres) ListUnclaimedBets(ctx context.Context, poolID string, roundID uint64) ([]BetRef, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT bet_id, bettor FROM bets
		WHERE pool_id=$1 AND round_id=$2 AND NOT claimed
		ORDER BY bet_id`, poolID, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []BetRef
	for rows.Next() {
		var ref BetRef
		var id int64
		if err := rows.Scan(&id, &ref.Bettor); err != nil {
			return nil, err
		}
		ref.BetID = uint64(id)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

const poolQuery = `SELECT authority, season_pool_share_bps, season_reward_pool FROM pools`

const roundQuery = `
	SELECT round_id, settled, round_end_time, match_results, locked_odds,
	       total_user_deposits, protocol_fee_collected, total_bet_volume,
	       protocol_seed_amount, total_reserved_for_winners, total_claimed,
	       total_paid_out, revenue_distributed, protocol_revenue_share,
	       season_revenue_share
	FROM rounds`

type rowScanner interface {
	Scan(dest ...any) error
}

func (p *Postgres) poolTx(ctx context.Context, tx *sql.Tx, poolID string, forUpdate bool) (*settlement.BettingPool, error) {
	q := poolQuery + ` WHERE pool_id=$1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	return scanPool(tx.QueryRowContext(ctx, q, poolID), poolID)
}

func scanPool(row rowScanner, poolID string) (*settlement.BettingPool, error) {
	var pool settlement.BettingPool
	var shareBps, rewardPool int64
	if err := row.Scan(&pool.Authority, &shareBps, &rewardPool); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	pool.PoolID = poolID
	pool.SeasonPoolShareBps = uint64(shareBps)
	pool.SeasonRewardPool = uint64(rewardPool)
	return &pool, nil
}

func (p *Postgres) betTx(ctx context.Context, tx *sql.Tx, poolID string, betID uint64) (*settlement.Bet, error) {
	return p.scanBet(tx.QueryRowContext(ctx, `
		SELECT bet_id, bettor, round_id, predictions, locked_multiplier,
		       claimed, settled, claim_deadline, bounty_claimer
		FROM bets WHERE pool_id=$1 AND bet_id=$2 FOR UPDATE`, poolID, betID))
}

func (p *Postgres) scanBet(row rowScanner) (*settlement.Bet, error) {
	var bet settlement.Bet
	var id, roundID, multiplier int64
	var predictions []byte
	var bountyClaimer sql.NullString
	err := row.Scan(&id, &bet.Bettor, &roundID, &predictions, &multiplier,
		&bet.Claimed, &bet.Settled, &bet.ClaimDeadline, &bountyClaimer)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	bet.ID = uint64(id)
	bet.RoundID = uint64(roundID)
	bet.LockedMultiplier = uint64(multiplier)
	bet.BountyClaimer = bountyClaimer.String
	if bet.Predictions, err = unmarshalPredictions(predictions); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	return &bet, nil
}

func (p *Postgres) roundTx(ctx context.Context, tx *sql.Tx, poolID string, roundID uint64) (*settlement.RoundAccounting, error) {
	return p.scanRound(tx.QueryRowContext(ctx, roundQuery+` WHERE pool_id=$1 AND round_id=$2 FOR UPDATE`, poolID, roundID))
}

func (p *Postgres) scanRound(row rowScanner) (*settlement.RoundAccounting, error) {
	var round settlement.RoundAccounting
	var id int64
	var results, odds []byte
	var deposits, fee, volume, seed, reserved, claimed, paid, protShare, seasonShare int64
	err := row.Scan(&id, &round.Settled, &round.RoundEndTime, &results, &odds,
		&deposits, &fee, &volume, &seed, &reserved, &claimed, &paid,
		&round.RevenueDistributed, &protShare, &seasonShare)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	round.RoundID = uint64(id)
	round.TotalUserDeposits = uint64(deposits)
	round.ProtocolFeeCollected = uint64(fee)
	round.TotalBetVolume = uint64(volume)
	round.ProtocolSeedAmount = uint64(seed)
	round.TotalReservedForWinners = uint64(reserved)
	round.TotalClaimed = uint64(claimed)
	round.TotalPaidOut = uint64(paid)
	round.ProtocolRevenueShare = uint64(protShare)
	round.SeasonRevenueShare = uint64(seasonShare)
	if round.MatchResults, err = unmarshalOutcomes(results); err != nil {
		return nil, fmt.Errorf("decode match results: %w", err)
	}
	if round.LockedOdds, err = unmarshalLockedOdds(odds); err != nil {
		return nil, fmt.Errorf("decode locked odds: %w", err)
	}
	return &round, nil
}
