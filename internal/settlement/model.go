package settlement

import (
	"context"
	"fmt"
	"time"
)

// MatchOutcome é o resultado de uma partida dentro da rodada.
type MatchOutcome uint8

const (
	OutcomePending MatchOutcome = 0
	OutcomeHomeWin MatchOutcome = 1
	OutcomeAwayWin MatchOutcome = 2
	OutcomeDraw    MatchOutcome = 3
)

// DecodeOutcome converte o valor persistido da predição para o enum.
// Valores desconhecidos viram Pending (nunca casam com resultado real).
func DecodeOutcome(v uint8) MatchOutcome {
	switch v {
	case 1:
		return OutcomeHomeWin
	case 2:
		return OutcomeAwayWin
	case 3:
		return OutcomeDraw
	default:
		return OutcomePending
	}
}

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeHomeWin:
		return "HOME_WIN"
	case OutcomeAwayWin:
		return "AWAY_WIN"
	case OutcomeDraw:
		return "DRAW"
	default:
		return "PENDING"
	}
}

// Prediction é uma perna da aposta parlay.
type Prediction struct {
	MatchIndex       uint16 `json:"match_index"`
	PredictedOutcome uint8  `json:"predicted_outcome"`
	AmountInPool     uint64 `json:"amount_in_pool"`
}

// LockedOdds guarda as odds congeladas de uma partida no momento da
// aposta. Enquanto locked=false nenhum cálculo de pagamento é aceito.
type LockedOdds struct {
	Locked   bool   `json:"locked"`
	HomeOdds uint64 `json:"home_odds"`
	AwayOdds uint64 `json:"away_odds"`
	DrawOdds uint64 `json:"draw_odds"`
}

// OddsFor retorna a odd fixed-point do resultado previsto.
func (lo LockedOdds) OddsFor(outcome MatchOutcome) uint64 {
	switch outcome {
	case OutcomeHomeWin:
		return lo.HomeOdds
	case OutcomeAwayWin:
		return lo.AwayOdds
	case OutcomeDraw:
		return lo.DrawOdds
	default:
		return 0
	}
}

// Bet é uma aposta parlay registrada na criação (fora deste núcleo) e
// liquidada exatamente uma vez pelo ClaimSettlement.
type Bet struct {
	ID               uint64
	Bettor           string
	RoundID          uint64
	Predictions      []Prediction
	LockedMultiplier uint64
	Claimed          bool
	Settled          bool
	// ClaimDeadline é fixado no primeiro claim (0 = ainda não fixado)
	// e nunca recalculado depois.
	ClaimDeadline int64
	BountyClaimer string
}

// RoundAccounting agrega resultados, odds e a contabilidade da rodada.
// total_claimed <= total_reserved_for_winners e
// total_paid_out <= MaxRoundPayouts valem após toda operação bem
// sucedida.
type RoundAccounting struct {
	RoundID                 uint64
	MatchResults            []MatchOutcome
	LockedOdds              []LockedOdds
	Settled                 bool
	RoundEndTime            int64
	TotalUserDeposits       uint64
	ProtocolFeeCollected    uint64
	TotalBetVolume          uint64
	ProtocolSeedAmount      uint64
	TotalReservedForWinners uint64
	TotalClaimed            uint64
	TotalPaidOut            uint64
	RevenueDistributed      bool
	ProtocolRevenueShare    uint64
	SeasonRevenueShare      uint64
}

// BettingPool é o pool que provê liquidez e acumula o fundo de
// recompensas da temporada.
type BettingPool struct {
	PoolID             string
	Authority          string
	SeasonPoolShareBps uint64
	SeasonRewardPool   uint64
}

// Clock fornece o tempo corrente em segundos unix. Implementação real
// no serviço; fixa nos testes.
type Clock interface {
	Now() int64
}

// SystemClock é o Clock de produção (relógio de parede).
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// PoolSigner é a capability de transferir fundos em nome do pool,
// derivada do id do pool. O núcleo nunca vê material de chave.
type PoolSigner struct {
	poolID string
}

func NewPoolSigner(poolID string) PoolSigner { return PoolSigner{poolID: poolID} }

// Account é a conta de liquidez do pool no ledger.
func (s PoolSigner) Account() string { return PoolAccount(s.poolID) }

// Ledger é a capability opaca de transferência de fundos. A
// implementação deve ser atômica com a operação chamadora.
type Ledger interface {
	Balance(ctx context.Context, account string) (uint64, error)
	Transfer(ctx context.Context, signer PoolSigner, to string, amount uint64) error
}

// Derivação determinística de contas a partir de (pool, id).

// PoolAccount é a conta de liquidez do pool.
func PoolAccount(poolID string) string { return fmt.Sprintf("pool:%s:liquidity", poolID) }

// BettorAccount é a conta de um usuário dentro do pool.
func BettorAccount(poolID, bettor string) string {
	return fmt.Sprintf("pool:%s:user:%s", poolID, bettor)
}
