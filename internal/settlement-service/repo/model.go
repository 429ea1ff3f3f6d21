package repo

import (
	"encoding/json"

	"github.com/radieske/parlay-settlement-poc/internal/settlement"
)

// Linhas persistidas no Postgres, chaveadas por (pool_id, id).
// Predições e odds travadas ficam em colunas JSONB: são imutáveis
// depois de criadas, só o núcleo as lê.

// BetRef identifica uma aposta não liquidada para o sweeper.
type BetRef struct {
	BetID  uint64
	Bettor string
}

func unmarshalPredictions(raw []byte) ([]settlement.Prediction, error) {
	var ps []settlement.Prediction
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func unmarshalOutcomes(raw []byte) ([]settlement.MatchOutcome, error) {
	var os []settlement.MatchOutcome
	if err := json.Unmarshal(raw, &os); err != nil {
		return nil, err
	}
	return os, nil
}

func unmarshalLockedOdds(raw []byte) ([]settlement.LockedOdds, error) {
	var lo []settlement.LockedOdds
	if err := json.Unmarshal(raw, &lo); err != nil {
		return nil, err
	}
	return lo, nil
}
