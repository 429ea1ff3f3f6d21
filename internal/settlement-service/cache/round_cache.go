package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/parlay-settlement-poc/internal/settlement-service/dto"
)

// RoundCache guarda o snapshot contábil da rodada no Redis para as
// leituras da API. Atualizado após cada mutação bem sucedida; leitura
// com fallback pro Postgres.
type RoundCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRoundCache(c *redis.Client, ttl time.Duration) *RoundCache {
	return &RoundCache{Client: c, TTL: ttl}
}

func key(poolID string, roundID uint64) string {
	return fmt.Sprintf("round:current:%s:%d", poolID, roundID)
}

// SetRound armazena o snapshot da rodada com TTL definido.
func (r *RoundCache) SetRound(ctx context.Context, poolID string, snap dto.RoundResponse) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(poolID, snap.RoundID), b, r.TTL).Err()
}

// GetRound retorna o snapshot cacheado, ok=false em cache miss.
func (r *RoundCache) GetRound(ctx context.Context, poolID string, roundID uint64) (dto.RoundResponse, bool, error) {
	raw, err := r.Client.Get(ctx, key(poolID, roundID)).Bytes()
	if err == redis.Nil {
		return dto.RoundResponse{}, false, nil
	}
	if err != nil {
		return dto.RoundResponse{}, false, err
	}
	var snap dto.RoundResponse
	if err := json.Unmarshal(raw, &snap); err != nil {
		return dto.RoundResponse{}, false, err
	}
	return snap, true, nil
}
