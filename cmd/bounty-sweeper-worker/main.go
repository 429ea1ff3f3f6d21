package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/parlay-settlement-poc/internal/settlement"
	kpub "github.com/radieske/parlay-settlement-poc/internal/settlement-service/producer"
	srepo "github.com/radieske/parlay-settlement-poc/internal/settlement-service/repo"
	"github.com/radieske/parlay-settlement-poc/internal/shared/config"
	"github.com/radieske/parlay-settlement-poc/internal/shared/db"
	"github.com/radieske/parlay-settlement-poc/internal/shared/kafka"
	"github.com/radieske/parlay-settlement-poc/internal/shared/logger"
	"github.com/radieske/parlay-settlement-poc/internal/shared/metrics"
	ev "github.com/radieske/parlay-settlement-poc/pkg/contracts/events"
)

// O sweeper é o caçador de recompensa da casa: consome round_settled,
// espera a janela exclusiva do apostador expirar e liquida as apostas
// restantes em nome próprio, ganhando o bounty de 10% e garantindo que
// a receita da rodada possa ser finalizada.
func main() {
	cfg := config.Load()
	log, err := logger.New("bounty-sweeper-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer: eventos round_settled disparam a varredura
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicRoundSettled, "bounty-sweeper")
	defer reader.Close()

	// Publica claim_settled para cada aposta varrida
	claimWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicClaimSettled)
	defer claimWriter.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicRoundSettledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRoundSettledDLQ)
		defer dlqWriter.Close()
	}

	// Sidecar de métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	repository := srepo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(claimWriter, nil)
	clock := settlement.SystemClock{}

	log.Info("bounty-sweeper-worker started",
		zap.String("consume", cfg.TopicRoundSettled),
		zap.String("identity", cfg.SweeperIdentity),
	)

	ctx := context.Background()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		var settled ev.RoundSettled
		if jerr := json.Unmarshal(msg.Value, &settled); jerr != nil {
			log.Error("unmarshal round_settled", zap.Error(jerr))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(msg.Key), msg.Value)
			}
			continue
		}

		if err := sweepRound(ctx, log, clock, repository, publ, cfg, &settled); err != nil {
			log.Error("sweep round", zap.Uint64("roundId", settled.RoundID), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// sweepRound espera a janela de claim expirar e liquida as apostas
// ainda não reivindicadas da rodada, uma a uma.
func sweepRound(
	ctx context.Context,
	log *zap.Logger,
	clock settlement.Clock,
	repository *srepo.Postgres,
	publ *kpub.KafkaPublisher,
	cfg config.Config,
	settled *ev.RoundSettled,
) error {
	deadline := settled.RoundEndTime + settlement.ClaimWindowSeconds

	// PoC: consumidor de partição única, bloquear até o fim da janela
	// é aceitável; numa topologia maior isso viraria re-agendamento
	if wait := deadline - clock.Now() + 1; wait > 0 {
		log.Info("waiting claim window",
			zap.Uint64("roundId", settled.RoundID),
			zap.Int64("seconds", wait),
		)
		time.Sleep(time.Duration(wait) * time.Second)
	}

	refs, err := repository.ListUnclaimedBets(ctx, settled.PoolID, settled.RoundID)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		res, bet, err := repository.Claim(ctx, clock, settled.PoolID, ref.BetID, cfg.SweeperIdentity, 0)
		if err != nil {
			// Corrida benigna: o próprio apostador (ou outro hunter)
			// chegou primeiro
			if errors.Is(err, settlement.ErrBetAlreadyClaimed) {
				continue
			}
			log.Error("sweep claim", zap.Uint64("betId", ref.BetID), zap.Error(err))
			continue
		}

		log.Info("bet swept",
			zap.Uint64("betId", ref.BetID),
			zap.Bool("won", res.Won),
			zap.Uint64("payout", res.FinalPayout),
			zap.Uint64("bounty", res.Bounty),
		)

		_ = publ.PublishClaimSettled(ctx, ev.ClaimSettled{
			PoolID:      settled.PoolID,
			BetID:       ref.BetID,
			RoundID:     settled.RoundID,
			Bettor:      bet.Bettor,
			Claimer:     cfg.SweeperIdentity,
			Won:         res.Won,
			BasePayout:  res.BasePayout,
			FinalPayout: res.FinalPayout,
			BettorShare: res.BettorShare,
			Bounty:      res.Bounty,
			BountyClaim: res.BountyClaim,
		})
	}

	log.Info("round swept", zap.Uint64("roundId", settled.RoundID), zap.Int("bets", len(refs)))
	return nil
}
