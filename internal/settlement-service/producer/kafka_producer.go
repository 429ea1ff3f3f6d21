package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/parlay-settlement-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de liquidação. Um writer por
// tópico, chave = bet/round id para preservar ordem por entidade.
type KafkaPublisher struct {
	ClaimWriter   *kafka.Writer
	RevenueWriter *kafka.Writer
}

func NewKafkaPublisher(claimW, revenueW *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{ClaimWriter: claimW, RevenueWriter: revenueW}
}

func (p *KafkaPublisher) PublishClaimSettled(ctx context.Context, e events.ClaimSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.ClaimWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(e.BetID, 10)),
		Value: b,
	})
}

func (p *KafkaPublisher) PublishRevenueFinalized(ctx context.Context, e events.RevenueFinalized) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.RevenueWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(e.RoundID, 10)),
		Value: b,
	})
}
