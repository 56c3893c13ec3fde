package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/cpf-bank-ledger/internal/interfaces"
)

// keyed is implemented by events that need per-key ordering.
type keyed interface {
	PartitionKey() string
}

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a publisher writing asynchronously to brokers.
// Delivery errors are reported through logger since WriteMessages returns
// before the broker acknowledges.
func NewPublisher(brokers []string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			Async:                  true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					logger.Error("kafka delivery failed",
						zap.Int("messages", len(messages)),
						zap.Error(err))
				}
			},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	msg, err := newMessage(topic, event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newMessage(topic string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: data,
	}
	if k, ok := event.(keyed); ok {
		msg.Key = []byte(k.PartitionKey())
	}
	return msg, nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
