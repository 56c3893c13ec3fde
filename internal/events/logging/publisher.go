package logging

import (
	"context"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/cpf-bank-ledger/internal/interfaces"
)

// Publisher writes events to the log. It stands in for kafka when no
// brokers are configured.
type Publisher struct {
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	p.logger.Info("account event", zap.String("topic", topic), zap.Any("event", event))
	return nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
