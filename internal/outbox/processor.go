// Package outbox relays committed transfer events from the outbox table to
// Kafka. The outbox row is written in the same database transaction as the
// transfer, so a published event always corresponds to a committed transfer.
package outbox

import (
	"context"
	"time"

	"banking/internal/domain"
	kafkaInfra "banking/internal/infrastructure/kafka"

	"go.uber.org/zap"
)

const batchSize = 10

type OutboxRepository interface {
	GetPendingMessages(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	MarkMessagesAsSent(ctx context.Context, ids []string) error
	MarkMessagesAsFailed(ctx context.Context, ids []string) error
}

type Processor struct {
	outboxRepo    OutboxRepository
	kafkaProducer kafkaInfra.Producer
	pollInterval  time.Duration
	pollTimeout   time.Duration
	logger        *zap.Logger
}

func NewProcessor(
	outboxRepo OutboxRepository,
	kafkaProducer kafkaInfra.Producer,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		outboxRepo:    outboxRepo,
		kafkaProducer: kafkaProducer,
		pollInterval:  pollInterval,
		pollTimeout:   pollTimeout,
		logger:        logger,
	}
}

// Start polls until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("Starting outbox processor...")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox processor stopping.")
			return
		case <-ticker.C:
			p.processOutboxMessages(ctx)
		}
	}
}

func (p *Processor) processOutboxMessages(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	messages, err := p.outboxRepo.GetPendingMessages(queryCtx, batchSize)
	cancel()
	if err != nil {
		p.logger.Error("Failed to get pending outbox messages", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		return
	}

	p.logger.Info("Found pending outbox messages", zap.Int("count", len(messages)))

	var sent, failed []string
	for _, msg := range messages {
		if err := p.kafkaProducer.Produce(ctx, msg.Key, msg.Payload); err != nil {
			p.logger.Error("Failed to relay outbox message",
				zap.String("message_id", msg.ID),
				zap.String("topic", msg.Topic),
				zap.Error(err))
			failed = append(failed, msg.ID)
			continue
		}
		sent = append(sent, msg.ID)
	}

	if err := p.outboxRepo.MarkMessagesAsSent(ctx, sent); err != nil {
		// The messages stay PENDING and will be produced again; consumers
		// must treat the stream as at-least-once.
		p.logger.Error("Failed to mark outbox messages as sent", zap.Error(err))
	}
	if err := p.outboxRepo.MarkMessagesAsFailed(ctx, failed); err != nil {
		p.logger.Error("Failed to mark outbox messages as failed", zap.Error(err))
	}

	if len(sent) > 0 {
		p.logger.Info("Relayed outbox messages", zap.Int("sent", len(sent)), zap.Int("failed", len(failed)))
	}
}
