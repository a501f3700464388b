// Package kafka adapts segmentio/kafka-go to the bus and command intake interfaces.
package kafka

import (
	"context"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	orderpublisherv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-publisher/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/pkg/config"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes outbox messages. Messages are partitioned by key so one
// order's messages land on one partition in send order.
type Producer struct {
	writer messageWriter
	logger logger.Interface
}

var _ orderpublisherv1.Bus = (*Producer)(nil)

// NewProducer creates a producer that waits for all in-sync replicas.
func NewProducer(cfg config.KafkaConfig, log logger.Interface) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           cfg.WriteTimeout,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: false,
	}
	return newProducer(writer, log)
}

func newProducer(w messageWriter, log logger.Interface) *Producer {
	return &Producer{writer: w, logger: log}
}

// Send writes one message and returns once the broker acknowledged it.
func (p *Producer) Send(ctx context.Context, topic, key string, payload []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.NewField("topic", topic),
			logger.NewField("key", key),
		)
		return errors.TracerFromError(errors.NewErrorDetails(
			"failed to publish order message: "+err.Error(),
			string(errors.OutboxPublishError),
			"topic",
		))
	}
	return nil
}

// Close flushes pending writes and closes the connections.
func (p *Producer) Close() error {
	return p.writer.Close()
}
