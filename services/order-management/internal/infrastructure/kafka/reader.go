package kafka

import (
	ordercommandv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-command/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/pkg/config"
	"github.com/segmentio/kafka-go"
)

var _ ordercommandv1.CommandReader = (*kafka.Reader)(nil)

// NewCommandReader creates a consumer group reader on the command topic.
// Offsets are committed explicitly after each command is processed.
func NewCommandReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.CommandTopic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
	})
}
