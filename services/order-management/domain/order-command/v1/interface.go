package v1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// CommandReader reads command envelopes from the intake topic.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ordercommandv1_mock
type CommandReader interface {
	// FetchMessage blocks for the next message without committing it.
	FetchMessage(ctx context.Context) (kafka.Message, error)
	// CommitMessages commits the messages after processing.
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader
	Close() error
}
