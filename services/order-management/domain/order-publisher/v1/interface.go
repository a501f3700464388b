package v1

import "context"

// Bus delivers encoded messages to a topic.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderpublisherv1_mock
type Bus interface {
	// Send returns once the broker acknowledged the message.
	Send(ctx context.Context, topic, key string, payload []byte) error
	Close() error
}
