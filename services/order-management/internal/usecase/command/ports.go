package command

import (
	"context"
)

// Notifier is told about outbox records once their transaction committed.
type Notifier interface {
	Notify(id int64)
}

// Locker serializes commands addressed to the same order.
type Locker interface {
	// Lock blocks until the order is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, orderID string) (func(), error)
}

type noopNotifier struct{}

func (noopNotifier) Notify(int64) {}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
