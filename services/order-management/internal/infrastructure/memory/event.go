package memory

import (
	"context"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/event"
)

// EventRepository implements event.EventRepository.
type EventRepository struct {
	store *Store
}

var _ event.EventRepository = (*EventRepository)(nil)

// Append stores a copy of e.
func (r *EventRepository) Append(ctx context.Context, e *orderv1.OrderEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e.ID = r.store.nextID()
	e.Timestamp = r.store.now()

	stored := *e
	stored.Transaction = append([]byte(nil), e.Transaction...)
	r.store.events = append(r.store.events, &stored)

	n := len(r.store.events) - 1
	r.store.record(ctx, func() {
		r.store.events = r.store.events[:n]
	})
	return nil
}

// FindByOrderID lists the events of an order in append order.
func (r *EventRepository) FindByOrderID(_ context.Context, orderID string) ([]*orderv1.OrderEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := []*orderv1.OrderEvent{}
	for _, e := range r.store.events {
		if e.OrderID == orderID {
			c := *e
			events = append(events, &c)
		}
	}
	return events, nil
}
