package event

import (
	"context"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// EventRepository is the append-only order event journal.
type EventRepository interface {
	Append(ctx context.Context, event *orderv1.OrderEvent) error
	FindByOrderID(ctx context.Context, orderID string) ([]*orderv1.OrderEvent, error)
}
