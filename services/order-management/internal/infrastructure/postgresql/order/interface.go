package order

import (
	"context"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// OrderRepository is the repository for the order.
//
// Find methods return (nil, nil) when no order matches.
type OrderRepository interface {
	ExistsBySessionAndClOrdID(ctx context.Context, sessionID, clOrdID string) (bool, error)
	FindByOrderID(ctx context.Context, orderID string) (*orderv1.Order, error)
	// FindByOrderIDForUpdate locks the row until the surrounding transaction ends.
	FindByOrderIDForUpdate(ctx context.Context, orderID string) (*orderv1.Order, error)
	FindByRootOrderID(ctx context.Context, rootOrderID string) ([]*orderv1.Order, error)
	// Save inserts the order and sets its ID and Version.
	Save(ctx context.Context, order *orderv1.Order) error
	// Update writes the mutable fields when the stored version equals order.Version,
	// then increments order.Version.
	Update(ctx context.Context, order *orderv1.Order) error
}
