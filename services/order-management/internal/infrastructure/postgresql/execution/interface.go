package execution

import (
	"context"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// ExecutionRepository stores fills reported against orders.
type ExecutionRepository interface {
	Save(ctx context.Context, execution *orderv1.Execution) error
	FindByOrderID(ctx context.Context, orderID string) ([]*orderv1.Execution, error)
}
