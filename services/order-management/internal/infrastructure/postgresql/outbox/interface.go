package outbox

import (
	"context"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// OutboxRepository holds committed order snapshots until the bus acknowledges them.
type OutboxRepository interface {
	// Save stores a snapshot of record.Order and sets ID and CreatedAt.
	Save(ctx context.Context, record *orderv1.OutboxRecord) error
	// FindByID returns (nil, nil) when the record was already delivered.
	FindByID(ctx context.Context, id int64) (*orderv1.OutboxRecord, error)
	DeleteByID(ctx context.Context, id int64) error
	// FindAllPending returns up to limit records, oldest first.
	FindAllPending(ctx context.Context, limit int) ([]*orderv1.OutboxRecord, error)
	// FindPendingByOrderID returns up to limit records of one order, oldest first.
	FindPendingByOrderID(ctx context.Context, orderID string, limit int) ([]*orderv1.OutboxRecord, error)
	CountPending(ctx context.Context) (int64, error)
}
