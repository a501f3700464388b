package outbox

import (
	"context"
	"encoding/json"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Save inserts an outbox record.
func (r *repository) Save(ctx context.Context, record *orderv1.OutboxRecord) error {
	payload, err := json.Marshal(record.Order)
	if err != nil {
		return errors.TracerFromError(err)
	}

	query := `INSERT INTO order_messages (outbound_order) VALUES ($1) RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, query, payload).Scan(&record.ID, &record.CreatedAt); err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Inserted outbox record",
		logger.NewField("outbox_id", record.ID),
		logger.NewField("order_id", record.Order.OrderID),
	)
	return nil
}

// FindByID gets a pending record.
func (r *repository) FindByID(ctx context.Context, id int64) (*orderv1.OutboxRecord, error) {
	query := `SELECT id, outbound_order, created_at FROM order_messages WHERE id = $1`

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if postgresql.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return record, nil
}

// DeleteByID removes a delivered record. Deleting a missing record is not an error.
func (r *repository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM order_messages WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// FindAllPending lists the oldest pending records.
func (r *repository) FindAllPending(ctx context.Context, limit int) ([]*orderv1.OutboxRecord, error) {
	query := `SELECT id, outbound_order, created_at FROM order_messages ORDER BY id LIMIT $1`
	return r.queryRecords(ctx, query, limit)
}

// FindPendingByOrderID lists the pending records of one order, oldest first.
func (r *repository) FindPendingByOrderID(ctx context.Context, orderID string, limit int) ([]*orderv1.OutboxRecord, error) {
	query := `SELECT id, outbound_order, created_at FROM order_messages
		WHERE outbound_order->>'orderId' = $1 ORDER BY id LIMIT $2`
	return r.queryRecords(ctx, query, orderID, limit)
}

func (r *repository) queryRecords(ctx context.Context, query string, args ...any) ([]*orderv1.OutboxRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	records := []*orderv1.OutboxRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return records, nil
}

// CountPending counts the records not yet delivered.
func (r *repository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM order_messages`).Scan(&count); err != nil {
		return 0, errors.TracerFromError(err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*orderv1.OutboxRecord, error) {
	var (
		record  orderv1.OutboxRecord
		payload []byte
	)
	if err := row.Scan(&record.ID, &payload, &record.CreatedAt); err != nil {
		return nil, err
	}

	record.Order = &orderv1.Order{}
	if err := json.Unmarshal(payload, record.Order); err != nil {
		return nil, err
	}
	return &record, nil
}
