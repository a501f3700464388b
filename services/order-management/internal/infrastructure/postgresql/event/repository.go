package event

import (
	"context"

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

// Append stores an event and sets its ID and Timestamp.
func (r *repository) Append(ctx context.Context, event *orderv1.OrderEvent) error {
	query := `INSERT INTO order_events (order_id, event, transaction) VALUES ($1, $2, $3) RETURNING id, time_stamp`

	err := r.db.QueryRow(ctx, query, event.OrderID, event.Event, []byte(event.Transaction)).
		Scan(&event.ID, &event.Timestamp)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Appended order event",
		logger.NewField("order_id", event.OrderID),
		logger.NewField("event", event.Event),
	)
	return nil
}

// FindByOrderID lists the events of an order in append order.
func (r *repository) FindByOrderID(ctx context.Context, orderID string) ([]*orderv1.OrderEvent, error) {
	query := `SELECT id, order_id, event, transaction, time_stamp FROM order_events WHERE order_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	events := []*orderv1.OrderEvent{}
	for rows.Next() {
		var (
			e           orderv1.OrderEvent
			transaction []byte
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Event, &transaction, &e.Timestamp); err != nil {
			return nil, errors.TracerFromError(err)
		}
		e.Transaction = transaction
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return events, nil
}
