package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/util"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

const selectColumns = `id, order_id, parent_order_id, root_order_id, session_id, cl_ord_id, account, symbol,
	side, ord_type, price, stop_px, order_qty, cum_qty, leaves_qty, alloc_qty, time_in_force, state,
	cancel_state, sending_time, transact_time, expire_time, text, version`

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

// ExistsBySessionAndClOrdID reports whether the client order id was already used in the session.
func (r *repository) ExistsBySessionAndClOrdID(ctx context.Context, sessionID, clOrdID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE session_id = $1 AND cl_ord_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, sessionID, clOrdID).Scan(&exists); err != nil {
		return false, errors.TracerFromError(err)
	}
	return exists, nil
}

// FindByOrderID gets an order by its order id.
func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*orderv1.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = $1`, selectColumns)
	return r.findOne(ctx, query, orderID)
}

// FindByOrderIDForUpdate gets an order by its order id and row-locks it.
func (r *repository) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*orderv1.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = $1 FOR UPDATE`, selectColumns)
	return r.findOne(ctx, query, orderID)
}

func (r *repository) findOne(ctx context.Context, query string, args ...any) (*orderv1.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if postgresql.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return order, nil
}

// FindByRootOrderID lists the orders of a parent/child tree.
func (r *repository) FindByRootOrderID(ctx context.Context, rootOrderID string) ([]*orderv1.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE root_order_id = $1 ORDER BY id`, selectColumns)

	rows, err := r.db.Query(ctx, query, rootOrderID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	orders := []*orderv1.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return orders, nil
}

// Save inserts an order.
func (r *repository) Save(ctx context.Context, order *orderv1.Order) error {
	query := `INSERT INTO orders (order_id, parent_order_id, root_order_id, session_id, cl_ord_id, account, symbol,
		side, ord_type, price, stop_px, order_qty, cum_qty, leaves_qty, alloc_qty, time_in_force, state,
		cancel_state, sending_time, transact_time, expire_time, text, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, 1)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		order.OrderID,
		util.StringPointer(order.ParentOrderID),
		util.StringPointer(order.RootOrderID),
		order.SessionID,
		order.ClOrdID,
		order.Account,
		order.Symbol,
		order.Side,
		order.OrdType,
		order.Price,
		order.StopPx,
		order.OrderQty,
		order.CumQty,
		order.LeavesQty,
		order.AllocQty,
		order.TimeInForce,
		order.State,
		order.CancelState,
		order.SendingTime,
		order.TransactTime,
		order.ExpireTime,
		order.Text,
	).Scan(&order.ID)
	if postgresql.IsUniqueViolation(err, DuplicateConstraint) {
		return ErrDuplicateOrder
	}
	if postgresql.IsUniqueViolation(err, OrderIDConstraint) {
		return ErrOrderIDInUse
	}
	if err != nil {
		return errors.TracerFromError(err)
	}

	order.Version = 1
	r.logger.DebugContext(ctx, "Inserted order",
		logger.NewField("order_id", order.OrderID),
		logger.NewField("id", order.ID),
	)
	return nil
}

// Update writes the mutable fields of an order guarded by its version.
func (r *repository) Update(ctx context.Context, order *orderv1.Order) error {
	query := `UPDATE orders SET state = $1, cancel_state = $2, price = $3, stop_px = $4, order_qty = $5,
		cum_qty = $6, leaves_qty = $7, alloc_qty = $8, transact_time = $9, expire_time = $10, text = $11,
		version = version + 1
		WHERE order_id = $12 AND version = $13`

	cmd, err := r.db.Exec(ctx, query,
		order.State,
		order.CancelState,
		order.Price,
		order.StopPx,
		order.OrderQty,
		order.CumQty,
		order.LeavesQty,
		order.AllocQty,
		order.TransactTime,
		order.ExpireTime,
		order.Text,
		order.OrderID,
		order.Version,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrConcurrentUpdate
	}

	order.Version++
	r.logger.DebugContext(ctx, "Updated order",
		logger.NewField("order_id", order.OrderID),
		logger.NewField("state", order.State),
		logger.NewField("version", order.Version),
	)
	return nil
}

func scanOrder(row pgx.Row) (*orderv1.Order, error) {
	var (
		order         orderv1.Order
		parentOrderID *string
		rootOrderID   *string
	)
	err := row.Scan(
		&order.ID,
		&order.OrderID,
		&parentOrderID,
		&rootOrderID,
		&order.SessionID,
		&order.ClOrdID,
		&order.Account,
		&order.Symbol,
		&order.Side,
		&order.OrdType,
		&order.Price,
		&order.StopPx,
		&order.OrderQty,
		&order.CumQty,
		&order.LeavesQty,
		&order.AllocQty,
		&order.TimeInForce,
		&order.State,
		&order.CancelState,
		&order.SendingTime,
		&order.TransactTime,
		&order.ExpireTime,
		&order.Text,
		&order.Version,
	)
	if err != nil {
		return nil, err
	}
	order.ParentOrderID = util.StringValue(parentOrderID)
	order.RootOrderID = util.StringValue(rootOrderID)
	return &order, nil
}
