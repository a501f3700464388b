package execution

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

// Save inserts an execution and sets its ID and CreatedAt.
func (r *repository) Save(ctx context.Context, execution *orderv1.Execution) error {
	query := `INSERT INTO executions (exec_id, order_id, exec_type, last_qty, last_px, avg_px, cum_qty, leaves_qty, last_mkt, transact_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		execution.ExecID,
		execution.OrderID,
		execution.ExecType,
		execution.LastQty,
		execution.LastPx,
		execution.AvgPx,
		execution.CumQty,
		execution.LeavesQty,
		execution.LastMkt,
		execution.TransactTime,
	).Scan(&execution.ID, &execution.CreatedAt)
	if postgresql.IsUniqueViolation(err, DuplicateConstraint) {
		return ErrDuplicateExecution
	}
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Inserted execution",
		logger.NewField("exec_id", execution.ExecID),
		logger.NewField("order_id", execution.OrderID),
	)
	return nil
}

// FindByOrderID lists the executions of an order oldest first.
func (r *repository) FindByOrderID(ctx context.Context, orderID string) ([]*orderv1.Execution, error) {
	query := `SELECT id, exec_id, order_id, exec_type, last_qty, last_px, avg_px, cum_qty, leaves_qty, last_mkt, transact_time, created_at
		FROM executions WHERE order_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	executions := []*orderv1.Execution{}
	for rows.Next() {
		var e orderv1.Execution
		err := rows.Scan(
			&e.ID,
			&e.ExecID,
			&e.OrderID,
			&e.ExecType,
			&e.LastQty,
			&e.LastPx,
			&e.AvgPx,
			&e.CumQty,
			&e.LeavesQty,
			&e.LastMkt,
			&e.TransactTime,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		executions = append(executions, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return executions, nil
}
