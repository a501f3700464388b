package order

import "github.com/muhammadchandra19/exchange/pkg/errors"

var (
	// ErrDuplicateOrder is returned by Save when (session_id, cl_ord_id) already exists.
	ErrDuplicateOrder = errors.NewErrorDetails("duplicate order", string(errors.DuplicateOrderError), "clOrdId")
	// ErrOrderIDInUse is returned by Save when a pre-assigned order_id already exists.
	ErrOrderIDInUse = errors.NewErrorDetails("order id already in use", string(errors.ValidationError), "orderId")
	// ErrConcurrentUpdate is returned by Update when the stored version moved.
	ErrConcurrentUpdate = errors.NewErrorDetails("order was modified concurrently", string(errors.ConcurrentUpdateError), "version")
)

const (
	// DuplicateConstraint is the unique constraint backing ErrDuplicateOrder.
	DuplicateConstraint = "uq_orders_session_cl_ord_id"
	// OrderIDConstraint is the unique constraint backing ErrOrderIDInUse.
	OrderIDConstraint = "uq_orders_order_id"
)
