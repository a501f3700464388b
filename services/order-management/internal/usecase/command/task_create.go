package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/statemachine"
)

// Task priorities of the creation pipeline.
const (
	PriorityValidateOrder  = 100
	PriorityAssignOrderID  = 200
	PrioritySetOrderState  = 300
	PriorityPersistOrder   = 400
	PriorityAppendNewEvent = 450
	PriorityPublishNew     = 500
)

// ValidateOrderTask rejects create commands with missing or inconsistent fields.
type ValidateOrderTask struct{}

func (ValidateOrderTask) Name() string  { return "ValidateOrderTask" }
func (ValidateOrderTask) Priority() int { return PriorityValidateOrder }

func (t ValidateOrderTask) Execute(_ context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	if msg := validateOrder(tc.Order); msg != "" {
		tc.MarkFailed(errors.ValidationError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}
	return pipeline.Success(t.Name()), nil
}

func validateOrder(o *orderv1.Order) string {
	switch {
	case o == nil:
		return "Order is required"
	case strings.TrimSpace(o.Symbol) == "":
		return "Symbol is required"
	case o.Side == "":
		return "Side is required"
	case !o.Side.Valid():
		return fmt.Sprintf("Invalid side: %s", o.Side)
	case strings.TrimSpace(o.Account) == "":
		return "Account is required"
	case strings.TrimSpace(o.ClOrdID) == "":
		return "ClOrdId is required"
	case o.OrdType == "":
		return "Order type is required"
	case !o.OrdType.Valid():
		return fmt.Sprintf("Invalid order type: %s", o.OrdType)
	case o.TimeInForce != "" && !o.TimeInForce.Valid():
		return fmt.Sprintf("Invalid time in force: %s", o.TimeInForce)
	case !o.OrderQty.IsPositive():
		return "Order quantity must be positive"
	case o.OrdType.RequiresPrice() && !o.Price.Valid:
		return "Limit orders must have a price"
	case o.Price.Valid && !o.Price.Decimal.IsPositive():
		return "Price must be positive"
	case o.OrdType.RequiresStopPx() && !o.StopPx.Valid:
		return "Stop orders must have a stop price"
	case o.StopPx.Valid && !o.StopPx.Decimal.IsPositive():
		return "Stop price must be positive"
	}
	return ""
}

// AssignOrderIDTask gives the order an id unless one was supplied.
type AssignOrderIDTask struct {
	newID func() string
}

// NewAssignOrderIDTask creates the task. A nil newID generates "ORD-<uuid>".
func NewAssignOrderIDTask(newID func() string) *AssignOrderIDTask {
	if newID == nil {
		newID = func() string { return "ORD-" + uuid.NewString() }
	}
	return &AssignOrderIDTask{newID: newID}
}

func (t *AssignOrderIDTask) Name() string  { return "AssignOrderIDTask" }
func (t *AssignOrderIDTask) Priority() int { return PriorityAssignOrderID }

func (t *AssignOrderIDTask) ShouldExecute(tc *OrderTaskContext) bool {
	return tc.Order.OrderID == ""
}

func (t *AssignOrderIDTask) SkipReason(tc *OrderTaskContext) string {
	return "order id already assigned: " + tc.Order.OrderID
}

func (t *AssignOrderIDTask) Execute(_ context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	id := t.newID()
	tc.Order.OrderID = id
	tc.GeneratedOrderID = id
	return pipeline.Success(t.Name()), nil
}

// SetOrderStateTask puts a new order in the machine's initial state and, when
// the profile has the edge, acknowledges it as UNACK.
type SetOrderStateTask struct {
	machine *statemachine.Machine
	now     func() time.Time
}

// NewSetOrderStateTask creates the task.
func NewSetOrderStateTask(machine *statemachine.Machine) *SetOrderStateTask {
	return &SetOrderStateTask{machine: machine, now: time.Now}
}

func (t *SetOrderStateTask) Name() string  { return "SetOrderStateTask" }
func (t *SetOrderStateTask) Priority() int { return PrioritySetOrderState }

func (t *SetOrderStateTask) Execute(_ context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	o := tc.Order
	initial := t.machine.InitialState()

	if o.State != "" && o.State != initial {
		msg := transitionMessage(o.State, initial, o.OrderID)
		tc.MarkFailed(errors.StateTransitionError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}

	tc.PreviousState = initial
	target := initial
	if t.machine.IsValidTransition(initial, orderv1.StateUnack) {
		target = orderv1.StateUnack
	}

	now := t.now().UTC()
	o.State = target
	o.TransactTime = now
	if o.SendingTime.IsZero() {
		o.SendingTime = now
	}
	tc.TargetState = target

	return pipeline.Success(t.Name()), nil
}

// PersistOrderTask inserts the order after checking (sessionId, clOrdId) is unused.
type PersistOrderTask struct {
	orders order.OrderRepository
	logger logger.Interface
}

// NewPersistOrderTask creates the task.
func NewPersistOrderTask(orders order.OrderRepository, log logger.Interface) *PersistOrderTask {
	return &PersistOrderTask{orders: orders, logger: log}
}

func (t *PersistOrderTask) Name() string  { return "PersistOrderTask" }
func (t *PersistOrderTask) Priority() int { return PriorityPersistOrder }

func (t *PersistOrderTask) Execute(ctx context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	o := tc.Order

	exists, err := t.orders.ExistsBySessionAndClOrdID(ctx, o.SessionID, o.ClOrdID)
	if err != nil {
		return pipeline.Result{}, err
	}
	if exists {
		return t.duplicate(tc), nil
	}

	if o.RootOrderID == "" {
		o.RootOrderID = o.OrderID
	}

	err = t.orders.Save(ctx, o)
	if errors.ErrorCodeEquals(err, string(errors.DuplicateOrderError)) {
		return t.duplicate(tc), nil
	}
	if errors.ErrorCodeEquals(err, string(errors.ValidationError)) {
		msg := fmt.Sprintf("Order id %s is already in use", o.OrderID)
		tc.MarkFailed(errors.ValidationError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}
	if err != nil {
		return pipeline.Result{}, err
	}

	t.logger.InfoContext(ctx, "Order persisted",
		logger.NewField("order_id", o.OrderID),
		logger.NewField("cl_ord_id", o.ClOrdID),
		logger.NewField("state", o.State),
	)
	return pipeline.Success(t.Name()), nil
}

func (t *PersistOrderTask) duplicate(tc *OrderTaskContext) pipeline.Result {
	msg := duplicateMessage(tc.Order.SessionID, tc.Order.ClOrdID)
	tc.MarkFailed(errors.DuplicateOrderError, msg)
	return pipeline.Failed(t.Name(), msg)
}
