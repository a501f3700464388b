package command

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/execution"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/statemachine"
)

// Task priorities of the execution pipeline.
const (
	PriorityValidateExecution   = 100
	PriorityCalculateQuantities = 200
	PriorityDetermineState      = 300
	PriorityPersistExecution    = 400
	PriorityUpdateOrder         = 500
	PriorityAppendExecution     = 550
	PriorityPublishExecution    = 600
)

// quantityScale matches the NUMERIC(28, 8) columns.
const quantityScale = 8

// ValidateExecutionTask rejects fills that cannot apply to the loaded order.
type ValidateExecutionTask struct{}

func (ValidateExecutionTask) Name() string  { return "ValidateExecutionTask" }
func (ValidateExecutionTask) Priority() int { return PriorityValidateExecution }

func (t ValidateExecutionTask) Execute(_ context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	e := tc.Execution
	var msg string
	switch {
	case e == nil:
		msg = "Execution is required"
	case e.ExecID == "":
		msg = "ExecID is required"
	case !e.LastQty.IsPositive():
		msg = fmt.Sprintf("LastQty must be positive, got: %s", e.LastQty)
	case !e.LastPx.IsPositive():
		msg = fmt.Sprintf("LastPx must be positive, got: %s", e.LastPx)
	}
	if msg != "" {
		tc.MarkFailed(errors.ValidationError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}

	if tc.Order.State != orderv1.StateLive {
		msg = fmt.Sprintf("Order must be in LIVE state for execution, current state: %s", tc.Order.State)
		tc.MarkFailed(errors.StateTransitionError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}
	return pipeline.Success(t.Name()), nil
}

// CalculateQuantitiesTask derives cumQty, leavesQty and the average price after the fill.
type CalculateQuantitiesTask struct {
	executions execution.ExecutionRepository
}

// NewCalculateQuantitiesTask creates the task.
func NewCalculateQuantitiesTask(executions execution.ExecutionRepository) *CalculateQuantitiesTask {
	return &CalculateQuantitiesTask{executions: executions}
}

func (t *CalculateQuantitiesTask) Name() string  { return "CalculateQuantitiesTask" }
func (t *CalculateQuantitiesTask) Priority() int { return PriorityCalculateQuantities }

func (t *CalculateQuantitiesTask) Execute(ctx context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	o, e := tc.Order, tc.Execution

	cum := o.CumQty.Add(e.LastQty)
	if cum.GreaterThan(o.OrderQty) {
		msg := fmt.Sprintf("Execution would cause cumQty (%s) to exceed orderQty (%s)", cum, o.OrderQty)
		tc.MarkFailed(errors.ValidationError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}
	leaves := o.OrderQty.Sub(cum)

	previous, err := t.executions.FindByOrderID(ctx, o.OrderID)
	if err != nil {
		return pipeline.Result{}, err
	}
	notional := e.LastQty.Mul(e.LastPx)
	filled := e.LastQty
	for _, p := range previous {
		notional = notional.Add(p.LastQty.Mul(p.LastPx))
		filled = filled.Add(p.LastQty)
	}

	tc.SetQuantities(cum.Round(quantityScale), leaves.Round(quantityScale))
	e.CumQty = tc.CalculatedCumQty
	e.LeavesQty = tc.CalculatedLeavesQty
	e.AvgPx = notional.DivRound(filled, quantityScale)

	return pipeline.Success(t.Name()), nil
}

// DetermineStateTask moves a fully filled order to FILLED, or CLOSED when closeOnFill is set
// and the profile allows it. Partially filled orders keep their state.
type DetermineStateTask struct {
	machine     *statemachine.Machine
	closeOnFill bool
}

// NewDetermineStateTask creates the task.
func NewDetermineStateTask(machine *statemachine.Machine, closeOnFill bool) *DetermineStateTask {
	return &DetermineStateTask{machine: machine, closeOnFill: closeOnFill}
}

func (t *DetermineStateTask) Name() string  { return "DetermineStateTask" }
func (t *DetermineStateTask) Priority() int { return PriorityDetermineState }

func (t *DetermineStateTask) Execute(_ context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	if !tc.HasQuantities() {
		return pipeline.Result{}, fmt.Errorf("quantities not calculated before %s", t.Name())
	}

	current := tc.Order.State
	tc.PreviousState = current
	tc.TargetState = current

	if !tc.CalculatedLeavesQty.IsZero() {
		return pipeline.Success(t.Name()), nil
	}

	if _, err := t.machine.Transition(current, orderv1.StateFilled); err != nil {
		msg := transitionMessage(current, orderv1.StateFilled, tc.Order.OrderID)
		tc.MarkFailed(errors.StateTransitionError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}
	tc.TargetState = orderv1.StateFilled

	if t.closeOnFill && t.machine.IsValidTransition(orderv1.StateFilled, orderv1.StateClosed) {
		tc.TargetState = orderv1.StateClosed
	}
	return pipeline.Success(t.Name()), nil
}

// PersistExecutionTask stores the execution with its calculated quantities.
type PersistExecutionTask struct {
	executions execution.ExecutionRepository
	now        func() time.Time
}

// NewPersistExecutionTask creates the task.
func NewPersistExecutionTask(executions execution.ExecutionRepository) *PersistExecutionTask {
	return &PersistExecutionTask{executions: executions, now: time.Now}
}

func (t *PersistExecutionTask) Name() string  { return "PersistExecutionTask" }
func (t *PersistExecutionTask) Priority() int { return PriorityPersistExecution }

func (t *PersistExecutionTask) Execute(ctx context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	e := tc.Execution
	if e.TransactTime.IsZero() {
		e.TransactTime = t.now().UTC()
	}

	err := t.executions.Save(ctx, e)
	if errors.ErrorCodeEquals(err, execution.ErrDuplicateExecution.Code) {
		msg := fmt.Sprintf("Duplicate execution execId=%s", e.ExecID)
		tc.MarkFailed(errors.ValidationError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Success(t.Name()), nil
}

// UpdateOrderTask writes the new quantities and state with a version check.
type UpdateOrderTask struct {
	orders order.OrderRepository
	logger logger.Interface
}

// NewUpdateOrderTask creates the task.
func NewUpdateOrderTask(orders order.OrderRepository, log logger.Interface) *UpdateOrderTask {
	return &UpdateOrderTask{orders: orders, logger: log}
}

func (t *UpdateOrderTask) Name() string  { return "UpdateOrderTask" }
func (t *UpdateOrderTask) Priority() int { return PriorityUpdateOrder }

func (t *UpdateOrderTask) Execute(ctx context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	o := tc.Order
	o.CumQty = tc.CalculatedCumQty
	o.LeavesQty = tc.CalculatedLeavesQty
	o.State = tc.TargetState
	o.TransactTime = tc.Execution.TransactTime

	if err := t.orders.Update(ctx, o); err != nil {
		return pipeline.Result{}, err
	}

	t.logger.InfoContext(ctx, "Order updated",
		logger.NewField("order_id", o.OrderID),
		logger.NewField("state", o.State),
		logger.NewField("cum_qty", o.CumQty.String()),
		logger.NewField("leaves_qty", o.LeavesQty.String()),
	)
	return pipeline.Success(t.Name()), nil
}
