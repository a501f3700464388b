package command

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/util"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/statemachine"
)

// AcceptPipelineName names the acceptance pipeline in logs and metrics.
const AcceptPipelineName = "order-accept"

// Task priorities of the acceptance pipeline.
const (
	PriorityAcceptOrder     = 100
	PriorityAppendAccept    = 200
	PriorityPublishAccepted = 300
)

// AcceptOrderTask moves the loaded order to LIVE.
type AcceptOrderTask struct {
	orders  order.OrderRepository
	machine *statemachine.Machine
	now     func() time.Time
}

// NewAcceptOrderTask creates the task.
func NewAcceptOrderTask(orders order.OrderRepository, machine *statemachine.Machine) *AcceptOrderTask {
	return &AcceptOrderTask{orders: orders, machine: machine, now: time.Now}
}

func (t *AcceptOrderTask) Name() string  { return "AcceptOrderTask" }
func (t *AcceptOrderTask) Priority() int { return PriorityAcceptOrder }

// Execute checks the transition before writing anything.
func (t *AcceptOrderTask) Execute(ctx context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	o := tc.Order
	tc.PreviousState = o.State
	tc.TargetState = orderv1.StateLive

	if !t.machine.IsValidTransition(o.State, orderv1.StateLive) {
		msg := transitionMessage(o.State, orderv1.StateLive, o.OrderID)
		tc.MarkFailed(errors.StateTransitionError, msg)
		return pipeline.Failed(t.Name(), msg), nil
	}

	o.State = orderv1.StateLive
	o.TransactTime = t.now().UTC()
	if err := t.orders.Update(ctx, o); err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Success(t.Name()), nil
}

// AcceptProcessor handles AcceptOrderCmd.
type AcceptProcessor struct {
	runner   *runner
	pipeline *pipeline.Pipeline[*OrderTaskContext]
}

// NewAcceptProcessor assembles the acceptance pipeline.
func NewAcceptProcessor(deps Dependencies, opts ...Option) *AcceptProcessor {
	o := buildOptions(opts)
	return &AcceptProcessor{
		runner: newRunner("accept", deps, o),
		pipeline: pipeline.New[*OrderTaskContext](AcceptPipelineName,
			NewAcceptOrderTask(deps.Orders, deps.Machine),
			NewAppendEventTask(deps.Events, PriorityAppendAccept),
			NewPublishOrderEventTask(deps.Outbox, deps.Logger, PriorityPublishAccepted),
		),
	}
}

// Process moves an acknowledged order to LIVE.
func (p *AcceptProcessor) Process(ctx context.Context, cmd *orderv1.AcceptOrderCmd) (*Result, error) {
	start := time.Now()
	ctx, cancel := p.runner.withTimeout(ctx)
	defer cancel()

	if cmd == nil || cmd.OrderID == "" {
		return p.runner.finish(ctx, start, failure(errors.ValidationError, msgOrderIDRequired), nil)
	}
	ctx = util.WithOrderID(ctx, cmd.OrderID)

	unlock, res, err := p.runner.lock(ctx, cmd.OrderID)
	if err != nil {
		return p.runner.finish(ctx, start, res, err)
	}
	defer unlock()

	tc := NewOrderTaskContext(cmd, orderv1.EventAccept)
	res, err = p.runner.inTx(ctx, p.pipeline, tc, loadOrder(p.runner, tc, cmd.OrderID))
	return p.runner.finish(ctx, start, res, err)
}

// loadOrder locks the order row and puts it on tc, or reports NOT_FOUND.
func loadOrder(r *runner, tc *OrderTaskContext, orderID string) func(context.Context) (*Result, error) {
	return func(txCtx context.Context) (*Result, error) {
		o, err := r.deps.Orders.FindByOrderIDForUpdate(txCtx, orderID)
		if err != nil {
			return failure(errors.FatalError, msgFatal), errors.TracerFromError(err)
		}
		if o == nil {
			res := failure(errors.OrderNotFoundError, notFoundMessage(orderID))
			res.OrderID = orderID
			return res, nil
		}
		tc.Order = o
		return nil, nil
	}
}
