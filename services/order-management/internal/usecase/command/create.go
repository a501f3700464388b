package command

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/util"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
)

// CreatePipelineName names the creation pipeline in logs and metrics.
const CreatePipelineName = "order-create"

// CreateProcessor handles CreateOrderCmd.
type CreateProcessor struct {
	runner   *runner
	pipeline *pipeline.Pipeline[*OrderTaskContext]
}

// NewCreateProcessor assembles the creation pipeline.
func NewCreateProcessor(deps Dependencies, opts ...Option) *CreateProcessor {
	o := buildOptions(opts)
	return &CreateProcessor{
		runner: newRunner("create", deps, o),
		pipeline: pipeline.New[*OrderTaskContext](CreatePipelineName,
			ValidateOrderTask{},
			NewAssignOrderIDTask(o.newOrderID),
			NewSetOrderStateTask(deps.Machine),
			NewPersistOrderTask(deps.Orders, deps.Logger),
			NewAppendEventTask(deps.Events, PriorityAppendNewEvent),
			NewPublishOrderEventTask(deps.Outbox, deps.Logger, PriorityPublishNew),
		),
	}
}

// Pipeline returns the assembled pipeline.
func (p *CreateProcessor) Pipeline() *pipeline.Pipeline[*OrderTaskContext] {
	return p.pipeline
}

// Process validates, stores and announces a new order.
func (p *CreateProcessor) Process(ctx context.Context, cmd *orderv1.CreateOrderCmd) (*Result, error) {
	start := time.Now()
	ctx, cancel := p.runner.withTimeout(ctx)
	defer cancel()

	if cmd == nil {
		return p.runner.finish(ctx, start, failure(errors.ValidationError, "Order is required"), nil)
	}
	if cmd.OrderID != "" {
		ctx = util.WithOrderID(ctx, cmd.OrderID)
	}

	tc := NewOrderTaskContext(cmd, orderv1.EventNewOrder)
	tc.Order = cmd.ToOrder()

	unlock, res, err := p.runner.lock(ctx, "session:"+cmd.SessionID+":"+cmd.ClOrdID)
	if err != nil {
		return p.runner.finish(ctx, start, res, err)
	}
	defer unlock()

	res, err = p.runner.inTx(ctx, p.pipeline, tc, nil)
	return p.runner.finish(ctx, start, res, err)
}
