package command

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/util"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
)

// ExecutionPipelineName names the execution pipeline in logs and metrics.
const ExecutionPipelineName = "order-execution"

// ExecutionProcessor handles ExecutionCmd.
type ExecutionProcessor struct {
	runner   *runner
	pipeline *pipeline.Pipeline[*OrderTaskContext]
}

// NewExecutionProcessor assembles the execution pipeline.
func NewExecutionProcessor(deps Dependencies, opts ...Option) *ExecutionProcessor {
	o := buildOptions(opts)
	return &ExecutionProcessor{
		runner: newRunner("execution", deps, o),
		pipeline: pipeline.New[*OrderTaskContext](ExecutionPipelineName,
			ValidateExecutionTask{},
			NewCalculateQuantitiesTask(deps.Executions),
			NewDetermineStateTask(deps.Machine, o.closeOnFill),
			NewPersistExecutionTask(deps.Executions),
			NewUpdateOrderTask(deps.Orders, deps.Logger),
			NewAppendEventTask(deps.Events, PriorityAppendExecution),
			NewPublishOrderEventTask(deps.Outbox, deps.Logger, PriorityPublishExecution),
		),
	}
}

// Process applies a fill to a LIVE order.
func (p *ExecutionProcessor) Process(ctx context.Context, cmd *orderv1.ExecutionCmd) (*Result, error) {
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

	tc := NewOrderTaskContext(cmd, orderv1.EventExecution)
	tc.Execution = cmd.ToExecution()

	res, err = p.runner.inTx(ctx, p.pipeline, tc, loadOrder(p.runner, tc, cmd.OrderID))
	if res.Success {
		res.ExecutionID = tc.Execution.ExecID
	}
	return p.runner.finish(ctx, start, res, err)
}
