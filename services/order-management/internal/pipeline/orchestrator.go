package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/metrics"
)

// Orchestrator runs pipelines over a task input type.
type Orchestrator[T any] struct {
	logger  logger.Interface
	metrics *metrics.Metrics
}

// NewOrchestrator creates an Orchestrator. m may be nil.
func NewOrchestrator[T any](log logger.Interface, m *metrics.Metrics) *Orchestrator[T] {
	return &Orchestrator[T]{logger: log, metrics: m}
}

// Execute runs the tasks of p in order against tc. It stops at the first FAILED
// result, which is returned through PipelineResult with a nil error. A task
// error, a panic or a cancelled context stops the run with a *TaskExecutionError.
func (o *Orchestrator[T]) Execute(ctx context.Context, p *Pipeline[T], tc T) (*PipelineResult, error) {
	start := time.Now()
	res := &PipelineResult{Pipeline: p.Name(), Results: make([]Result, 0, p.Len())}

	finish := func(success bool) {
		res.Success = success
		res.Elapsed = time.Since(start)
		o.metrics.ObservePipeline(p.Name(), success, res.Elapsed)
	}

	for _, task := range p.tasks {
		if err := ctx.Err(); err != nil {
			finish(false)
			return res, &TaskExecutionError{Pipeline: p.Name(), TaskName: task.Name(), Err: err}
		}

		if cond, ok := task.(ConditionalTask[T]); ok && !cond.ShouldExecute(tc) {
			skipped := Skipped(task.Name(), cond.SkipReason(tc))
			res.Results = append(res.Results, skipped)
			o.metrics.ObserveTask(p.Name(), task.Name(), string(StatusSkipped))
			o.logger.DebugContext(ctx, "Task skipped",
				logger.NewField("pipeline", p.Name()),
				logger.NewField("task", task.Name()),
				logger.NewField("reason", skipped.Message),
			)
			continue
		}

		taskStart := time.Now()
		result, err := o.run(ctx, p.Name(), task, tc)
		if err != nil {
			finish(false)
			o.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.NewField("pipeline", p.Name()),
				logger.NewField("task", task.Name()),
			)
			return res, err
		}
		if result.TaskName == "" {
			result.TaskName = task.Name()
		}
		result.Elapsed = time.Since(taskStart)
		res.Results = append(res.Results, result)
		o.metrics.ObserveTask(p.Name(), task.Name(), string(result.Status))

		switch result.Status {
		case StatusFailed:
			finish(false)
			o.logger.WarnContext(ctx, "Pipeline stopped by failed task",
				logger.NewField("pipeline", p.Name()),
				logger.NewField("task", task.Name()),
				logger.NewField("message", result.Message),
			)
			return res, nil
		case StatusWarning:
			o.logger.WarnContext(ctx, "Task completed with warning",
				logger.NewField("pipeline", p.Name()),
				logger.NewField("task", task.Name()),
				logger.NewField("message", result.Message),
			)
		default:
			o.logger.DebugContext(ctx, "Task completed",
				logger.NewField("pipeline", p.Name()),
				logger.NewField("task", task.Name()),
				logger.NewField("elapsed", result.Elapsed),
			)
		}
	}

	finish(true)
	return res, nil
}

func (o *Orchestrator[T]) run(ctx context.Context, pipelineName string, task Task[T], tc T) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			err = &TaskExecutionError{Pipeline: pipelineName, TaskName: task.Name(), Err: perr, Panicked: true}
		}
	}()

	result, err = task.Execute(ctx, tc)
	if err != nil {
		return result, &TaskExecutionError{Pipeline: pipelineName, TaskName: task.Name(), Err: err}
	}
	return result, nil
}
