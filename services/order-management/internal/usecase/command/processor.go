package command

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/event"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/execution"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/outbox"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/metrics"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/statemachine"
)

// Dependencies are the collaborators shared by every processor.
type Dependencies struct {
	Orders     order.OrderRepository
	Events     event.EventRepository
	Executions execution.ExecutionRepository
	Outbox     outbox.OutboxRepository
	Tx         postgresql.Transaction
	Machine    *statemachine.Machine
	Logger     logger.Interface
}

// Option configures a processor.
type Option func(*options)

type options struct {
	notifier    Notifier
	locker      Locker
	metrics     *metrics.Metrics
	timeout     time.Duration
	closeOnFill bool
	newOrderID  func() string
}

// WithNotifier sets who is told about committed outbox records.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLocker serializes commands per order.
func WithLocker(l Locker) Option {
	return func(o *options) { o.locker = l }
}

// WithMetrics records command outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTimeout bounds each command. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithCloseOnFill closes filled orders immediately when the profile allows FILLED to CLOSED.
func WithCloseOnFill(enabled bool) Option {
	return func(o *options) { o.closeOnFill = enabled }
}

// WithOrderIDGenerator replaces the "ORD-<uuid>" generator.
func WithOrderIDGenerator(fn func() string) Option {
	return func(o *options) { o.newOrderID = fn }
}

func buildOptions(opts []Option) options {
	o := options{
		notifier: noopNotifier{},
		locker:   noopLocker{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// runner executes a pipeline inside one transaction and maps the outcome to a Result.
type runner struct {
	command      string
	deps         Dependencies
	opts         options
	orchestrator *pipeline.Orchestrator[*OrderTaskContext]
}

func newRunner(command string, deps Dependencies, opts options) *runner {
	return &runner{
		command:      command,
		deps:         deps,
		opts:         opts,
		orchestrator: pipeline.NewOrchestrator[*OrderTaskContext](deps.Logger, opts.metrics),
	}
}

func (r *runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.opts.timeout)
}

// lock takes the per-order lock and returns a fatal result when it cannot.
func (r *runner) lock(ctx context.Context, key string) (func(), *Result, error) {
	unlock, err := r.opts.locker.Lock(ctx, key)
	if err != nil {
		return nil, failure(errors.FatalError, msgFatal), errors.TracerFromError(err)
	}
	return unlock, nil, nil
}

// inTx runs load then the pipeline in one transaction. load may return a
// structured failure, which rolls back without running the pipeline.
func (r *runner) inTx(
	ctx context.Context,
	p *pipeline.Pipeline[*OrderTaskContext],
	tc *OrderTaskContext,
	load func(txCtx context.Context) (*Result, error),
) (*Result, error) {
	txCtx, err := r.deps.Tx.Begin(ctx)
	if err != nil {
		return failure(errors.FatalError, msgFatal), errors.TracerFromError(err)
	}
	defer func() {
		if rbErr := r.deps.Tx.Rollback(txCtx); rbErr != nil {
			r.deps.Logger.ErrorContext(ctx, errors.TracerFromError(rbErr), logger.NewField("command", r.command))
		}
	}()

	if load != nil {
		res, err := load(txCtx)
		if err != nil || res != nil {
			return res, err
		}
	}

	pr, err := r.orchestrator.Execute(txCtx, p, tc)
	if err != nil {
		res := fatal(err, orderIDOf(tc))
		res.TasksExecuted = pr.TasksExecuted()
		return res, errors.TracerFromError(err)
	}
	if !pr.Success {
		res := failure(tc.ErrorCode, tc.ValidationMessage)
		if f, ok := pr.Failure(); ok && res.ErrorMessage == "" {
			res.ErrorMessage = f.Message
		}
		if res.ErrorCode == "" {
			res.ErrorCode = errors.ValidationError
		}
		res.OrderID = orderIDOf(tc)
		res.TasksExecuted = pr.TasksExecuted()
		return res, nil
	}

	if err := r.deps.Tx.Commit(txCtx); err != nil {
		res := fatal(err, orderIDOf(tc))
		res.TasksExecuted = pr.TasksExecuted()
		return res, errors.TracerFromError(err)
	}
	if tc.OutboxID != 0 {
		r.opts.notifier.Notify(tc.OutboxID)
	}

	return &Result{
		Success:       true,
		OrderID:       tc.Order.OrderID,
		State:         tc.Order.State,
		TasksExecuted: pr.TasksExecuted(),
	}, nil
}

// finish stamps the elapsed time, logs and records the outcome.
func (r *runner) finish(ctx context.Context, start time.Time, res *Result, err error) (*Result, error) {
	res.Elapsed = time.Since(start)
	r.opts.metrics.ObserveCommand(r.command, res.outcome(), res.Elapsed)

	fields := []logger.Field{
		logger.NewField("command", r.command),
		logger.NewField("order_id", res.OrderID),
		logger.NewField("elapsed", res.Elapsed),
	}
	switch {
	case err != nil:
		r.deps.Logger.ErrorContext(ctx, err, append(fields, logger.NewField("error_code", res.ErrorCode))...)
	case !res.Success:
		r.deps.Logger.WarnContext(ctx, "Command rejected", append(fields,
			logger.NewField("error_code", res.ErrorCode),
			logger.NewField("error_message", res.ErrorMessage),
		)...)
	default:
		r.deps.Logger.InfoContext(ctx, "Command processed", append(fields, logger.NewField("state", res.State))...)
	}
	return res, err
}

func orderIDOf(tc *OrderTaskContext) string {
	if tc.Order == nil {
		return ""
	}
	return tc.Order.OrderID
}
