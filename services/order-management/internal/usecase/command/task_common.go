package command

import (
	"context"
	"encoding/json"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/event"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/outbox"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
)

// AppendEventTask journals the inbound command against the order.
type AppendEventTask struct {
	events   event.EventRepository
	priority int
}

// NewAppendEventTask creates the task at the given priority.
func NewAppendEventTask(events event.EventRepository, priority int) *AppendEventTask {
	return &AppendEventTask{events: events, priority: priority}
}

func (t *AppendEventTask) Name() string  { return "AppendEventTask" }
func (t *AppendEventTask) Priority() int { return t.priority }

// Execute appends one OrderEvent of tc.EventKind.
func (t *AppendEventTask) Execute(ctx context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	payload, err := json.Marshal(tc.Command)
	if err != nil {
		return pipeline.Result{}, err
	}

	e := &orderv1.OrderEvent{
		OrderID:     tc.Order.OrderID,
		Event:       tc.EventKind,
		Transaction: payload,
	}
	if err := t.events.Append(ctx, e); err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Success(t.Name()), nil
}

// PublishOrderEventTask writes the outbox record for the order snapshot. The
// processor notifies the publisher with tc.OutboxID after commit.
type PublishOrderEventTask struct {
	outbox   outbox.OutboxRepository
	logger   logger.Interface
	priority int
}

// NewPublishOrderEventTask creates the task at the given priority.
func NewPublishOrderEventTask(outbox outbox.OutboxRepository, log logger.Interface, priority int) *PublishOrderEventTask {
	return &PublishOrderEventTask{outbox: outbox, logger: log, priority: priority}
}

func (t *PublishOrderEventTask) Name() string  { return "PublishOrderEventTask" }
func (t *PublishOrderEventTask) Priority() int { return t.priority }

// Execute saves a snapshot of tc.Order.
func (t *PublishOrderEventTask) Execute(ctx context.Context, tc *OrderTaskContext) (pipeline.Result, error) {
	record := &orderv1.OutboxRecord{Order: tc.Order.Clone()}
	if err := t.outbox.Save(ctx, record); err != nil {
		return pipeline.Result{}, err
	}
	tc.OutboxID = record.ID

	t.logger.DebugContext(ctx, "Created outbox entry",
		logger.NewField("outbox_id", record.ID),
		logger.NewField("order_id", tc.Order.OrderID),
	)
	return pipeline.Success(t.Name()), nil
}
