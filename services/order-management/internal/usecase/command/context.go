package command

import (
	"github.com/muhammadchandra19/exchange/pkg/errors"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/pipeline"
	"github.com/shopspring/decimal"
)

// OrderTaskContext is the state shared by the tasks of one command invocation.
type OrderTaskContext struct {
	*pipeline.TaskContext

	Order *orderv1.Order
	// Command is the inbound command, journaled by AppendEventTask.
	Command   any
	Execution *orderv1.Execution
	EventKind orderv1.EventKind

	TargetState   orderv1.State
	PreviousState orderv1.State

	GeneratedOrderID    string
	CalculatedCumQty    decimal.Decimal
	CalculatedLeavesQty decimal.Decimal
	quantitiesSet       bool

	OutboxID int64

	ValidationFailed  bool
	ValidationMessage string
	ErrorCode         errors.ErrorCode
}

// NewOrderTaskContext creates a context for one command.
func NewOrderTaskContext(cmd any, kind orderv1.EventKind) *OrderTaskContext {
	return &OrderTaskContext{
		TaskContext: pipeline.NewTaskContext(),
		Command:     cmd,
		EventKind:   kind,
	}
}

// MarkFailed records why the command was rejected.
func (c *OrderTaskContext) MarkFailed(code errors.ErrorCode, message string) {
	c.ValidationFailed = true
	c.ValidationMessage = message
	c.ErrorCode = code
}

// SetQuantities stores the quantities an execution leads to.
func (c *OrderTaskContext) SetQuantities(cum, leaves decimal.Decimal) {
	c.CalculatedCumQty = cum
	c.CalculatedLeavesQty = leaves
	c.quantitiesSet = true
}

// HasQuantities reports whether SetQuantities ran.
func (c *OrderTaskContext) HasQuantities() bool {
	return c.quantitiesSet
}
