package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderCmd asks to create a new order.
type CreateOrderCmd struct {
	SessionID     string              `json:"sessionId"`
	ClOrdID       string              `json:"clOrdId"`
	Account       string              `json:"account"`
	Symbol        string              `json:"symbol"`
	Side          Side                `json:"side"`
	OrdType       OrdType             `json:"ordType"`
	OrderQty      decimal.Decimal     `json:"orderQty"`
	Price         decimal.NullDecimal `json:"price"`
	StopPx        decimal.NullDecimal `json:"stopPx"`
	TimeInForce   TimeInForce         `json:"timeInForce,omitempty"`
	ParentOrderID string              `json:"parentOrderId,omitempty"`
	RootOrderID   string              `json:"rootOrderId,omitempty"`
	// OrderID may be pre-assigned by an upstream gateway.
	OrderID     string     `json:"orderId,omitempty"`
	SendingTime *time.Time `json:"sendingTime,omitempty"`
	ExpireTime  *time.Time `json:"expireTime,omitempty"`
	Text        string     `json:"text,omitempty"`
}

// ToOrder builds the initial order the command describes.
func (c *CreateOrderCmd) ToOrder() *Order {
	o := &Order{
		OrderID:       c.OrderID,
		ParentOrderID: c.ParentOrderID,
		RootOrderID:   c.RootOrderID,
		SessionID:     c.SessionID,
		ClOrdID:       c.ClOrdID,
		Account:       c.Account,
		Symbol:        c.Symbol,
		Side:          c.Side,
		OrdType:       c.OrdType,
		Price:         c.Price,
		StopPx:        c.StopPx,
		OrderQty:      c.OrderQty,
		CumQty:        decimal.Zero,
		LeavesQty:     c.OrderQty,
		AllocQty:      decimal.Zero,
		TimeInForce:   c.TimeInForce,
		ExpireTime:    c.ExpireTime,
		Text:          c.Text,
	}
	if c.SendingTime != nil {
		o.SendingTime = *c.SendingTime
	}
	return o
}

// AcceptOrderCmd asks to move an acknowledged order to LIVE.
type AcceptOrderCmd struct {
	OrderID string `json:"orderId"`
}

// ExecutionCmd reports a fill against a LIVE order.
type ExecutionCmd struct {
	OrderID      string          `json:"orderId"`
	ExecID       string          `json:"execId"`
	ExecType     string          `json:"execType,omitempty"`
	LastQty      decimal.Decimal `json:"lastQty"`
	LastPx       decimal.Decimal `json:"lastPx"`
	LastMkt      string          `json:"lastMkt,omitempty"`
	TransactTime *time.Time      `json:"transactTime,omitempty"`
}

// ToExecution builds the execution row before quantities are calculated.
func (c *ExecutionCmd) ToExecution() *Execution {
	e := &Execution{
		ExecID:   c.ExecID,
		OrderID:  c.OrderID,
		ExecType: c.ExecType,
		LastQty:  c.LastQty,
		LastPx:   c.LastPx,
		LastMkt:  c.LastMkt,
	}
	if c.TransactTime != nil {
		e.TransactTime = *c.TransactTime
	}
	return e
}
