package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the order side.
type Side string

const (
	// SideBuy buys the instrument.
	SideBuy Side = "BUY"
	// SideSell sells the instrument.
	SideSell Side = "SELL"
	// SideSellShort sells an instrument not owned.
	SideSellShort Side = "SELL_SHORT"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	switch s {
	case SideBuy, SideSell, SideSellShort:
		return true
	}
	return false
}

// OrdType is the order type.
type OrdType string

const (
	// OrdTypeMarket executes at the best available price.
	OrdTypeMarket OrdType = "MARKET"
	// OrdTypeLimit executes at Price or better.
	OrdTypeLimit OrdType = "LIMIT"
	// OrdTypeStop becomes a market order once StopPx is reached.
	OrdTypeStop OrdType = "STOP"
	// OrdTypeStopLimit becomes a limit order once StopPx is reached.
	OrdTypeStopLimit OrdType = "STOP_LIMIT"
)

// Valid reports whether t is a known order type.
func (t OrdType) Valid() bool {
	switch t {
	case OrdTypeMarket, OrdTypeLimit, OrdTypeStop, OrdTypeStopLimit:
		return true
	}
	return false
}

// RequiresPrice reports whether the order type needs a limit price.
func (t OrdType) RequiresPrice() bool {
	return t == OrdTypeLimit || t == OrdTypeStopLimit
}

// RequiresStopPx reports whether the order type needs a stop price.
func (t OrdType) RequiresStopPx() bool {
	return t == OrdTypeStop || t == OrdTypeStopLimit
}

// TimeInForce is how long an order stays working.
type TimeInForce string

const (
	// TimeInForceDay expires at the end of the trading day.
	TimeInForceDay TimeInForce = "DAY"
	// TimeInForceGTC stays working until cancelled.
	TimeInForceGTC TimeInForce = "GTC"
	// TimeInForceIOC fills what it can immediately and cancels the rest.
	TimeInForceIOC TimeInForce = "IOC"
	// TimeInForceFOK fills completely or not at all.
	TimeInForceFOK TimeInForce = "FOK"
	// TimeInForceGTD stays working until ExpireTime.
	TimeInForceGTD TimeInForce = "GTD"
)

// Valid reports whether t is a known time in force.
func (t TimeInForce) Valid() bool {
	switch t {
	case TimeInForceDay, TimeInForceGTC, TimeInForceIOC, TimeInForceFOK, TimeInForceGTD:
		return true
	}
	return false
}

// Order is a client instruction to buy or sell an instrument.
type Order struct {
	ID            int64               `json:"id"`
	OrderID       string              `json:"orderId"`
	ParentOrderID string              `json:"parentOrderId,omitempty"`
	RootOrderID   string              `json:"rootOrderId,omitempty"`
	SessionID     string              `json:"sessionId"`
	ClOrdID       string              `json:"clOrdId"`
	Account       string              `json:"account"`
	Symbol        string              `json:"symbol"`
	Side          Side                `json:"side"`
	OrdType       OrdType             `json:"ordType"`
	Price         decimal.NullDecimal `json:"price"`
	StopPx        decimal.NullDecimal `json:"stopPx"`
	OrderQty      decimal.Decimal     `json:"orderQty"`
	CumQty        decimal.Decimal     `json:"cumQty"`
	LeavesQty     decimal.Decimal     `json:"leavesQty"`
	AllocQty      decimal.Decimal     `json:"allocQty"`
	TimeInForce   TimeInForce         `json:"timeInForce,omitempty"`
	State         State               `json:"state"`
	CancelState   CancelState         `json:"cancelState,omitempty"`
	SendingTime   time.Time           `json:"sendingTime"`
	TransactTime  time.Time           `json:"transactTime"`
	ExpireTime    *time.Time          `json:"expireTime,omitempty"`
	Text          string              `json:"text,omitempty"`
	// Version increases by one on every successful update.
	Version int64 `json:"version"`
}

// Clone returns a deep copy of o.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.ExpireTime != nil {
		t := *o.ExpireTime
		c.ExpireTime = &t
	}
	return &c
}

// Execution is a fill reported against an order.
type Execution struct {
	ID           int64           `json:"id"`
	ExecID       string          `json:"execId"`
	OrderID      string          `json:"orderId"`
	ExecType     string          `json:"execType,omitempty"`
	LastQty      decimal.Decimal `json:"lastQty"`
	LastPx       decimal.Decimal `json:"lastPx"`
	AvgPx        decimal.Decimal `json:"avgPx"`
	CumQty       decimal.Decimal `json:"cumQty"`
	LeavesQty    decimal.Decimal `json:"leavesQty"`
	LastMkt      string          `json:"lastMkt,omitempty"`
	TransactTime time.Time       `json:"transactTime"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Clone returns a copy of e.
func (e *Execution) Clone() *Execution {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
