package v1

import (
	"encoding/json"
	"time"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/shopspring/decimal"
)

// OrderMessage is the order snapshot announced on the bus after every committed mutation.
type OrderMessage struct {
	// EventID is the outbox record id. Consumers use it to drop redeliveries.
	EventID       int64               `json:"eventId"`
	OrderID       string              `json:"orderId"`
	ParentOrderID string              `json:"parentOrderId,omitempty"`
	RootOrderID   string              `json:"rootOrderId"`
	SessionID     string              `json:"sessionId"`
	ClOrdID       string              `json:"clOrdId"`
	Account       string              `json:"account"`
	Symbol        string              `json:"symbol"`
	Side          orderv1.Side        `json:"side"`
	OrdType       orderv1.OrdType     `json:"ordType"`
	Price         *decimal.Decimal    `json:"price,omitempty"`
	StopPx        *decimal.Decimal    `json:"stopPx,omitempty"`
	OrderQty      decimal.Decimal     `json:"orderQty"`
	CumQty        decimal.Decimal     `json:"cumQty"`
	LeavesQty     decimal.Decimal     `json:"leavesQty"`
	TimeInForce   orderv1.TimeInForce `json:"timeInForce,omitempty"`
	State         orderv1.State       `json:"state"`
	CancelState   orderv1.CancelState `json:"cancelState,omitempty"`
	SendingTime   time.Time           `json:"sendingTime"`
	TransactTime  time.Time           `json:"transactTime"`
	ExpireTime    *time.Time          `json:"expireTime,omitempty"`
	Text          string              `json:"text,omitempty"`
	Version       int64               `json:"version"`
}

// CreateFromRecord maps an outbox record to the message published for it.
func CreateFromRecord(record *orderv1.OutboxRecord) *OrderMessage {
	o := record.Order
	msg := &OrderMessage{
		EventID:       record.ID,
		OrderID:       o.OrderID,
		ParentOrderID: o.ParentOrderID,
		RootOrderID:   o.RootOrderID,
		SessionID:     o.SessionID,
		ClOrdID:       o.ClOrdID,
		Account:       o.Account,
		Symbol:        o.Symbol,
		Side:          o.Side,
		OrdType:       o.OrdType,
		OrderQty:      o.OrderQty,
		CumQty:        o.CumQty,
		LeavesQty:     o.LeavesQty,
		TimeInForce:   o.TimeInForce,
		State:         o.State,
		CancelState:   o.CancelState,
		SendingTime:   o.SendingTime,
		TransactTime:  o.TransactTime,
		ExpireTime:    o.ExpireTime,
		Text:          o.Text,
		Version:       o.Version,
	}
	if msg.RootOrderID == "" {
		msg.RootOrderID = o.OrderID
	}
	if o.Price.Valid {
		p := o.Price.Decimal
		msg.Price = &p
	}
	if o.StopPx.Valid {
		p := o.StopPx.Decimal
		msg.StopPx = &p
	}
	return msg
}

// Key is the partition key. Messages of one order keep their relative order.
func (m *OrderMessage) Key() string {
	return m.OrderID
}

// ToBytes encodes the message as JSON.
func (m *OrderMessage) ToBytes() ([]byte, error) {
	return json.Marshal(m)
}

// FromBytes decodes a message produced by ToBytes.
func FromBytes(data []byte) (*OrderMessage, error) {
	var m OrderMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
