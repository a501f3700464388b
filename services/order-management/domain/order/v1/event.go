package v1

import (
	"encoding/json"
	"time"
)

// EventKind names the command that produced an OrderEvent.
type EventKind string

const (
	// EventNewOrder is appended when an order is created.
	EventNewOrder EventKind = "NEW_ORDER"
	// EventAccept is appended when an order is accepted.
	EventAccept EventKind = "ACCEPT"
	// EventExecution is appended when an execution is applied.
	EventExecution EventKind = "EXECUTION"
)

// OrderEvent is an append-only journal entry of a processed command.
type OrderEvent struct {
	ID      int64     `json:"id"`
	OrderID string    `json:"orderId"`
	Event   EventKind `json:"event"`
	// Transaction is the JSON encoded command that caused the event.
	Transaction json.RawMessage `json:"transaction"`
	Timestamp   time.Time       `json:"timestamp"`
}

// OutboxRecord is a committed order snapshot waiting to be published.
type OutboxRecord struct {
	ID        int64     `json:"id"`
	Order     *Order    `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}
