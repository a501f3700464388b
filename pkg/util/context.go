package util

import (
	"context"
)

type key string

const (
	requestIDKey = key("x-request-id")
	commandIDKey = key("command-id")
	orderIDKey   = key("order-id")
)

// WithRequestID returns a context with request id.
// A new id is generated when the provided one is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = GenerateID()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// WithCommandID returns a context carrying the id of the command being processed.
func WithCommandID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, commandIDKey, id)
}

// WithOrderID returns a context carrying the order id the current work applies to.
func WithOrderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, orderIDKey, id)
}

// GetRequestID returns request id from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetCommandID returns command id from context
func GetCommandID(ctx context.Context) string {
	id, _ := ctx.Value(commandIDKey).(string)
	return id
}

// GetOrderID returns order id from context
func GetOrderID(ctx context.Context) string {
	id, _ := ctx.Value(orderIDKey).(string)
	return id
}
