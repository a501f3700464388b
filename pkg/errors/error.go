package errors

import (
	"bytes"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// ValidationError is returned when a command fails field validation.
	ValidationError ErrorCode = "VALIDATION"
	// StateTransitionError is returned when the order state machine rejects a transition.
	StateTransitionError ErrorCode = "STATE_TRANSITION"
	// DuplicateOrderError is returned when (sessionId, clOrdId) already exists.
	DuplicateOrderError ErrorCode = "DUPLICATE_ORDER"
	// OrderNotFoundError is returned when the referenced order does not exist.
	OrderNotFoundError ErrorCode = "NOT_FOUND"
	// ConcurrentUpdateError is returned when the stored order version moved underneath an update.
	ConcurrentUpdateError ErrorCode = "CONFLICT"
	// FatalError is returned when a task or the store fails outside of business validation.
	FatalError ErrorCode = "FATAL"

	// OutboxPublishError represents an error when the bus did not acknowledge an outbox record.
	OutboxPublishError ErrorCode = "outbox_publish_error"
	// StateMachineConfigError represents an invalid state machine definition.
	StateMachineConfigError ErrorCode = "state_machine_config_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisSetNXError represents an error when setting a value in Redis with SetNX.
	RedisSetNXError ErrorCode = "redis_setnx_error"
	// RedisEvalError represents an error when running a script in Redis.
	RedisEvalError ErrorCode = "redis_eval_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// Command validation collects every field problem into one BaseError.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether at least one ErrorDetails was collected.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Messages returns the message of every ErrorDetails in insertion order.
func (b *BaseError) Messages() []string {
	messages := make([]string, 0, len(b.details))
	for _, d := range b.details {
		messages = append(messages, d.Message)
	}
	return messages
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}
