package command

import (
	"fmt"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

const (
	msgOrderIDRequired = "orderId is required"
	msgFatal           = "Command processing failed"
	msgConflict        = "Order %s was modified concurrently"
)

func notFoundMessage(orderID string) string {
	return fmt.Sprintf("Order not found: %s", orderID)
}

func duplicateMessage(sessionID, clOrdID string) string {
	return fmt.Sprintf("Duplicate order for sessionId=%s and clOrdId=%s", sessionID, clOrdID)
}

func transitionMessage(from, to orderv1.State, orderID string) string {
	return fmt.Sprintf("Invalid state transition from %s to %s for order %s", from, to, orderID)
}

// fatal builds the result returned with a non-nil error. Concurrent updates keep their own code.
func fatal(err error, orderID string) *Result {
	if errors.ErrorCodeEquals(err, string(errors.ConcurrentUpdateError)) {
		return failure(errors.ConcurrentUpdateError, fmt.Sprintf(msgConflict, orderID))
	}
	return failure(errors.FatalError, msgFatal)
}
