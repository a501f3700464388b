package command

import (
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

// Result is what a processor reports for one command.
type Result struct {
	Success       bool
	OrderID       string
	ExecutionID   string
	State         orderv1.State
	ErrorMessage  string
	ErrorCode     errors.ErrorCode
	Elapsed       time.Duration
	TasksExecuted int
}

func failure(code errors.ErrorCode, message string) *Result {
	return &Result{ErrorCode: code, ErrorMessage: message}
}

// outcome is the metrics label for r.
func (r *Result) outcome() string {
	if r.Success {
		return "success"
	}
	return string(r.ErrorCode)
}
