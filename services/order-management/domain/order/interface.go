package order

import (
	"context"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/usecase/command"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// CreateProcessor handles order creation commands.
type CreateProcessor interface {
	Process(ctx context.Context, cmd *orderv1.CreateOrderCmd) (*command.Result, error)
}

// AcceptProcessor handles order acceptance commands.
type AcceptProcessor interface {
	Process(ctx context.Context, cmd *orderv1.AcceptOrderCmd) (*command.Result, error)
}

// ExecutionProcessor handles execution reports.
type ExecutionProcessor interface {
	Process(ctx context.Context, cmd *orderv1.ExecutionCmd) (*command.Result, error)
}
