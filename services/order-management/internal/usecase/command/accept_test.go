package command

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	pkgErrors "github.com/muhammadchandra19/exchange/pkg/errors"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/memory"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order"
	orderMock "github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order/mock"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/statemachine"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createdOrder(t *testing.T, store *memory.Store, machine *statemachine.Machine) string {
	t.Helper()
	res, err := NewCreateProcessor(memoryDeps(store, machine), WithOrderIDGenerator(sequentialIDs())).
		Process(context.Background(), limitBuy("S1", "C1"))
	require.NoError(t, err)
	require.True(t, res.Success, res.ErrorMessage)
	return res.OrderID
}

func TestAcceptProcessor_Accept(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	orderID := createdOrder(t, store, statemachine.Standard())

	notifier := &spyNotifier{}
	locker := &spyLocker{}
	p := NewAcceptProcessor(memoryDeps(store, statemachine.Standard()), WithNotifier(notifier), WithLocker(locker))

	res, err := p.Process(ctx, &orderv1.AcceptOrderCmd{OrderID: orderID})
	require.NoError(t, err)
	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, orderv1.StateLive, res.State)
	assert.Equal(t, orderID, res.OrderID)
	assert.Equal(t, 3, res.TasksExecuted)
	assert.Equal(t, []string{orderID}, locker.keys)

	stored, err := store.Orders().FindByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderv1.StateLive, stored.State)
	assert.Equal(t, int64(2), stored.Version)

	events, err := store.Events().FindByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, orderv1.EventAccept, events[1].Event)

	pending, err := store.Outbox().FindAllPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, orderv1.StateLive, pending[1].Order.State)
	assert.Equal(t, []int64{pending[1].ID}, notifier.IDs())
}

func TestAcceptProcessor_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		cmd      *orderv1.AcceptOrderCmd
		mockFn   func(orders *orderMock.MockOrderRepository)
		assertFn func(t *testing.T, res *Result, err error)
	}{
		{
			name:   "missing order id",
			cmd:    &orderv1.AcceptOrderCmd{},
			mockFn: func(*orderMock.MockOrderRepository) {},
			assertFn: func(t *testing.T, res *Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, pkgErrors.ValidationError, res.ErrorCode)
				assert.Equal(t, "orderId is required", res.ErrorMessage)
			},
		},
		{
			name: "order not found",
			cmd:  &orderv1.AcceptOrderCmd{OrderID: "ORD-404"},
			mockFn: func(orders *orderMock.MockOrderRepository) {
				orders.EXPECT().FindByOrderIDForUpdate(gomock.Any(), "ORD-404").Return(nil, nil)
			},
			assertFn: func(t *testing.T, res *Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, pkgErrors.OrderNotFoundError, res.ErrorCode)
				assert.Equal(t, "Order not found: ORD-404", res.ErrorMessage)
				assert.Equal(t, "ORD-404", res.OrderID)
				assert.Zero(t, res.TasksExecuted)
			},
		},
		{
			name: "order still NEW",
			cmd:  &orderv1.AcceptOrderCmd{OrderID: "ORD-1"},
			mockFn: func(orders *orderMock.MockOrderRepository) {
				orders.EXPECT().FindByOrderIDForUpdate(gomock.Any(), "ORD-1").
					Return(&orderv1.Order{OrderID: "ORD-1", State: orderv1.StateNew, Version: 1}, nil)
			},
			assertFn: func(t *testing.T, res *Result, err error) {
				require.NoError(t, err)
				assert.False(t, res.Success)
				assert.Equal(t, pkgErrors.StateTransitionError, res.ErrorCode)
				assert.Equal(t, "Invalid state transition from NEW to LIVE for order ORD-1", res.ErrorMessage)
				assert.Equal(t, 1, res.TasksExecuted)
			},
		},
		{
			name: "order already filled",
			cmd:  &orderv1.AcceptOrderCmd{OrderID: "ORD-1"},
			mockFn: func(orders *orderMock.MockOrderRepository) {
				orders.EXPECT().FindByOrderIDForUpdate(gomock.Any(), "ORD-1").
					Return(&orderv1.Order{OrderID: "ORD-1", State: orderv1.StateFilled, Version: 3}, nil)
			},
			assertFn: func(t *testing.T, res *Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, pkgErrors.StateTransitionError, res.ErrorCode)
			},
		},
		{
			name: "concurrent update",
			cmd:  &orderv1.AcceptOrderCmd{OrderID: "ORD-1"},
			mockFn: func(orders *orderMock.MockOrderRepository) {
				orders.EXPECT().FindByOrderIDForUpdate(gomock.Any(), "ORD-1").
					Return(&orderv1.Order{OrderID: "ORD-1", State: orderv1.StateUnack, Version: 1}, nil)
				orders.EXPECT().Update(gomock.Any(), gomock.Any()).Return(order.ErrConcurrentUpdate)
			},
			assertFn: func(t *testing.T, res *Result, err error) {
				require.Error(t, err)
				assert.Equal(t, pkgErrors.ConcurrentUpdateError, res.ErrorCode)
				assert.Equal(t, "Order ORD-1 was modified concurrently", res.ErrorMessage)
			},
		},
		{
			name: "lookup error",
			cmd:  &orderv1.AcceptOrderCmd{OrderID: "ORD-1"},
			mockFn: func(orders *orderMock.MockOrderRepository) {
				orders.EXPECT().FindByOrderIDForUpdate(gomock.Any(), "ORD-1").Return(nil, errors.New("connection reset"))
			},
			assertFn: func(t *testing.T, res *Result, err error) {
				require.Error(t, err)
				assert.Equal(t, pkgErrors.FatalError, res.ErrorCode)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			orders := orderMock.NewMockOrderRepository(ctrl)
			tc.mockFn(orders)

			store := memory.NewStore()
			notifier := &spyNotifier{}
			deps := memoryDeps(store, statemachine.Standard())
			deps.Orders = orders

			res, err := NewAcceptProcessor(deps, WithNotifier(notifier)).Process(context.Background(), tc.cmd)
			require.NotNil(t, res)
			tc.assertFn(t, res, err)

			count, _ := store.Outbox().CountPending(context.Background())
			assert.Zero(t, count, "rejected commands publish nothing")
			assert.Empty(t, notifier.IDs())
		})
	}
}

func TestAcceptProcessor_RejectionKeepsStoredOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	orderID := createdOrder(t, store, statemachine.Standard())
	p := NewAcceptProcessor(memoryDeps(store, statemachine.Standard()))

	res, err := p.Process(ctx, &orderv1.AcceptOrderCmd{OrderID: orderID})
	require.NoError(t, err)
	require.True(t, res.Success)

	// LIVE to LIVE is not an edge
	res, err = p.Process(ctx, &orderv1.AcceptOrderCmd{OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, pkgErrors.StateTransitionError, res.ErrorCode)

	stored, _ := store.Orders().FindByOrderID(ctx, orderID)
	assert.Equal(t, int64(2), stored.Version)
	assert.True(t, stored.LeavesQty.Equal(decimal.NewFromInt(100)))
}
