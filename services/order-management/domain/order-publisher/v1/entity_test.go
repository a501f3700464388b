package v1

import (
	"testing"
	"time"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFromRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	testCases := []struct {
		name     string
		order    *orderv1.Order
		assertFn func(t *testing.T, msg *OrderMessage)
	}{
		{
			name: "limit order without root",
			order: &orderv1.Order{
				OrderID:      "ORD-1",
				SessionID:    "S1",
				ClOrdID:      "C1",
				Symbol:       "AAPL",
				Side:         orderv1.SideBuy,
				OrdType:      orderv1.OrdTypeLimit,
				Price:        decimal.NewNullDecimal(decimal.NewFromInt(150)),
				OrderQty:     decimal.NewFromInt(100),
				LeavesQty:    decimal.NewFromInt(100),
				State:        orderv1.StateUnack,
				TransactTime: now,
				Version:      1,
			},
			assertFn: func(t *testing.T, msg *OrderMessage) {
				assert.Equal(t, int64(7), msg.EventID)
				assert.Equal(t, "ORD-1", msg.RootOrderID)
				assert.Equal(t, "ORD-1", msg.Key())
				require.NotNil(t, msg.Price)
				assert.True(t, decimal.NewFromInt(150).Equal(*msg.Price))
				assert.Nil(t, msg.StopPx)
			},
		},
		{
			name: "child order keeps root",
			order: &orderv1.Order{
				OrderID:       "ORD-2",
				ParentOrderID: "ORD-1",
				RootOrderID:   "ORD-1",
				OrdType:       orderv1.OrdTypeStop,
				StopPx:        decimal.NewNullDecimal(decimal.NewFromInt(140)),
				State:         orderv1.StateLive,
			},
			assertFn: func(t *testing.T, msg *OrderMessage) {
				assert.Equal(t, "ORD-1", msg.RootOrderID)
				assert.Equal(t, "ORD-1", msg.ParentOrderID)
				assert.Nil(t, msg.Price)
				require.NotNil(t, msg.StopPx)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg := CreateFromRecord(&orderv1.OutboxRecord{ID: 7, Order: tc.order})
			tc.assertFn(t, msg)

			data, err := msg.ToBytes()
			require.NoError(t, err)
			decoded, err := FromBytes(data)
			require.NoError(t, err)
			assert.Equal(t, msg.OrderID, decoded.OrderID)
			assert.Equal(t, msg.State, decoded.State)
		})
	}
}
