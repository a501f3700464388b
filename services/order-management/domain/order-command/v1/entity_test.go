package v1

import (
	"testing"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandEnvelope_Decode(t *testing.T) {
	testCases := []struct {
		name     string
		cmd      any
		expected CommandType
		assertFn func(t *testing.T, decoded any)
	}{
		{
			name:     "create",
			cmd:      &orderv1.CreateOrderCmd{SessionID: "S1", ClOrdID: "C1", Symbol: "AAPL", OrderQty: decimal.NewFromInt(100)},
			expected: CommandCreateOrder,
			assertFn: func(t *testing.T, decoded any) {
				cmd, ok := decoded.(*orderv1.CreateOrderCmd)
				require.True(t, ok)
				assert.Equal(t, "AAPL", cmd.Symbol)
				assert.True(t, decimal.NewFromInt(100).Equal(cmd.OrderQty))
			},
		},
		{
			name:     "accept",
			cmd:      orderv1.AcceptOrderCmd{OrderID: "ORD-1"},
			expected: CommandAcceptOrder,
			assertFn: func(t *testing.T, decoded any) {
				cmd, ok := decoded.(*orderv1.AcceptOrderCmd)
				require.True(t, ok)
				assert.Equal(t, "ORD-1", cmd.OrderID)
			},
		},
		{
			name:     "execution",
			cmd:      &orderv1.ExecutionCmd{OrderID: "ORD-1", ExecID: "EX-1", LastQty: decimal.NewFromInt(10)},
			expected: CommandExecution,
			assertFn: func(t *testing.T, decoded any) {
				cmd, ok := decoded.(*orderv1.ExecutionCmd)
				require.True(t, ok)
				assert.Equal(t, "EX-1", cmd.ExecID)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := NewEnvelope("cmd-1", tc.cmd)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, env.Type)

			data, err := env.ToBytes()
			require.NoError(t, err)

			parsed, err := FromBytes(data)
			require.NoError(t, err)
			assert.Equal(t, "cmd-1", parsed.CommandID)

			decoded, err := parsed.Decode()
			require.NoError(t, err)
			tc.assertFn(t, decoded)
		})
	}
}

func TestCommandEnvelope_Errors(t *testing.T) {
	_, err := NewEnvelope("", "not a command")
	assert.Error(t, err)

	_, err = FromBytes([]byte(`{"type":"OrderAcceptCmd"}`))
	assert.Error(t, err)

	_, err = FromBytes([]byte(`{`))
	assert.Error(t, err)

	env, err := FromBytes([]byte(`{"type":"OrderCancelCmd","payload":{}}`))
	require.NoError(t, err)
	_, err = env.Decode()
	var unsupported *ErrUnsupportedCommand
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, CommandType("OrderCancelCmd"), unsupported.Type)
}
