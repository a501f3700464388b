package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/util"
	ordercommandv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-command/v1"
	readerMock "github.com/muhammadchandra19/exchange/services/order-management/domain/order-command/v1/mock"
	processorMock "github.com/muhammadchandra19/exchange/services/order-management/domain/order/mock"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/usecase/command"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorMocks struct {
	create    *processorMock.MockCreateProcessor
	accept    *processorMock.MockAcceptProcessor
	execution *processorMock.MockExecutionProcessor
}

func newProcessorMocks(ctrl *gomock.Controller) processorMocks {
	return processorMocks{
		create:    processorMock.NewMockCreateProcessor(ctrl),
		accept:    processorMock.NewMockAcceptProcessor(ctrl),
		execution: processorMock.NewMockExecutionProcessor(ctrl),
	}
}

func (m processorMocks) processors() Processors {
	return Processors{Create: m.create, Accept: m.accept, Execution: m.execution}
}

func envelopeMessage(t *testing.T, commandID string, cmd any) kafka.Message {
	t.Helper()
	env, err := ordercommandv1.NewEnvelope(commandID, cmd)
	require.NoError(t, err)
	payload, err := env.ToBytes()
	require.NoError(t, err)
	return kafka.Message{Offset: 42, Value: payload}
}

func TestCommandConsumer_Handle(t *testing.T) {
	testCases := []struct {
		name     string
		message  func(t *testing.T) kafka.Message
		mockFn   func(m processorMocks)
		assertFn func(t *testing.T, res *command.Result)
	}{
		{
			name: "create is routed with its command id",
			message: func(t *testing.T) kafka.Message {
				return envelopeMessage(t, "cmd-1", &orderv1.CreateOrderCmd{
					SessionID: "S1",
					ClOrdID:   "C1",
					OrderQty:  decimal.NewFromInt(100),
				})
			},
			mockFn: func(m processorMocks) {
				m.create.EXPECT().Process(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, cmd *orderv1.CreateOrderCmd) (*command.Result, error) {
						assert.Equal(t, "cmd-1", util.GetCommandID(ctx))
						assert.Equal(t, "cmd-1", util.GetRequestID(ctx))
						assert.Equal(t, "C1", cmd.ClOrdID)
						assert.True(t, cmd.OrderQty.Equal(decimal.NewFromInt(100)))
						return &command.Result{Success: true, OrderID: "ORD-1", State: orderv1.StateUnack}, nil
					})
			},
			assertFn: func(t *testing.T, res *command.Result) {
				require.NotNil(t, res)
				assert.Equal(t, "ORD-1", res.OrderID)
			},
		},
		{
			name: "accept",
			message: func(t *testing.T) kafka.Message {
				return envelopeMessage(t, "cmd-2", &orderv1.AcceptOrderCmd{OrderID: "ORD-1"})
			},
			mockFn: func(m processorMocks) {
				m.accept.EXPECT().Process(gomock.Any(), &orderv1.AcceptOrderCmd{OrderID: "ORD-1"}).
					Return(&command.Result{Success: true, State: orderv1.StateLive}, nil)
			},
			assertFn: func(t *testing.T, res *command.Result) {
				assert.Equal(t, orderv1.StateLive, res.State)
			},
		},
		{
			name: "execution",
			message: func(t *testing.T) kafka.Message {
				return envelopeMessage(t, "", &orderv1.ExecutionCmd{OrderID: "ORD-1", ExecID: "E1"})
			},
			mockFn: func(m processorMocks) {
				m.execution.EXPECT().Process(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, cmd *orderv1.ExecutionCmd) (*command.Result, error) {
						assert.NotEmpty(t, util.GetRequestID(ctx), "a request id is generated")
						return &command.Result{Success: true, ExecutionID: cmd.ExecID}, nil
					})
			},
			assertFn: func(t *testing.T, res *command.Result) {
				assert.Equal(t, "E1", res.ExecutionID)
			},
		},
		{
			name: "structured failure is not retried",
			message: func(t *testing.T) kafka.Message {
				return envelopeMessage(t, "cmd-3", &orderv1.AcceptOrderCmd{OrderID: "ORD-9"})
			},
			mockFn: func(m processorMocks) {
				m.accept.EXPECT().Process(gomock.Any(), gomock.Any()).
					Return(&command.Result{ErrorCode: "NOT_FOUND"}, nil).Times(1)
			},
			assertFn: func(t *testing.T, res *command.Result) {
				assert.False(t, res.Success)
			},
		},
		{
			name: "fatal error is retried",
			message: func(t *testing.T) kafka.Message {
				return envelopeMessage(t, "cmd-4", &orderv1.AcceptOrderCmd{OrderID: "ORD-1"})
			},
			mockFn: func(m processorMocks) {
				gomock.InOrder(
					m.accept.EXPECT().Process(gomock.Any(), gomock.Any()).
						Return(&command.Result{ErrorCode: "FATAL"}, errors.New("connection reset")),
					m.accept.EXPECT().Process(gomock.Any(), gomock.Any()).
						Return(&command.Result{Success: true}, nil),
				)
			},
			assertFn: func(t *testing.T, res *command.Result) {
				assert.True(t, res.Success)
			},
		},
		{
			name: "fatal error gives up after the retries",
			message: func(t *testing.T) kafka.Message {
				return envelopeMessage(t, "cmd-5", &orderv1.AcceptOrderCmd{OrderID: "ORD-1"})
			},
			mockFn: func(m processorMocks) {
				m.accept.EXPECT().Process(gomock.Any(), gomock.Any()).
					Return(&command.Result{ErrorCode: "FATAL"}, errors.New("connection reset")).Times(3)
			},
			assertFn: func(t *testing.T, res *command.Result) {
				assert.Equal(t, "FATAL", string(res.ErrorCode))
			},
		},
		{
			name: "malformed json",
			message: func(*testing.T) kafka.Message {
				return kafka.Message{Value: []byte("{")}
			},
			mockFn: func(processorMocks) {},
			assertFn: func(t *testing.T, res *command.Result) {
				assert.Nil(t, res)
			},
		},
		{
			name: "unknown command type",
			message: func(*testing.T) kafka.Message {
				return kafka.Message{Value: []byte(`{"type":"OrderCancelCmd","payload":{"orderId":"ORD-1"}}`)}
			},
			mockFn: func(processorMocks) {},
			assertFn: func(t *testing.T, res *command.Result) {
				assert.Nil(t, res)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mocks := newProcessorMocks(ctrl)
			tc.mockFn(mocks)

			c := NewCommandConsumer(nil, mocks.processors(), RetryConfig{MaxRetries: 2, Backoff: time.Millisecond}, logger.NewNop())
			res := c.Handle(context.Background(), tc.message(t))
			tc.assertFn(t, res)
		})
	}
}

func TestCommandConsumer_StartCommitsAfterProcessing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := readerMock.NewMockCommandReader(ctrl)
	mocks := newProcessorMocks(ctrl)
	msg := envelopeMessage(t, "cmd-1", &orderv1.AcceptOrderCmd{OrderID: "ORD-1"})
	bad := kafka.Message{Offset: 43, Value: []byte("not json")}

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		mocks.accept.EXPECT().Process(gomock.Any(), gomock.Any()).Return(&command.Result{Success: true}, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, errors.New("rebalance in progress")),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(bad, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), bad).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafka.Message, error) {
			cancel()
			return kafka.Message{}, context.Canceled
		}),
	)

	c := NewCommandConsumer(reader, mocks.processors(), RetryConfig{}, logger.NewNop())
	c.Start(ctx)
}

func TestCommandConsumer_Stop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := readerMock.NewMockCommandReader(ctrl)
	reader.EXPECT().Close().Return(nil)

	c := NewCommandConsumer(reader, Processors{}, RetryConfig{}, logger.NewNop())
	assert.NoError(t, c.Stop())
}
