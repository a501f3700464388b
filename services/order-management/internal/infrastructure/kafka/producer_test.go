package kafka

import (
	"context"
	"errors"
	"testing"

	pkgErrors "github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducerSend(t *testing.T) {
	testCases := []struct {
		name     string
		writeErr error
		assertFn func(t *testing.T, w *fakeWriter, err error)
	}{
		{
			name: "message is keyed by order",
			assertFn: func(t *testing.T, w *fakeWriter, err error) {
				require.NoError(t, err)
				require.Len(t, w.messages, 1)
				assert.Equal(t, "order-events", w.messages[0].Topic)
				assert.Equal(t, []byte("ORD-1"), w.messages[0].Key)
				assert.JSONEq(t, `{"orderId":"ORD-1"}`, string(w.messages[0].Value))
			},
		},
		{
			name:     "write failure is a publish error",
			writeErr: errors.New("leader not available"),
			assertFn: func(t *testing.T, w *fakeWriter, err error) {
				require.Error(t, err)
				assert.True(t, pkgErrors.ErrorCodeEquals(err, string(pkgErrors.OutboxPublishError)))
				assert.Contains(t, err.Error(), "leader not available")
				assert.Empty(t, w.messages)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := &fakeWriter{err: tc.writeErr}
			p := newProducer(w, logger.NewNop())

			err := p.Send(context.Background(), "order-events", "ORD-1", []byte(`{"orderId":"ORD-1"}`))
			tc.assertFn(t, w, err)
		})
	}
}

func TestProducerClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, logger.NewNop()).Close())
	assert.True(t, w.closed)
}
