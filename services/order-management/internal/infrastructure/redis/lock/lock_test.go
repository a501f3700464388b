package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	pkgErrors "github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	redisMock "github.com/muhammadchandra19/exchange/pkg/redis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSerializesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "ORD-1")
			require.NoError(t, err)
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, l.Len(), "entries are dropped when released")
}

func TestLocalIndependentKeys(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	unlock1, err := l.Lock(ctx, "ORD-1")
	require.NoError(t, err)
	unlock2, err := l.Lock(ctx, "ORD-2")
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())

	unlock1()
	unlock1()
	unlock2()
	assert.Zero(t, l.Len())
}

func TestLocalHonoursContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "ORD-1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "ORD-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.Len())
}

func TestRedisLock(t *testing.T) {
	testCases := []struct {
		name     string
		ctx      func() (context.Context, context.CancelFunc)
		mockFn   func(client *redisMock.MockClient)
		assertFn func(t *testing.T, unlock func(), err error)
	}{
		{
			name: "acquire and release",
			ctx:  func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			mockFn: func(client *redisMock.MockClient) {
				var token any
				client.EXPECT().Key("lock:order:ORD-1").Return("oms:lock:order:ORD-1")
				client.EXPECT().SetNX(gomock.Any(), "oms:lock:order:ORD-1", gomock.Any(), 5*time.Second).
					DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) (bool, error) {
						token = value
						return true, nil
					})
				client.EXPECT().Eval(gomock.Any(), unlockScript, []string{"oms:lock:order:ORD-1"}, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _ []string, args ...any) (any, error) {
						assert.Equal(t, token, args[0], "released with the acquiring token")
						return int64(1), nil
					})
			},
			assertFn: func(t *testing.T, unlock func(), err error) {
				require.NoError(t, err)
				unlock()
			},
		},
		{
			name: "retries while held elsewhere",
			ctx:  func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			mockFn: func(client *redisMock.MockClient) {
				client.EXPECT().Key(gomock.Any()).Return("oms:lock:order:ORD-1")
				gomock.InOrder(
					client.EXPECT().SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2),
					client.EXPECT().SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil),
				)
			},
			assertFn: func(t *testing.T, unlock func(), err error) {
				require.NoError(t, err)
				assert.NotNil(t, unlock)
			},
		},
		{
			name: "gives up when the context ends",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 30*time.Millisecond)
			},
			mockFn: func(client *redisMock.MockClient) {
				client.EXPECT().Key(gomock.Any()).Return("oms:lock:order:ORD-1")
				client.EXPECT().SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).MinTimes(1)
			},
			assertFn: func(t *testing.T, unlock func(), err error) {
				assert.ErrorIs(t, err, context.DeadlineExceeded)
				assert.Nil(t, unlock)
			},
		},
		{
			name: "redis failure",
			ctx:  func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			mockFn: func(client *redisMock.MockClient) {
				client.EXPECT().Key(gomock.Any()).Return("oms:lock:order:ORD-1")
				client.EXPECT().SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, pkgErrors.NewErrorDetails("Failed to set value with NX in Redis", string(pkgErrors.RedisSetNXError), "setnx"))
			},
			assertFn: func(t *testing.T, unlock func(), err error) {
				assert.True(t, pkgErrors.ErrorCodeEquals(err, string(pkgErrors.RedisSetNXError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := redisMock.NewMockClient(ctrl)
			tc.mockFn(client)

			l := NewRedis(client, 5*time.Second, logger.NewNop())
			l.retry = time.Millisecond

			ctx, cancel := tc.ctx()
			defer cancel()
			unlock, err := l.Lock(ctx, "ORD-1")
			tc.assertFn(t, unlock, err)
		})
	}
}
