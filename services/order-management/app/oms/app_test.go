package oms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	pgMock "github.com/muhammadchandra19/exchange/pkg/postgresql/mock"
	orderpublisherv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-publisher/v1"
	busMock "github.com/muhammadchandra19/exchange/services/order-management/domain/order-publisher/v1/mock"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("APP_STORE", config.StoreMemory)
	t.Setenv("KAFKA_CONSUMER_ENABLED", "false")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestAppProcessesAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	bus := busMock.NewMockBus(ctrl)

	var states []orderv1.State
	bus.EXPECT().Send(gomock.Any(), "order-events", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, payload []byte) error {
			msg, err := orderpublisherv1.FromBytes(payload)
			require.NoError(t, err)
			states = append(states, msg.State)
			return nil
		}).Times(3)
	bus.EXPECT().Close().Return(nil)

	app, err := New(ctx, memoryConfig(t), logger.NewNop(), WithBus(bus))
	require.NoError(t, err)
	defer app.Close(ctx)
	assert.Nil(t, app.Consumer)

	created, err := app.Create.Process(ctx, &orderv1.CreateOrderCmd{
		SessionID: "S1",
		ClOrdID:   "C1",
		Account:   "A1",
		Symbol:    "AAPL",
		Side:      orderv1.SideBuy,
		OrdType:   orderv1.OrdTypeLimit,
		OrderQty:  decimal.NewFromInt(100),
		Price:     decimal.NewNullDecimal(decimal.NewFromInt(150)),
	})
	require.NoError(t, err)
	require.True(t, created.Success)

	accepted, err := app.Accept.Process(ctx, &orderv1.AcceptOrderCmd{OrderID: created.OrderID})
	require.NoError(t, err)
	require.True(t, accepted.Success)

	filled, err := app.Execution.Process(ctx, &orderv1.ExecutionCmd{
		OrderID: created.OrderID,
		ExecID:  "E1",
		LastQty: decimal.NewFromInt(100),
		LastPx:  decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	require.True(t, filled.Success)

	n, err := app.Publisher.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	app.Publisher.Wait()

	assert.Equal(t, []orderv1.State{orderv1.StateUnack, orderv1.StateLive, orderv1.StateFilled}, states)
}

func TestAppHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bus := busMock.NewMockBus(ctrl)
	bus.EXPECT().Close().Return(nil)

	ctx := context.Background()
	app, err := New(ctx, memoryConfig(t), logger.NewNop(), WithBus(bus))
	require.NoError(t, err)
	defer app.Close(ctx)

	_, err = app.Accept.Process(ctx, &orderv1.AcceptOrderCmd{OrderID: "ORD-404"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `oms_commands_total{command="accept",result="not_found"} 1`)
}

func TestAppRejectsUnknownProfile(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.StateMachine.Profile = "exotic"

	_, err := New(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestAppHealthReportsPostgreSQL(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(db *pgMock.MockPostgreSQLClient)
		code     int
		expected string
	}{
		{
			name: "healthy",
			mockFn: func(db *pgMock.MockPostgreSQLClient) {
				db.EXPECT().Check(gomock.Any()).Return(nil)
			},
			code:     http.StatusOK,
			expected: `{"status":"ok","checks":{"postgresql":"ok"}}`,
		},
		{
			name: "unhealthy",
			mockFn: func(db *pgMock.MockPostgreSQLClient) {
				db.EXPECT().Check(gomock.Any()).Return(errors.New("postgresql oms: probe query failed"))
			},
			code:     http.StatusServiceUnavailable,
			expected: `{"status":"unavailable","checks":{"postgresql":"postgresql oms: probe query failed"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ctx := context.Background()
			bus := busMock.NewMockBus(ctrl)
			bus.EXPECT().Close().Return(nil)
			db := pgMock.NewMockPostgreSQLClient(ctrl)
			db.EXPECT().Close()
			tc.mockFn(db)

			cfg := memoryConfig(t)
			cfg.App.Store = config.StorePostgres

			app, err := New(ctx, cfg, logger.NewNop(), WithBus(bus), WithPostgreSQLClient(db))
			require.NoError(t, err)
			defer app.Close(ctx)

			rec := httptest.NewRecorder()
			app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, tc.expected, rec.Body.String())
		})
	}
}
