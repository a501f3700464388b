package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5/pgconn"
	mockLogger "github.com/muhammadchandra19/exchange/pkg/logger/mock"
	mockPg "github.com/muhammadchandra19/exchange/pkg/postgresql/mock"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution_Save(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface)
		assertFn func(t *testing.T, e *orderv1.Execution, err error)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface) {
				mockpg.EXPECT().
					QueryRow(ctx, gomock.Any(), gomock.Any()).
					Return(mockPg.NewRow(int64(3), now))
				mockLogger.EXPECT().DebugContext(ctx, "Inserted execution", gomock.Any())
			},
			assertFn: func(t *testing.T, e *orderv1.Execution, err error) {
				require.NoError(t, err)
				assert.Equal(t, int64(3), e.ID)
				assert.Equal(t, now, e.CreatedAt)
			},
		},
		{
			name: "duplicate exec id",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface) {
				mockpg.EXPECT().
					QueryRow(ctx, gomock.Any(), gomock.Any()).
					Return(mockPg.NewErrorRow(&pgconn.PgError{Code: "23505", ConstraintName: DuplicateConstraint}))
			},
			assertFn: func(t *testing.T, e *orderv1.Execution, err error) {
				assert.ErrorIs(t, err, ErrDuplicateExecution)
			},
		},
		{
			name: "error",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface) {
				mockpg.EXPECT().
					QueryRow(ctx, gomock.Any(), gomock.Any()).
					Return(mockPg.NewErrorRow(errors.New("error")))
			},
			assertFn: func(t *testing.T, e *orderv1.Execution, err error) {
				assert.EqualError(t, err, "error")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			log := mockLogger.NewMockInterface(ctrl)
			repo := NewRepository(pg, log)

			tc.mockFn(pg, log)

			e := &orderv1.Execution{
				ExecID:       "EX-1",
				OrderID:      "ORD-1",
				LastQty:      decimal.NewFromInt(40),
				LastPx:       decimal.RequireFromString("150.25"),
				CumQty:       decimal.NewFromInt(40),
				LeavesQty:    decimal.NewFromInt(60),
				TransactTime: now,
			}
			err := repo.Save(ctx, e)
			tc.assertFn(t, e, err)
		})
	}
}

func TestExecution_FindByOrderID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	rows := mockPg.NewMockRowsInterface(ctrl)
	repo := NewRepository(pg, mockLogger.NewMockInterface(ctrl))

	pg.EXPECT().Query(ctx, gomock.Any(), "ORD-1").Return(rows, nil)
	gomock.InOrder(
		rows.EXPECT().Next().Return(true),
		rows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
			return mockPg.NewRow(
				int64(1), "EX-1", "ORD-1", "FILL",
				decimal.NewFromInt(40), decimal.RequireFromString("150.25"), decimal.RequireFromString("150.25"),
				decimal.NewFromInt(40), decimal.NewFromInt(60), "XNAS", now, now,
			).Scan(dest...)
		}),
		rows.EXPECT().Next().Return(false),
	)
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()

	executions, err := repo.FindByOrderID(ctx, "ORD-1")
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, "EX-1", executions[0].ExecID)
	assert.True(t, decimal.NewFromInt(60).Equal(executions[0].LeavesQty))
}
