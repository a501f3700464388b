package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

type spyTask struct {
	name     string
	priority int
	rec      *recorder
	result   func(name string) (Result, error)
}

func (s *spyTask) Name() string  { return s.name }
func (s *spyTask) Priority() int { return s.priority }

func (s *spyTask) Execute(_ context.Context, _ *recorder) (Result, error) {
	s.rec.calls = append(s.rec.calls, s.name)
	if s.result != nil {
		return s.result(s.name)
	}
	return Success(s.name), nil
}

type conditionalSpy struct {
	spyTask
	run bool
}

func (c *conditionalSpy) ShouldExecute(*recorder) bool { return c.run }
func (c *conditionalSpy) SkipReason(*recorder) string  { return "already assigned" }

func newOrchestrator() *Orchestrator[*recorder] {
	return NewOrchestrator[*recorder](logger.NewNop(), metrics.New(metrics.DefaultConfig()))
}

func TestNewSortsByPriorityKeepingRegistrationOrder(t *testing.T) {
	rec := &recorder{}
	p := New[*recorder]("sort",
		&spyTask{name: "c", priority: 300, rec: rec},
		&spyTask{name: "a1", priority: 100, rec: rec},
		&spyTask{name: "b", priority: 200, rec: rec},
		&spyTask{name: "a2", priority: 100, rec: rec},
		&spyTask{name: "a3", priority: 100, rec: rec},
	)

	res, err := newOrchestrator().Execute(context.Background(), p, rec)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"a1", "a2", "a3", "b", "c"}, rec.calls)
	assert.Equal(t, 5, res.TasksExecuted())
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	rec := &recorder{}
	p := New[*recorder]("fail-fast",
		&spyTask{name: "later", priority: 200, rec: rec},
		&spyTask{name: "validate", priority: 100, rec: rec, result: func(name string) (Result, error) {
			return Failed(name, "Symbol is required"), nil
		}},
		&spyTask{name: "persist", priority: 400, rec: rec},
	)

	res, err := newOrchestrator().Execute(context.Background(), p, rec)

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"validate"}, rec.calls)
	failure, ok := res.Failure()
	require.True(t, ok)
	assert.Equal(t, "validate", failure.TaskName)
	assert.Equal(t, "Symbol is required", failure.Message)
}

func TestExecuteContinuesOnWarningAndSkip(t *testing.T) {
	rec := &recorder{}
	p := New[*recorder]("warn",
		&spyTask{name: "warn", priority: 100, rec: rec, result: func(name string) (Result, error) {
			return Warning(name, "price far from market"), nil
		}},
		&conditionalSpy{spyTask: spyTask{name: "assign", priority: 200, rec: rec}, run: false},
		&spyTask{name: "persist", priority: 300, rec: rec},
	)

	res, err := newOrchestrator().Execute(context.Background(), p, rec)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"warn", "persist"}, rec.calls)
	assert.Equal(t, 1, res.Count(StatusWarning))
	assert.Equal(t, 1, res.Count(StatusSkipped))
	assert.Equal(t, 2, res.TasksExecuted())
	assert.Equal(t, "already assigned", res.Results[1].Message)
}

func TestExecuteRunsConditionalTaskWhenAllowed(t *testing.T) {
	rec := &recorder{}
	p := New[*recorder]("conditional",
		&conditionalSpy{spyTask: spyTask{name: "assign", priority: 200, rec: rec}, run: true},
	)

	res, err := newOrchestrator().Execute(context.Background(), p, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"assign"}, rec.calls)
	assert.Equal(t, StatusSuccess, res.Results[0].Status)
}

func TestExecuteAbortsOnTaskError(t *testing.T) {
	storeErr := errors.New("connection reset")

	testCases := []struct {
		name     string
		result   func(name string) (Result, error)
		panicked bool
	}{
		{
			name: "error",
			result: func(string) (Result, error) {
				return Result{}, storeErr
			},
		},
		{
			name: "panic",
			result: func(string) (Result, error) {
				panic(storeErr)
			},
			panicked: true,
		},
		{
			name: "panic with non error value",
			result: func(string) (Result, error) {
				panic("nil map")
			},
			panicked: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			p := New[*recorder]("fatal",
				&spyTask{name: "validate", priority: 100, rec: rec},
				&spyTask{name: "persist", priority: 200, rec: rec, result: tc.result},
				&spyTask{name: "publish", priority: 300, rec: rec},
			)

			res, err := newOrchestrator().Execute(context.Background(), p, rec)

			var execErr *TaskExecutionError
			require.ErrorAs(t, err, &execErr)
			assert.Equal(t, "persist", execErr.TaskName)
			assert.Equal(t, "fatal", execErr.Pipeline)
			assert.Equal(t, tc.panicked, execErr.Panicked)
			if !tc.panicked || tc.name == "panic" {
				assert.ErrorIs(t, err, storeErr)
			}
			assert.False(t, res.Success)
			assert.Equal(t, []string{"validate", "persist"}, rec.calls)
			_, failed := res.Failure()
			assert.False(t, failed)
		})
	}
}

func TestExecuteHonoursCancelledContext(t *testing.T) {
	rec := &recorder{}
	p := New[*recorder]("cancel", &spyTask{name: "validate", priority: 100, rec: rec})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newOrchestrator().Execute(ctx, p, rec)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls)
}

func TestExecuteEmptyPipeline(t *testing.T) {
	res, err := newOrchestrator().Execute(context.Background(), New[*recorder]("empty"), &recorder{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Results)
}
