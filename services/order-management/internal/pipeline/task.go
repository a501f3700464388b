package pipeline

import (
	"context"
	"sort"
)

// Task is one step of a pipeline. Lower priorities run first.
//
// Execute reports business outcomes through Result. A returned error means the
// task could not do its job at all and aborts the whole run.
type Task[T any] interface {
	Name() string
	Priority() int
	Execute(ctx context.Context, tc T) (Result, error)
}

// ConditionalTask is a Task that may decide not to run for a given input.
type ConditionalTask[T any] interface {
	Task[T]
	ShouldExecute(tc T) bool
	SkipReason(tc T) string
}

// Pipeline is an immutable, priority ordered list of tasks.
type Pipeline[T any] struct {
	name  string
	tasks []Task[T]
}

// New sorts tasks by priority once. Tasks sharing a priority keep registration order.
func New[T any](name string, tasks ...Task[T]) *Pipeline[T] {
	sorted := make([]Task[T], len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return &Pipeline[T]{name: name, tasks: sorted}
}

// Name returns the pipeline name.
func (p *Pipeline[T]) Name() string {
	return p.name
}

// Tasks returns the tasks in execution order.
func (p *Pipeline[T]) Tasks() []Task[T] {
	out := make([]Task[T], len(p.tasks))
	copy(out, p.tasks)
	return out
}

// Len returns the number of tasks.
func (p *Pipeline[T]) Len() int {
	return len(p.tasks)
}
