package pipeline

import "fmt"

// TaskExecutionError aborts a run when a task returns an error or panics.
// It is distinct from a FAILED result, which is an expected business outcome.
type TaskExecutionError struct {
	Pipeline string
	TaskName string
	Err      error
	Panicked bool
}

func (e *TaskExecutionError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("pipeline %s: task %s panicked: %v", e.Pipeline, e.TaskName, e.Err)
	}
	return fmt.Sprintf("pipeline %s: task %s: %v", e.Pipeline, e.TaskName, e.Err)
}

func (e *TaskExecutionError) Unwrap() error {
	return e.Err
}
