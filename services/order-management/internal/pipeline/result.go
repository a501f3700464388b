package pipeline

import "time"

// Status is the outcome of a single task.
type Status string

const (
	// StatusSuccess means the task did its work.
	StatusSuccess Status = "SUCCESS"
	// StatusFailed means the task rejected the input; the pipeline stops.
	StatusFailed Status = "FAILED"
	// StatusSkipped means a conditional task chose not to run.
	StatusSkipped Status = "SKIPPED"
	// StatusWarning means the task succeeded with a remark; the pipeline continues.
	StatusWarning Status = "WARNING"
)

// Result is what a task reports back to the orchestrator.
type Result struct {
	Status   Status
	TaskName string
	Message  string
	Elapsed  time.Duration
}

// Success returns a SUCCESS result.
func Success(task string) Result {
	return Result{Status: StatusSuccess, TaskName: task}
}

// Failed returns a FAILED result carrying message.
func Failed(task, message string) Result {
	return Result{Status: StatusFailed, TaskName: task, Message: message}
}

// Skipped returns a SKIPPED result carrying reason.
func Skipped(task, reason string) Result {
	return Result{Status: StatusSkipped, TaskName: task, Message: reason}
}

// Warning returns a WARNING result carrying message.
func Warning(task, message string) Result {
	return Result{Status: StatusWarning, TaskName: task, Message: message}
}

// IsFailed reports whether the result stops the pipeline.
func (r Result) IsFailed() bool {
	return r.Status == StatusFailed
}

// IsSkipped reports whether the task did not run.
func (r Result) IsSkipped() bool {
	return r.Status == StatusSkipped
}

// PipelineResult aggregates the results of one pipeline run.
type PipelineResult struct {
	Pipeline string
	Results  []Result
	Success  bool
	Elapsed  time.Duration
}

// Failure returns the FAILED result that stopped the run, if any.
func (r *PipelineResult) Failure() (Result, bool) {
	for _, res := range r.Results {
		if res.IsFailed() {
			return res, true
		}
	}
	return Result{}, false
}

// TasksExecuted counts tasks that ran, skipped ones excluded.
func (r *PipelineResult) TasksExecuted() int {
	n := 0
	for _, res := range r.Results {
		if !res.IsSkipped() {
			n++
		}
	}
	return n
}

// Count returns how many results have the given status.
func (r *PipelineResult) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
