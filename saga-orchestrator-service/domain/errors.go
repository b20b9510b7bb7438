package domain

import "fmt"

// WorkflowMismatchError means the caller's per-step payloads do not line up
// with the workflow definition. Raised at the boundary, before any state is
// created; no compensation is ever needed for it.
type WorkflowMismatchError struct {
	SagaType      string
	WorkflowSteps int
	PayloadCount  int
}

func (e *WorkflowMismatchError) Error() string {
	if e.WorkflowSteps == 0 && e.PayloadCount == 0 {
		return fmt.Sprintf("unknown saga type: %s", e.SagaType)
	}
	return fmt.Sprintf("step payload count (%d) doesn't match workflow steps (%d) for saga type %s",
		e.PayloadCount, e.WorkflowSteps, e.SagaType)
}

// StepExecutionError means a step's outbound call failed: non-success
// status, timeout or connection error. It aborts the remaining steps and
// triggers compensation of the completed ones.
type StepExecutionError struct {
	StepName   string
	StatusCode int
	Body       string
	Cause      error
}

func (e *StepExecutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("step %s failed: HTTP %d: %s", e.StepName, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("step %s failed: %v", e.StepName, e.Cause)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Cause
}

// CompensationError means a single compensation call failed. It is logged on
// the step row; the remaining compensations still run and the instance's
// FAILED status is unchanged.
type CompensationError struct {
	StepName string
	Cause    error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensation failed for step %s: %v", e.StepName, e.Cause)
}

func (e *CompensationError) Unwrap() error {
	return e.Cause
}
