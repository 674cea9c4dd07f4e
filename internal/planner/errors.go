package planner

import "errors"

var (
	// ErrUnknownPlan means a plan id was not in the current plan list
	ErrUnknownPlan = errors.New("unknown plan")
	// ErrUnknownTask means a task id was not found under its plan
	ErrUnknownTask = errors.New("unknown task")
	// ErrSeedPlan is returned when editing or deleting a seed plan
	ErrSeedPlan = errors.New("seed plans cannot be changed")
	// ErrEmptyTask is returned for blank task text
	ErrEmptyTask = errors.New("task text is empty")
	// ErrInvalidPlan is returned when a plan fails validation
	ErrInvalidPlan = errors.New("invalid plan")
)
