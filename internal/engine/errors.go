package engine

import "fmt"

// LimitError indicates a daily allowance has been spent. It is reported as a
// rejection with a message, never as a fatal failure.
type LimitError struct {
	Action string
	Limit  int
}

func (e LimitError) Error() string {
	return fmt.Sprintf("daily limit for %s reached (%d)", e.Action, e.Limit)
}

// BusyError indicates that a spin is already in flight or awaiting
// resolution, and a new spin cannot start yet.
type BusyError struct{}

func (BusyError) Error() string { return "a fate draw is already in progress" }
