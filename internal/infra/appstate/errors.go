package appstate

import "errors"

var (
	// ErrInvalidStateTransition is returned when a state change skips a lifecycle step
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrAlreadyTerminated is returned for any state change after shutdown completed
	ErrAlreadyTerminated = errors.New("application already terminated")
)
