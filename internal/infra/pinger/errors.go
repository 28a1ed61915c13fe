package pinger

import "errors"

var (
	// ErrPingerNotFound is returned by GetStatus for a component that was never registered
	ErrPingerNotFound = errors.New("no health check registered for component")

	// ErrPingerAlreadyRegistered is returned when two components share a name
	ErrPingerAlreadyRegistered = errors.New("component health check already registered")

	ErrNilPinger = errors.New("component health check is nil")
)
