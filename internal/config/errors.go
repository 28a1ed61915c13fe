package config

import "errors"

var (
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrDurationTooSmall     = errors.New("duration below minimum")
	ErrInvalidWorkers       = errors.New("invalid worker count")
	ErrInvalidPort          = errors.New("invalid port")
	ErrInvalidLogFormat     = errors.New("invalid log format")
	ErrInvalidLabelSelector = errors.New("invalid label selector")
	ErrInvalidResync        = errors.New("invalid resync schedule")
)
