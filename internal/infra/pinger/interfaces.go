package pinger

import (
	"context"
	"time"
)

// Pinger is a component whose liveness is polled by the Service.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Optional behaviors detected at registration.
type readyCriticalPinger interface {
	PingerReadyCritical() bool
}

type healthCriticalPinger interface {
	PingerCritical() bool
}

type timeoutPinger interface {
	PingerTimeout() time.Duration
}
