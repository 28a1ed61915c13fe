package app

import (
	"context"
	"time"

	"github.com/skillcoder/sidecar-reaper/internal/infra/appstate"
	"github.com/skillcoder/sidecar-reaper/internal/infra/pinger"
	"github.com/skillcoder/sidecar-reaper/internal/infra/shutdown"
)

// appstater defines the interface for application state management
type appstater interface {
	RegisterShutdowner(shutdowner shutdown.Shutdowner)
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	GetState() appstate.State
	GetUptime() time.Duration
	GetStartTime() time.Time
	Components() []pinger.Status
	IsHealthy() bool
	IsReady() bool
	Shutdown(ctx context.Context) error
}

type pingerService interface {
	Register(p pinger.Pinger) error
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
}

// component is a long-running part of the process that is health checked.
type component interface {
	pinger.Pinger
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
}

type controllerService interface {
	component
	Done() <-chan struct{}
}
