package httpserver

import (
	"time"

	"github.com/skillcoder/sidecar-reaper/internal/infra/appstate"
	"github.com/skillcoder/sidecar-reaper/internal/infra/pinger"
)

// appstater is what the probe and status endpoints read.
type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	Components() []pinger.Status
}
