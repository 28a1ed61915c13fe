package appstate

import (
	"time"

	"github.com/skillcoder/sidecar-reaper/internal/infra/pinger"
)

// componentStatuser reports the latest component checks.
type componentStatuser interface {
	GetAllStatuses() []pinger.Status
}

type healthChecker interface {
	IsHealthy() bool
}

type readyChecker interface {
	IsReady() bool
}

type statusGetter interface {
	GetState() State
	GetUptime() time.Duration
	GetStartTime() time.Time
	Components() []pinger.Status
}
