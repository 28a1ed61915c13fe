package pinger

import "time"

// Status is the outcome of the most recent checks of one component.
type Status struct {
	Name           string    `json:"name"`
	ReadyCritical  bool      `json:"readyCritical"`
	HealthCritical bool      `json:"healthCritical"`
	LastRun        time.Time `json:"lastRun"`
	LastLatency    string    `json:"lastLatency,omitempty"`
	LastError      string    `json:"lastError,omitempty"`
	Successes      uint64    `json:"successes"`
	Failures       uint64    `json:"failures"`
}

// Up reports whether the component has been checked and the last check passed.
func (s Status) Up() bool {
	return !s.LastRun.IsZero() && s.LastError == ""
}

// IsReady is false only for a ready-critical component that is not up.
func (s Status) IsReady() bool {
	return !s.ReadyCritical || s.Up()
}

// IsHealthy is false only for a health-critical component that is not up.
func (s Status) IsHealthy() bool {
	return !s.HealthCritical || s.Up()
}
