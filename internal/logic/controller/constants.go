package controller

import "time"

const (
	DefaultPodLabelSelector = "nais.io/naisjob=true"
	DefaultJobLabelKey      = "app"

	// DefaultInterval is how long to wait before looking at a pod again after its sidecars were stopped.
	DefaultInterval = 300 * time.Second

	// DefaultRetryBackoff is how long to wait before retrying a pod whose pass failed.
	DefaultRetryBackoff = 30 * time.Second

	eventReasonKilling = "Killing"
	eventActionKilling = "Killing"
)
