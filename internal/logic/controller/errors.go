package controller

import "errors"

var (
	ErrMissingLabel          = errors.New("missing job label")
	ErrMainContainerNotFound = errors.New("couldn't determine main container")
	ErrRunningSidecars       = errors.New("could not get running sidecars")
	ErrSidecarShutdownFailed = errors.New("could not shut down sidecar")
	ErrPodPanic              = errors.New("reconcile panicked")
	ErrWatchPods             = errors.New("watch pods")
)
