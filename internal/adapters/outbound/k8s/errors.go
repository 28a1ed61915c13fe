package k8s

import "errors"

// PodNotFoundError reports a pod that no longer exists. Callers treat it as
// "nothing left to do" rather than a failure.
type PodNotFoundError struct{}

func (e *PodNotFoundError) Error() string {
	return "pod not found"
}

func (e *PodNotFoundError) IsNotFound() {}

var errPodNotFound = &PodNotFoundError{}

var (
	errCacheNotSynced     = errors.New("pod cache did not sync")
	errUnexpectedProtocol = errors.New("unexpected port-forward protocol")
	errRemotePortForward  = errors.New("port-forward failed in pod")
	errDialTimeout        = errors.New("port-forward upgrade timed out")
)
