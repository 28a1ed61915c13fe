package controller

import "time"

// Pod is a point-in-time snapshot of a watched pod in the domain layer.
type Pod struct {
	Name       string
	Namespace  string
	UID        string
	Labels     map[string]string
	Containers []ContainerStatus
}

// Key returns the work queue identity of the pod.
func (p Pod) Key() PodKey {
	return PodKey{Namespace: p.Namespace, Name: p.Name}
}

// ContainerStatus is the observed state of one container of a pod.
type ContainerStatus struct {
	Name       string
	Terminated bool
}

// Roster lists the sidecars still alive after the main container has finished.
type Roster struct {
	JobName  string
	Sidecars []string
}

// Empty reports whether there is nothing to shut down.
func (r Roster) Empty() bool {
	return len(r.Sidecars) == 0
}

// Decision tells the watch loop when to look at a pod again.
// A zero RequeueAfter means waiting for the next change of the pod.
type Decision struct {
	RequeueAfter time.Duration
}

// PodKey identifies a pod on the work queue.
type PodKey struct {
	Namespace string
	Name      string
}

func (k PodKey) String() string {
	return k.Namespace + "/" + k.Name
}

// EventType is the severity of a published event.
type EventType string

const (
	EventTypeNormal  EventType = "Normal"
	EventTypeWarning EventType = "Warning"
)

// Event is a notice attached to a pod.
type Event struct {
	Type    EventType
	Reason  string
	Action  string
	Message string
}
