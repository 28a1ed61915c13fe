package controller

import (
	"context"
	"time"

	"github.com/skillcoder/sidecar-reaper/internal/logic/catalog"
)

// Repository is the port interface for K8s operations.
// Implementations are provided by adapters in the outbound layer.
type Repository interface {
	// WatchPodsQuery subscribes to pods matching labelSelector and calls onChange
	// for every add or update. It returns once the initial listing is cached.
	WatchPodsQuery(
		ctx context.Context,
		labelSelector string,
		onChange func(PodKey),
	) error

	GetPodQuery(
		ctx context.Context,
		namespace,
		name string,
	) (*Pod, error)

	ListPodsQuery(
		ctx context.Context,
		labelSelector string,
	) ([]Pod, error)

	PublishEventCommand(
		ctx context.Context,
		pod Pod,
		event Event,
	) error
}

// Executor stops a single sidecar container.
type Executor interface {
	Execute(
		ctx context.Context,
		recipe catalog.Recipe,
		namespace,
		podName,
		containerName string,
	) error
}

type recipeLookup interface {
	Lookup(name string) (catalog.Recipe, bool)
}

type metricsRecorder interface {
	RecordSidecarShutdown(container, jobName, namespace string)
	RecordFailedSidecarShutdown(container, jobName, namespace string)
	RecordUnsupportedSidecar(container, jobName, namespace string)
	RecordUnsuccessfulEventPost()
}

type reconciler interface {
	ReconcileCommand(ctx context.Context, pod Pod) (Decision, error)
}

type scheduler interface {
	Next(after time.Time) time.Time
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}
