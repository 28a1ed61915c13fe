package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Reconciler runs one shutdown pass over a single pod.
type Reconciler struct {
	logger       *slog.Logger
	repo         Repository
	executor     Executor
	catalog      recipeLookup
	metrics      metricsRecorder
	jobLabelKey  string
	interval     time.Duration
	retryBackoff time.Duration
}

// NewReconciler creates a new reconciler.
func NewReconciler(
	logger *slog.Logger,
	repo Repository,
	executor Executor,
	catalog recipeLookup,
	metrics metricsRecorder,
	jobLabelKey string,
	interval,
	retryBackoff time.Duration,
) *Reconciler {
	if jobLabelKey == "" {
		jobLabelKey = DefaultJobLabelKey
	}

	return &Reconciler{
		logger:       logger,
		repo:         repo,
		executor:     executor,
		catalog:      catalog,
		metrics:      metrics,
		jobLabelKey:  jobLabelKey,
		interval:     interval,
		retryBackoff: retryBackoff,
	}
}

// ReconcileCommand stops the live sidecars of a pod whose main container has finished.
//
// Sidecars are handled one at a time in roster order. The first failed shutdown
// aborts the pass; the returned decision then asks for a retry after the backoff.
func (r *Reconciler) ReconcileCommand(ctx context.Context, pod Pod) (Decision, error) {
	logger := r.logger.With("pod", pod.Name, "namespace", pod.Namespace, "controller", "ReconcileCommand")

	roster, err := Classify(pod, r.jobLabelKey)
	if err != nil {
		return Decision{RequeueAfter: r.retryBackoff}, fmt.Errorf("%s: %w: %w", pod.Name, ErrRunningSidecars, err)
	}

	if roster.Empty() {
		return Decision{}, nil
	}

	logger = logger.With("job", roster.JobName)
	logger.DebugContext(ctx, "needs help shutting down some residual containers", "sidecars", roster.Sidecars)

	for _, sidecar := range roster.Sidecars {
		err := r.shutdownSidecar(ctx, logger, pod, roster.JobName, sidecar)
		if err != nil {
			return Decision{RequeueAfter: r.retryBackoff}, err
		}
	}

	return Decision{RequeueAfter: r.interval}, nil
}

func (r *Reconciler) shutdownSidecar(
	ctx context.Context,
	logger *slog.Logger,
	pod Pod,
	jobName,
	sidecar string,
) error {
	logger = logger.With("container", sidecar)

	recipe, ok := r.catalog.Lookup(sidecar)
	if !ok {
		logger.WarnContext(ctx, "missing defined action for sidecar, skipping")
		r.metrics.RecordUnsupportedSidecar(sidecar, jobName, pod.Namespace)

		return nil
	}

	err := r.executor.Execute(ctx, recipe, pod.Namespace, pod.Name, sidecar)
	if err != nil {
		r.publishEvent(ctx, logger, pod, Event{
			Type:    EventTypeWarning,
			Reason:  eventReasonKilling,
			Action:  eventActionKilling,
			Message: fmt.Sprintf("Unsuccessfully shut down container %s: %v", sidecar, err),
		})
		r.metrics.RecordFailedSidecarShutdown(sidecar, jobName, pod.Namespace)

		return fmt.Errorf("%s: %w %s: %w", pod.Name, ErrSidecarShutdownFailed, sidecar, err)
	}

	r.publishEvent(ctx, logger, pod, Event{
		Type:    EventTypeNormal,
		Reason:  eventReasonKilling,
		Action:  eventActionKilling,
		Message: "Shut down container " + sidecar,
	})
	r.metrics.RecordSidecarShutdown(sidecar, jobName, pod.Namespace)

	logger.InfoContext(ctx, "sidecar shut down", "recipe", recipe.String())

	return nil
}

// publishEvent is best effort: a failed post is logged and counted, never returned.
func (r *Reconciler) publishEvent(ctx context.Context, logger *slog.Logger, pod Pod, event Event) {
	err := r.repo.PublishEventCommand(ctx, pod, event)
	if err != nil {
		logger.WarnContext(ctx, "couldn't publish kubernetes event", "reason", err)
		r.metrics.RecordUnsuccessfulEventPost()
	}
}
