package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/util/workqueue"
)

const (
	defaultWorkers = 4
	queueName      = "sidecar-reaper"
)

type Service struct {
	logger        *slog.Logger
	repo          Repository
	reconciler    reconciler
	labelSelector string
	workers       int
	retryBackoff  time.Duration
	resync        scheduler
	queue         workqueue.TypedRateLimitingInterface[PodKey]
	ready         chan struct{}
	doneCh        chan struct{}
	inShutdown    atomic.Bool
	mu            sync.RWMutex
	lastResync    time.Time
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithWorkers sets how many pods are reconciled in parallel. Each pod is
// still handled by at most one worker at a time.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithResync enables a periodic sweep that re-enqueues every watched pod.
func WithResync(schedule scheduler) Option {
	return func(s *Service) {
		s.resync = schedule
	}
}

// New creates a new controller service.
func New(
	logger *slog.Logger,
	repo Repository,
	reconciler reconciler,
	labelSelector string,
	retryBackoff time.Duration,
	opts ...Option,
) *Service {
	s := &Service{
		logger:        logger,
		repo:          repo,
		reconciler:    reconciler,
		labelSelector: labelSelector,
		workers:       defaultWorkers,
		retryBackoff:  retryBackoff,
		queue: workqueue.NewTypedRateLimitingQueueWithConfig(
			workqueue.DefaultTypedControllerRateLimiter[PodKey](),
			workqueue.TypedRateLimitingQueueConfig[PodKey]{Name: queueName},
		),
		ready:  make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "controller service is shutting down, skipping start")

		return nil
	}

	go s.RunCommand(ctx)

	return nil
}

// Name returns the name of the controller component
func (s *Service) Name() string {
	return "sidecar-reaper-controller"
}

func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.doneCh:
		return fmt.Errorf("controller loop exited")
	default:
	}

	select {
	case <-s.ready:
	default:
		return fmt.Errorf("controller service is not ready")
	}

	if s.queue.ShuttingDown() {
		return fmt.Errorf("work queue is shutting down")
	}

	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "controller service is already shutting down, skipping shutdown")

		return nil // Already shutting down
	}

	defer func() {
		s.logger.InfoContext(ctx, "controller service shut downed")
	}()

	s.logger.InfoContext(ctx, "shutting down controller service")

	s.queue.ShutDown()

	// RunCommand exits once in-flight reconciliations have finished
	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before controller loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "controller loop exited")
	}

	return nil
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed once RunCommand has returned.
func (s *Service) Done() <-chan struct{} {
	return s.doneCh
}

// RunCommand watches pods and reconciles them until ctx is cancelled or the service is shut down.
func (s *Service) RunCommand(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("controller", "RunCommand")

	err := s.repo.WatchPodsQuery(ctx, s.labelSelector, s.enqueue)
	if err != nil {
		logger.ErrorContext(ctx, "failed to watch pods", "reason", fmt.Errorf("%w: %w", ErrWatchPods, err))
		s.queue.ShutDown()

		return
	}

	close(s.ready)

	logger.InfoContext(ctx, "watching pods", "labelSelector", s.labelSelector, "workers", s.workers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	var workers sync.WaitGroup

	for range s.workers {
		workers.Add(1)

		g.Go(func() error {
			defer workers.Done()

			// reconciliations in flight must not be cut short by shutdown
			workCtx := context.WithoutCancel(gctx)
			for s.processNextItem(workCtx) {
			}

			return nil
		})
	}

	// workers stop when the queue shuts down, which then stops everything else
	g.Go(func() error {
		workers.Wait()
		cancel()

		return nil
	})

	if s.resync != nil {
		g.Go(func() error {
			s.runResync(gctx)

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.queue.ShutDown()

		return nil
	})

	_ = g.Wait()

	logger.InfoContext(ctx, "terminating main controller loop")
}

func (s *Service) enqueue(key PodKey) {
	s.queue.Add(key)
}

func (s *Service) processNextItem(ctx context.Context) bool {
	key, shutdown := s.queue.Get()
	if shutdown {
		return false
	}
	defer s.queue.Done(key)

	logger := s.logger.With("pod", key.Name, "namespace", key.Namespace, "controller", "processNextItem")

	decision, err := s.reconcileKey(ctx, key)
	if err != nil {
		var target notFound
		if errors.As(err, &target) {
			logger.DebugContext(ctx, "pod is gone, forgetting")
			s.queue.Forget(key)

			return true
		}

		logger.WarnContext(ctx, "reconcile failed", "reason", err, "retryAfter", decision.RequeueAfter)
		s.queue.Forget(key)
		s.queue.AddAfter(key, decision.RequeueAfter)

		return true
	}

	logger.DebugContext(ctx, "reconciled", "requeueAfter", decision.RequeueAfter)
	s.queue.Forget(key)

	if decision.RequeueAfter > 0 {
		s.queue.AddAfter(key, decision.RequeueAfter)
	}

	return true
}

// reconcileKey keeps a panic in one pod from taking down the worker.
func (s *Service) reconcileKey(ctx context.Context, key PodKey) (decision Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			decision = Decision{RequeueAfter: s.retryBackoff}
			err = fmt.Errorf("%s: %w: %v", key, ErrPodPanic, r)
		}
	}()

	pod, err := s.repo.GetPodQuery(ctx, key.Namespace, key.Name)
	if err != nil {
		return Decision{RequeueAfter: s.retryBackoff}, fmt.Errorf("get pod %s: %w", key, err)
	}

	return s.reconciler.ReconcileCommand(ctx, *pod)
}

func (s *Service) runResync(ctx context.Context) {
	logger := s.logger.With("controller", "runResync")

	for {
		now := time.Now()
		next := s.resync.Next(now)

		if next.IsZero() {
			logger.WarnContext(ctx, "resync schedule has no next occurrence, stopping resync")

			return
		}

		logger.DebugContext(ctx, "next resync scheduled", "at", next)

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()

			return
		case <-timer.C:
		}

		s.resyncOnce(ctx, logger)
	}
}

func (s *Service) resyncOnce(ctx context.Context, logger *slog.Logger) {
	pods, err := s.repo.ListPodsQuery(ctx, s.labelSelector)
	if err != nil {
		logger.ErrorContext(ctx, "resync list pods failed", "reason", err)

		return
	}

	for i := range pods {
		s.enqueue(pods[i].Key())
	}

	s.setLastResync(time.Now())

	logger.InfoContext(ctx, "resync enqueued pods", "count", len(pods))
}

// LastResync returns when the last periodic sweep finished; zero if none ran.
func (s *Service) LastResync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastResync
}

func (s *Service) setLastResync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastResync = t
}
