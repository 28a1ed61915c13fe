package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/skillcoder/sidecar-reaper/internal/infra/shutdown"
)

// defaultPingTimeout is the default timeout for ping operations
const defaultPingTimeout = 1 * time.Second

const (
	resultSuccess = "success"
	resultError   = "error"
)

type pingerInfo struct {
	pinger  Pinger
	timeout time.Duration
	status  Status
}

// Service polls registered components and keeps their latest Status.
// Results are also exported as Prometheus metrics.
type Service struct {
	logger       *slog.Logger
	interval     time.Duration
	mu           sync.RWMutex
	pingers      map[string]*pingerInfo
	componentUp  *prometheus.GaugeVec
	pingDuration *prometheus.HistogramVec
	ready        chan struct{}
	stop         chan struct{}
	inShutdown   atomic.Bool
	doneCh       chan struct{}
	wg           sync.WaitGroup
}

// New creates a new pinger service that checks every interval and registers
// its metrics on reg.
func New(
	logger *slog.Logger,
	interval time.Duration,
	reg prometheus.Registerer,
) *Service {
	factory := promauto.With(reg)

	return &Service{
		logger:   logger,
		interval: interval,
		pingers:  make(map[string]*pingerInfo),
		componentUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sidecar_reaper_component_up",
				Help: "Whether the last health check of a component passed",
			},
			[]string{"component"},
		),
		pingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidecar_reaper_component_ping_duration_seconds",
				Help:    "Latency of component health checks",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"component", "result"},
		),
		ready:  make(chan struct{}),
		stop:   make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Service)(nil)

// Name returns the name of the pinger service component
func (s *Service) Name() string {
	return "pinger-service"
}

// Register adds a component. Components are ready- and health-critical unless
// they say otherwise through PingerReadyCritical / PingerCritical.
func (s *Service) Register(p Pinger) error {
	if p == nil {
		return fmt.Errorf("register pinger: %w", ErrNilPinger)
	}

	name := p.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pingers[name]; exists {
		return fmt.Errorf("register pinger %s: %w", name, ErrPingerAlreadyRegistered)
	}

	info := &pingerInfo{
		pinger:  p,
		timeout: defaultPingTimeout,
		status: Status{
			Name:           name,
			ReadyCritical:  true,
			HealthCritical: true,
		},
	}

	if rc, ok := p.(readyCriticalPinger); ok {
		info.status.ReadyCritical = rc.PingerReadyCritical()
	}

	if hc, ok := p.(healthCriticalPinger); ok {
		info.status.HealthCritical = hc.PingerCritical()
	}

	if tp, ok := p.(timeoutPinger); ok && tp.PingerTimeout() > 0 {
		info.timeout = tp.PingerTimeout()
	}

	s.pingers[name] = info
	s.componentUp.WithLabelValues(name).Set(0)

	s.logger.Info("pinger registered",
		"name", name,
		"readyCritical", info.status.ReadyCritical,
		"healthCritical", info.status.HealthCritical,
		"timeout", info.timeout,
	)

	return nil
}

// Start starts the pinger service in a goroutine
func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger service is shutting down, skipping start")

		return nil
	}

	go s.run(ctx)

	return nil
}

// Ready is closed once the first round of checks has completed.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Shutdown stops the loop and waits for in-flight checks.
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "pinger service is already shutting down, skipping shutdown")

		return nil
	}

	s.logger.InfoContext(ctx, "shutting down pinger service")

	close(s.stop)

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before pinger loop exited: %w", ctx.Err())
	case <-s.doneCh:
	}

	s.wg.Wait()

	s.logger.InfoContext(ctx, "pinger service shut downed")

	return nil
}

// GetStatus returns the latest status of one component.
func (s *Service) GetStatus(name string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.pingers[name]
	if !ok {
		return Status{}, fmt.Errorf("get status: %w: %s", ErrPingerNotFound, name)
	}

	return info.status, nil
}

// GetAllStatuses returns a copy of every component status, sorted by name.
func (s *Service) GetAllStatuses() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := slices.Sorted(maps.Keys(s.pingers))
	out := make([]Status, 0, len(names))

	for _, name := range names {
		out = append(out, s.pingers[name].status)
	}

	return out
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("component", "pinger-run")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runPingers(ctx, logger)

	close(s.ready)

	for {
		select {
		case <-ticker.C:
			s.runPingers(ctx, logger)
		case <-s.stop:
			logger.InfoContext(ctx, "terminating pinger loop")

			return
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating pinger loop")

			return
		}
	}
}

// runPingers checks every component in parallel and waits for all of them.
func (s *Service) runPingers(ctx context.Context, logger *slog.Logger) {
	s.mu.RLock()
	infos := slices.Collect(maps.Values(s.pingers))
	s.mu.RUnlock()

	var round sync.WaitGroup

	for _, info := range infos {
		round.Add(1)
		s.wg.Add(1)

		go func() {
			defer round.Done()
			defer s.wg.Done()

			s.ping(ctx, logger, info)
		}()
	}

	round.Wait()
}

func (s *Service) ping(ctx context.Context, logger *slog.Logger, info *pingerInfo) {
	name := info.pinger.Name()

	pingCtx, cancel := context.WithTimeout(ctx, info.timeout)
	defer cancel()

	start := time.Now()
	err := info.pinger.Ping(pingCtx)
	latency := time.Since(start)

	s.mu.Lock()
	info.status.LastRun = start
	info.status.LastLatency = latency.String()

	if err != nil {
		info.status.LastError = err.Error()
		info.status.Failures++
	} else {
		info.status.LastError = ""
		info.status.Successes++
	}
	s.mu.Unlock()

	if err != nil {
		s.componentUp.WithLabelValues(name).Set(0)
		s.pingDuration.WithLabelValues(name, resultError).Observe(latency.Seconds())
		logger.DebugContext(ctx, "pinger error", "name", name, "latency", latency, "reason", err)

		return
	}

	s.componentUp.WithLabelValues(name).Set(1)
	s.pingDuration.WithLabelValues(name, resultSuccess).Observe(latency.Seconds())
	logger.DebugContext(ctx, "pinger success", "name", name, "latency", latency)
}
