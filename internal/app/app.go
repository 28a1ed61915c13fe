package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/skillcoder/sidecar-reaper/internal/adapters/outbound/k8s"
	"github.com/skillcoder/sidecar-reaper/internal/config"
	"github.com/skillcoder/sidecar-reaper/internal/httpserver"
	"github.com/skillcoder/sidecar-reaper/internal/infra/metrics"
	"github.com/skillcoder/sidecar-reaper/internal/infra/shutdown"
	"github.com/skillcoder/sidecar-reaper/internal/logic/catalog"
	"github.com/skillcoder/sidecar-reaper/internal/logic/controller"
	"github.com/skillcoder/sidecar-reaper/internal/logic/executor"
)

var errControllerExited = errors.New("controller loop exited")

type App struct {
	logger          *slog.Logger
	appState        appstater
	pingers         pingerService
	controller      controllerService
	components      []component
	quit            <-chan os.Signal
	terminationFile string
}

// New creates a new application instance with all dependencies wired.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	appState appstater,
	pingers pingerService,
	registry *prometheus.Registry,
	quit <-chan os.Signal,
) (*App, error) {
	kubeConfig, err := clientcmd.BuildConfigFromFlags(
		cfg.KubeMaster,
		cfg.KubeConfig,
	)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	recipes, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load sidecar catalog: %w", err)
	}

	logger.Info("sidecar catalog loaded", "sidecars", recipes.Names())

	instance, err := os.Hostname()
	if err != nil {
		logger.Warn("failed to resolve hostname for event source", "reason", err)
	}

	// Create secondary adapter (K8s adapter)
	k8sRepo := k8s.New(logger, clientset, kubeConfig, cfg.EventReporter, instance)

	reconciler := controller.NewReconciler(
		logger,
		k8sRepo,
		executor.New(logger, k8sRepo),
		recipes,
		metrics.New(registry),
		cfg.JobLabelKey,
		cfg.Interval,
		cfg.RetryBackoff,
	)

	opts := []controller.Option{controller.WithWorkers(cfg.Workers)}
	if cfg.Resync != nil {
		opts = append(opts, controller.WithResync(cfg.Resync))
	}

	controllerService := controller.New(
		logger,
		k8sRepo,
		reconciler,
		cfg.PodLabelSelector,
		cfg.RetryBackoff,
		opts...,
	)

	return &App{
		logger:     logger,
		appState:   appState,
		pingers:    pingers,
		controller: controllerService,
		// start order; shutdown runs in reverse
		components: []component{
			httpserver.NewMetricsServer(logger, registry, cfg.MetricsPort),
			httpserver.New(logger, appState, cfg.HTTPPort),
			controllerService,
		},
		quit:            quit,
		terminationFile: cfg.TerminationFile,
	}, nil
}

// Run starts every component and blocks until a signal arrives, ctx is
// cancelled or the controller loop dies. It then shuts everything down.
func (a *App) Run(originCtx context.Context) error {
	if shutdown.CheckTerminationFile(originCtx, a.logger, a.terminationFile) {
		a.logger.InfoContext(originCtx, "pod is terminating, not starting")

		return nil
	}

	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	go shutdown.WaitForSignal(ctx, a.logger, a.quit, cancel)

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting: %w", err)
	}

	runErr := a.start(ctx)
	if runErr == nil {
		runErr = a.wait(ctx)
	}

	if err := a.appState.Shutdown(ctx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown: %w", err))
	}

	return runErr
}

func (a *App) start(ctx context.Context) error {
	readies := make([]<-chan struct{}, 0, len(a.components)+1)

	for _, c := range a.components {
		a.logger.InfoContext(ctx, "starting component", "component", c.Name())

		if err := c.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}

		a.appState.RegisterShutdowner(c)

		if err := a.pingers.Register(c); err != nil {
			return fmt.Errorf("register pinger: %w", err)
		}

		readies = append(readies, c.Ready())
	}

	if err := a.pingers.Start(ctx); err != nil {
		return fmt.Errorf("start %s: %w", a.pingers.Name(), err)
	}

	a.appState.RegisterShutdowner(a.pingers)
	readies = append(readies, a.pingers.Ready())

	select {
	case <-allChannelsClose(ctx, a.logger, readies...):
	case <-a.controller.Done():
		return errControllerExited
	}

	if ctx.Err() != nil {
		return nil
	}

	if err := a.appState.SetRunning(ctx); err != nil {
		return fmt.Errorf("set running: %w", err)
	}

	a.logger.InfoContext(ctx, "all components ready")

	return nil
}

func (a *App) wait(ctx context.Context) error {
	// the pod may have been marked for termination while we were starting
	if shutdown.CheckTerminationFile(ctx, a.logger, a.terminationFile) {
		a.logger.InfoContext(ctx, "pod is terminating, shutting down")

		return nil
	}

	select {
	case <-ctx.Done():
		return nil
	case <-a.controller.Done():
		if ctx.Err() != nil {
			return nil
		}

		return errControllerExited
	}
}

// allChannelsClose returns a channel that is closed once every input channel
// is closed, or as soon as ctx is done.
func allChannelsClose(ctx context.Context, logger *slog.Logger, chans ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{})

	if len(chans) == 0 {
		close(out)

		return out
	}

	var wg sync.WaitGroup

	for _, ch := range chans {
		wg.Add(1)

		go func() {
			defer wg.Done()

			select {
			case <-ch:
			case <-ctx.Done():
			}
		}()
	}

	go func() {
		wg.Wait()

		if ctx.Err() != nil {
			logger.InfoContext(ctx, "stopped waiting for components", "reason", ctx.Err())
		}

		close(out)
	}()

	return out
}
