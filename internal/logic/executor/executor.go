package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/skillcoder/sidecar-reaper/internal/logic/catalog"
)

const (
	// requestTimeout bounds the whole HTTP exchange over a tunnel.
	requestTimeout = 1 * time.Second

	loopbackHost = "127.0.0.1"

	// maxBodyBytes caps how much of an error response body is kept.
	maxBodyBytes = 64 << 10
)

// Executor applies shutdown recipes to sidecar containers.
type Executor struct {
	logger         *slog.Logger
	runner         Runner
	requestTimeout time.Duration
}

// New creates a new shutdown executor.
func New(logger *slog.Logger, runner Runner) *Executor {
	return &Executor{
		logger:         logger,
		runner:         runner,
		requestTimeout: requestTimeout,
	}
}

// Execute stops one container of a pod using the given recipe.
// A pod that no longer exists counts as stopped.
func (e *Executor) Execute(
	ctx context.Context,
	recipe catalog.Recipe,
	namespace,
	podName,
	containerName string,
) error {
	logger := e.logger.With("pod", podName, "namespace", namespace, "container", containerName)

	var err error

	switch recipe.Kind() {
	case catalog.KindExec:
		err = e.execCommand(ctx, logger, recipe, namespace, podName, containerName)
	case catalog.KindPortForward:
		err = e.httpTrigger(ctx, logger, recipe, namespace, podName, containerName)
	default:
		err = fmt.Errorf("%s: %w: %q", podName, ErrUnknownRecipe, recipe.Kind())
	}

	var target notFound
	if errors.As(err, &target) {
		logger.DebugContext(ctx, "pod not found, nothing to shut down")

		return nil
	}

	return err
}

func (e *Executor) execCommand(
	ctx context.Context,
	logger *slog.Logger,
	recipe catalog.Recipe,
	namespace,
	podName,
	containerName string,
) error {
	argv := recipe.Command()

	logger.DebugContext(ctx, "running command", "command", argv)

	err := e.runner.ExecCommand(ctx, namespace, podName, containerName, argv)

	// the signal was delivered; how the command itself ended does not matter
	var exited exitStatuser
	if errors.As(err, &exited) {
		logger.DebugContext(ctx, "command exited with non-zero status",
			"command", argv,
			"exitStatus", exited.ExitStatus(),
			"reason", err,
		)

		return nil
	}

	if err != nil {
		return fmt.Errorf("%s: %w in %s: %w", podName, ErrExecFailed, containerName, err)
	}

	logger.InfoContext(ctx, "sent command to container", "command", argv)

	return nil
}

func (e *Executor) httpTrigger(
	ctx context.Context,
	logger *slog.Logger,
	recipe catalog.Recipe,
	namespace,
	podName,
	containerName string,
) error {
	port := recipe.Port()

	tunnel, err := e.runner.PortForwardCommand(ctx, namespace, podName, port)
	if err != nil {
		return fmt.Errorf("%s: %w %d: %w", podName, ErrPortUnavailable, port, err)
	}
	defer tunnel.Close()

	// The tunnel outlives this call only until Close; its result is logged, never awaited.
	go func() {
		if err := tunnel.Wait(); err != nil {
			logger.Error("error in portforward connection", "port", port, "reason", err)
		}
	}()

	logger.DebugContext(ctx, "sending http request", "method", recipe.Method(), "path", recipe.Path(), "port", port)

	err = e.roundTrip(ctx, tunnel, recipe)
	if err != nil {
		return fmt.Errorf("%s: http request (%s) %w", podName, recipe, err)
	}

	logger.InfoContext(ctx, "sent http request to container",
		"method", recipe.Method(),
		"path", recipe.Path(),
		"port", port,
	)

	return nil
}

type exchange struct {
	code int
	body []byte
	err  error
}

// roundTrip writes one request to the tunnel and reads the response within requestTimeout.
func (e *Executor) roundTrip(ctx context.Context, tunnel Tunnel, recipe catalog.Recipe) error {
	req, err := http.NewRequestWithContext(
		ctx,
		recipe.Method(),
		"http://"+loopbackHost+recipe.Path(),
		http.NoBody,
	)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrRequestFailed, err)
	}

	req.Close = true
	req.Header.Set("Connection", "close")

	done := make(chan exchange, 1)

	go func() {
		done <- send(tunnel, req)
	}()

	timer := time.NewTimer(e.requestTimeout)
	defer timer.Stop()

	var res exchange

	select {
	case <-timer.C:
		// unblocks the sender goroutine
		_ = tunnel.Close()

		return fmt.Errorf("failed: %w", ErrRequestTimeout)
	case <-ctx.Done():
		_ = tunnel.Close()

		return fmt.Errorf("failed: %w", ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return fmt.Errorf("failed: %w", res.err)
	}

	if res.code == http.StatusOK {
		return nil
	}

	if !utf8.Valid(res.body) {
		return fmt.Errorf("failed: code %d: %w", res.code, ErrUndecodableBody)
	}

	return fmt.Errorf("failed: %w", &UnexpectedStatusError{Code: res.code, Body: string(res.body)})
}

func send(tunnel Tunnel, req *http.Request) exchange {
	err := req.Write(tunnel)
	if err != nil {
		return exchange{err: fmt.Errorf("%w: write: %w", ErrRequestFailed, err)}
	}

	resp, err := http.ReadResponse(bufio.NewReader(tunnel), req)
	if err != nil {
		return exchange{err: fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return exchange{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return exchange{err: fmt.Errorf("%w: read body: %w", ErrRequestFailed, err)}
	}

	if len(body) == maxBodyBytes {
		body = trimPartialRune(body)
	}

	return exchange{code: resp.StatusCode, body: body}
}

// trimPartialRune drops a multi-byte rune cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}

		if !utf8.FullRune(b[i:]) {
			return b[:i]
		}

		return b
	}

	return b
}
