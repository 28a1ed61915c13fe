package executor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"k8s.io/client-go/util/exec"

	"github.com/skillcoder/sidecar-reaper/internal/logic/catalog"
)

type testNotFoundError struct{}

func (testNotFoundError) Error() string { return "pods \"job-7\" not found" }
func (testNotFoundError) IsNotFound()   {}

// pipeTunnel is the client half of a net.Pipe acting as a port-forward stream.
type pipeTunnel struct {
	net.Conn
	waitErr error
	closed  chan struct{}
	once    sync.Once
}

func (p *pipeTunnel) Close() error {
	p.once.Do(func() { close(p.closed) })

	return p.Conn.Close()
}

func (p *pipeTunnel) Wait() error {
	<-p.closed

	return p.waitErr
}

type execCall struct {
	namespace string
	pod       string
	container string
	argv      []string
}

type fakeRunner struct {
	mu        sync.Mutex
	execCalls []execCall
	execErr   error
	pfErr     error
	pfPorts   []uint16
	waitErr   error
	// serve handles the server side of each opened tunnel.
	serve func(conn net.Conn)
}

func (f *fakeRunner) ExecCommand(_ context.Context, namespace, pod, container string, argv []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execCalls = append(f.execCalls, execCall{namespace: namespace, pod: pod, container: container, argv: argv})

	return f.execErr
}

func (f *fakeRunner) PortForwardCommand(_ context.Context, _, _ string, port uint16) (Tunnel, error) {
	f.mu.Lock()
	f.pfPorts = append(f.pfPorts, port)
	f.mu.Unlock()

	if f.pfErr != nil {
		return nil, f.pfErr
	}

	client, server := net.Pipe()

	go f.serve(server)

	return &pipeTunnel{Conn: client, waitErr: f.waitErr, closed: make(chan struct{})}, nil
}

// respond reads one request, hands it to check and writes a raw response.
func respond(raw string, check func(*http.Request)) func(net.Conn) {
	return func(conn net.Conn) {
		defer conn.Close()

		req, err := http.ReadRequest(bufio.NewReader(conn))
		if err != nil {
			return
		}

		if check != nil {
			check(req)
		}

		_, _ = io.WriteString(conn, raw)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func newTestExecutor(runner Runner) *Executor {
	e := New(slog.Default(), runner)
	e.requestTimeout = 200 * time.Millisecond

	return e
}

func TestExecutor_ExecCommand(t *testing.T) {
	t.Parallel()

	c, err := catalog.Build([]catalog.Entry{
		{Name: "cloudsql-proxy", Kind: catalog.KindExec, Command: "kill -s INT 1"},
	})
	require.NoError(t, err)

	recipe, ok := c.Lookup("cloudsql-proxy")
	require.True(t, ok)

	t.Run("runs exactly the split command", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{}
		e := newTestExecutor(runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "cloudsql-proxy")
		require.NoError(t, err)
		require.Len(t, runner.execCalls, 1)
		require.Equal(t, execCall{
			namespace: "batch",
			pod:       "job-7",
			container: "cloudsql-proxy",
			argv:      []string{"kill", "-s", "INT", "1"},
		}, runner.execCalls[0])
	})

	t.Run("remote failure is exec failed", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{execErr: errors.New("container not running")}
		e := newTestExecutor(runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "cloudsql-proxy")
		require.ErrorIs(t, err, ErrExecFailed)
		require.ErrorContains(t, err, "cloudsql-proxy")
		require.ErrorContains(t, err, "container not running")
	})

	t.Run("pod not found is success", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{execErr: testNotFoundError{}}
		e := newTestExecutor(runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "cloudsql-proxy")
		require.NoError(t, err)
	})

	t.Run("non-zero exit is success", func(t *testing.T) {
		t.Parallel()

		buf := &syncBuffer{}
		runner := &fakeRunner{
			execErr: fmt.Errorf("exec: %w: %s",
				exec.CodeExitError{Err: errors.New("command terminated with exit code 1"), Code: 1},
				"configmap-reload: no process found",
			),
		}
		e := New(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "cloudsql-proxy")
		require.NoError(t, err)
		require.Contains(t, buf.String(), "exitStatus=1")
		require.Contains(t, buf.String(), "no process found")
	})
}

func TestExecutor_RepeatedShutdownIsSuccess(t *testing.T) {
	t.Parallel()

	t.Run("exec", func(t *testing.T) {
		t.Parallel()

		recipe := catalog.NewCommand("/bin/killall", "configmap-reload")
		runner := &fakeRunner{}
		e := newTestExecutor(runner)

		require.NoError(t, e.Execute(t.Context(), recipe, "batch", "job-7", "secure-logs-configmap-reload"))

		// the process is gone, so the second signal finds nothing to kill
		runner.mu.Lock()
		runner.execErr = exec.CodeExitError{Err: errors.New("command terminated with exit code 1"), Code: 1}
		runner.mu.Unlock()

		require.NoError(t, e.Execute(t.Context(), recipe, "batch", "job-7", "secure-logs-configmap-reload"))
		require.Len(t, runner.execCalls, 2)
		require.Equal(t, runner.execCalls[0], runner.execCalls[1])
	})

	t.Run("http trigger", func(t *testing.T) {
		t.Parallel()

		recipe := catalog.NewHTTPTrigger("POST", "/shutdown", 4191)
		runner := &fakeRunner{
			serve: respond("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", nil),
		}
		e := newTestExecutor(runner)

		require.NoError(t, e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy"))
		require.NoError(t, e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy"))
		require.Equal(t, []uint16{4191, 4191}, runner.pfPorts)
	})
}

func TestExecutor_HTTPTrigger(t *testing.T) {
	t.Parallel()

	recipe := catalog.NewHTTPTrigger("POST", "/shutdown", 4191)

	t.Run("200 is success", func(t *testing.T) {
		t.Parallel()

		var (
			mu  sync.Mutex
			got *http.Request
		)

		runner := &fakeRunner{
			serve: respond("HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok", func(r *http.Request) {
				mu.Lock()
				defer mu.Unlock()

				got = r
			}),
		}
		e := newTestExecutor(runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy")
		require.NoError(t, err)
		require.Equal(t, []uint16{4191}, runner.pfPorts)

		mu.Lock()
		defer mu.Unlock()

		require.NotNil(t, got)
		require.Equal(t, http.MethodPost, got.Method)
		require.Equal(t, "/shutdown", got.URL.Path)
		require.Equal(t, "127.0.0.1", got.Host)
		require.True(t, got.Close)
		require.Zero(t, got.ContentLength)
	})

	t.Run("200 with any body is success", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{
			serve: respond("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\n\xff\xfe", nil),
		}
		e := newTestExecutor(runner)

		require.NoError(t, e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy"))
	})

	t.Run("500 carries body", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{
			serve: respond("HTTP/1.1 500 Internal Server Error\r\nContent-Length: 13\r\n\r\nshutting down", nil),
		}
		e := newTestExecutor(runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy")
		require.ErrorIs(t, err, ErrUnexpectedStatus)

		var statusErr *UnexpectedStatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusInternalServerError, statusErr.Code)
		require.Equal(t, "shutting down", statusErr.Body)
		require.ErrorContains(t, err, "job-7: http request (POST /shutdown at port 4191) failed: code 500: shutting down")
	})

	t.Run("non utf-8 body is undecodable", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{
			serve: respond("HTTP/1.1 503 Service Unavailable\r\nContent-Length: 2\r\n\r\n\xff\xfe", nil),
		}
		e := newTestExecutor(runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy")
		require.ErrorIs(t, err, ErrUndecodableBody)
		require.NotErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("long utf-8 body cut inside a rune is still a status error", func(t *testing.T) {
		t.Parallel()

		body := "a" + strings.Repeat("é", 40000)
		runner := &fakeRunner{
			serve: respond("HTTP/1.1 500 Internal Server Error\r\nContent-Length: "+
				strconv.Itoa(len(body))+"\r\n\r\n"+body, nil),
		}
		e := newTestExecutor(runner)
		e.requestTimeout = 2 * time.Second

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy")
		require.NotErrorIs(t, err, ErrUndecodableBody)

		var statusErr *UnexpectedStatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusInternalServerError, statusErr.Code)
		require.True(t, utf8.ValidString(statusErr.Body))
		require.Len(t, statusErr.Body, maxBodyBytes-1)
		require.True(t, strings.HasPrefix(body, statusErr.Body))
	})

	t.Run("no response is timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		runner := &fakeRunner{
			serve: func(conn net.Conn) {
				defer conn.Close()

				_, _ = http.ReadRequest(bufio.NewReader(conn))

				<-release
			},
		}
		e := newTestExecutor(runner)

		start := time.Now()
		err := e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy")
		require.ErrorIs(t, err, ErrRequestTimeout)
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("attach failure is port unavailable", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{pfErr: errors.New("upgrade request required")}
		e := newTestExecutor(runner)

		err := e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy")
		require.ErrorIs(t, err, ErrPortUnavailable)
		require.ErrorContains(t, err, "4191")
	})

	t.Run("abnormal tunnel close is logged", func(t *testing.T) {
		t.Parallel()

		buf := &syncBuffer{}
		runner := &fakeRunner{
			serve:   respond("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", nil),
			waitErr: errors.New("connection reset"),
		}
		e := New(slog.New(slog.NewTextHandler(buf, nil)), runner)

		require.NoError(t, e.Execute(t.Context(), recipe, "batch", "job-7", "linkerd-proxy"))
		require.Eventually(t, func() bool {
			return bytes.Contains([]byte(buf.String()), []byte("error in portforward connection"))
		}, time.Second, 10*time.Millisecond)
	})
}

func TestExecutor_UnknownRecipe(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(&fakeRunner{})

	err := e.Execute(t.Context(), catalog.Recipe{}, "batch", "job-7", "istio-proxy")
	require.ErrorIs(t, err, ErrUnknownRecipe)
}
