package k8s

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/httpstream"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"

	"github.com/skillcoder/sidecar-reaper/internal/logic/executor"
)

// defaultDialTimeout bounds the upgrade request to the API server.
const defaultDialTimeout = 10 * time.Second

var requestID atomic.Int64

// PortForwardCommand opens a single data stream to port inside the pod.
func (a *Adapter) PortForwardCommand(
	ctx context.Context,
	namespace,
	pod string,
	port uint16,
) (executor.Tunnel, error) {
	req := a.clientset.CoreV1().RESTClient().
		Post().
		Resource("pods").
		Namespace(namespace).
		Name(pod).
		SubResource("portforward")

	transport, upgrader, err := spdy.RoundTripperFor(a.restConfig)
	if err != nil {
		return nil, fmt.Errorf("create round tripper: %w", err)
	}

	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, req.URL())

	conn, protocol, err := dialWithTimeout(ctx, dialer, a.dialTimeout)
	if errors.Is(err, errDialTimeout) {
		return nil, fmt.Errorf("port-forward dial: %w", err)
	}

	if err != nil {
		if a.podGone(ctx, namespace, pod) {
			return nil, fmt.Errorf("port-forward: %w", errPodNotFound)
		}

		return nil, fmt.Errorf("port-forward dial: %w", err)
	}

	if protocol != portforward.PortForwardProtocolV1Name {
		_ = conn.Close()

		return nil, fmt.Errorf("%w: %q", errUnexpectedProtocol, protocol)
	}

	t, err := openTunnel(conn, port)
	if err != nil {
		_ = conn.Close()

		return nil, err
	}

	a.logger.DebugContext(ctx, "port-forward opened", "pod", pod, "namespace", namespace, "port", port)

	return t, nil
}

type dialResult struct {
	conn     httpstream.Connection
	protocol string
	err      error
}

// dialWithTimeout runs the upgrade until timeout or ctx is done. A connection
// that arrives after giving up is closed.
func dialWithTimeout(
	ctx context.Context,
	dialer httpstream.Dialer,
	timeout time.Duration,
) (httpstream.Connection, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan dialResult, 1)

	go func() {
		conn, protocol, err := dialer.Dial(portforward.PortForwardProtocolV1Name)
		done <- dialResult{conn: conn, protocol: protocol, err: err}
	}()

	select {
	case res := <-done:
		return res.conn, res.protocol, res.err
	case <-ctx.Done():
		go func() {
			if res := <-done; res.conn != nil {
				_ = res.conn.Close()
			}
		}()

		return nil, "", fmt.Errorf("%w after %s: %w", errDialTimeout, timeout, ctx.Err())
	}
}

// tunnel is one port-forward request: an error stream and a data stream on a shared connection.
type tunnel struct {
	conn   httpstream.Connection
	data   httpstream.Stream
	closed atomic.Bool
	once   sync.Once

	errDone   chan struct{}
	remoteErr error
}

func openTunnel(conn httpstream.Connection, port uint16) (*tunnel, error) {
	headers := http.Header{}
	headers.Set(corev1.StreamType, corev1.StreamTypeError)
	headers.Set(corev1.PortHeader, strconv.Itoa(int(port)))
	headers.Set(corev1.PortForwardRequestIDHeader, strconv.FormatInt(requestID.Add(1), 10))

	errorStream, err := conn.CreateStream(headers)
	if err != nil {
		return nil, fmt.Errorf("create error stream: %w", err)
	}

	// nothing is ever written to the error stream
	_ = errorStream.Close()

	headers.Set(corev1.StreamType, corev1.StreamTypeData)

	dataStream, err := conn.CreateStream(headers)
	if err != nil {
		return nil, fmt.Errorf("create data stream: %w", err)
	}

	t := &tunnel{
		conn:    conn,
		data:    dataStream,
		errDone: make(chan struct{}),
	}

	go t.readErrors(errorStream)

	return t, nil
}

func (t *tunnel) readErrors(errorStream io.Reader) {
	defer close(t.errDone)

	message, err := io.ReadAll(errorStream)

	switch {
	case err != nil && !t.closed.Load():
		t.remoteErr = fmt.Errorf("read error stream: %w", err)
	case len(message) > 0:
		t.remoteErr = fmt.Errorf("%w: %s", errRemotePortForward, strings.TrimSpace(string(message)))
	}
}

func (t *tunnel) Read(p []byte) (int, error) {
	return t.data.Read(p)
}

func (t *tunnel) Write(p []byte) (int, error) {
	return t.data.Write(p)
}

// Close tears down the streams and the connection. It is safe to call more than once.
func (t *tunnel) Close() error {
	var err error

	t.once.Do(func() {
		t.closed.Store(true)
		t.conn.RemoveStreams(t.data)
		err = t.conn.Close()
	})

	return err
}

// Wait blocks until the pod side has finished with the request.
func (t *tunnel) Wait() error {
	<-t.errDone

	return t.remoteErr
}
