package executor

import (
	"context"
	"io"
)

// Runner is the port to the cluster for in-pod operations.
type Runner interface {
	// ExecCommand runs argv in the container with stdout suppressed.
	ExecCommand(
		ctx context.Context,
		namespace,
		pod,
		container string,
		argv []string,
	) error

	// PortForwardCommand opens a byte stream to a single port of the pod.
	PortForwardCommand(
		ctx context.Context,
		namespace,
		pod string,
		port uint16,
	) (Tunnel, error)
}

// Tunnel is a byte stream into a pod port.
type Tunnel interface {
	io.ReadWriteCloser

	// Wait blocks until the tunnel is torn down. A non-nil error means it closed abnormally.
	Wait() error
}

type notFound interface {
	IsNotFound()
}

// exitStatuser matches a remote command that ran and exited non-zero.
type exitStatuser interface {
	ExitStatus() int
}
