package k8s

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
)

// ExecCommand runs argv inside container and waits for it to exit.
// Only stderr is attached; it ends up in the returned error.
func (a *Adapter) ExecCommand(
	ctx context.Context,
	namespace,
	pod,
	container string,
	argv []string,
) error {
	req := a.clientset.CoreV1().RESTClient().
		Post().
		Resource("pods").
		Namespace(namespace).
		Name(pod).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   argv,
			Stdout:    false,
			Stderr:    true,
		}, scheme.ParameterCodec)

	exec, err := remotecommand.NewSPDYExecutor(a.restConfig, http.MethodPost, req.URL())
	if err != nil {
		return fmt.Errorf("create executor: %w", err)
	}

	var stderr bytes.Buffer

	err = exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stderr: &stderr,
	})
	if err != nil {
		if a.podGone(ctx, namespace, pod) {
			return fmt.Errorf("exec: %w", errPodNotFound)
		}

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("exec: %w: %s", err, msg)
		}

		return fmt.Errorf("exec: %w", err)
	}

	a.logger.DebugContext(ctx, "exec finished",
		"pod", pod,
		"namespace", namespace,
		"container", container,
		"command", argv,
	)

	return nil
}
