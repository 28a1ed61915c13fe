package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/skillcoder/sidecar-reaper/internal/logic/controller"
)

// PublishEventCommand attaches event to the pod as a core/v1 Event.
func (a *Adapter) PublishEventCommand(
	ctx context.Context,
	pod controller.Pod,
	event controller.Event,
) error {
	now := a.now()
	timestamp := metav1.NewTime(now)

	ev := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			// same naming as client-go's event recorder
			Name:      fmt.Sprintf("%v.%x", pod.Name, now.UnixNano()),
			Namespace: pod.Namespace,
		},
		InvolvedObject: corev1.ObjectReference{
			Kind:       "Pod",
			APIVersion: "v1",
			Namespace:  pod.Namespace,
			Name:       pod.Name,
			UID:        types.UID(pod.UID),
		},
		Reason:  event.Reason,
		Message: event.Message,
		Type:    toEventType(event.Type),
		Action:  event.Action,
		Source: corev1.EventSource{
			Component: a.reporter,
			Host:      a.instance,
		},
		FirstTimestamp:      timestamp,
		LastTimestamp:       timestamp,
		Count:               1,
		ReportingController: a.reporter,
		ReportingInstance:   a.instance,
	}

	_, err := a.clientset.CoreV1().Events(pod.Namespace).Create(ctx, ev, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}
