package k8s

import (
	"maps"

	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/sidecar-reaper/internal/logic/controller"
)

func toDomainPod(pod *corev1.Pod) controller.Pod {
	out := controller.Pod{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		UID:       string(pod.UID),
		Labels:    maps.Clone(pod.Labels),
	}

	if len(pod.Status.ContainerStatuses) == 0 {
		return out
	}

	out.Containers = make([]controller.ContainerStatus, 0, len(pod.Status.ContainerStatuses))

	for i := range pod.Status.ContainerStatuses {
		status := &pod.Status.ContainerStatuses[i]
		out.Containers = append(out.Containers, controller.ContainerStatus{
			Name:       status.Name,
			Terminated: status.State.Terminated != nil,
		})
	}

	return out
}

func toEventType(t controller.EventType) string {
	if t == controller.EventTypeWarning {
		return corev1.EventTypeWarning
	}

	return corev1.EventTypeNormal
}
