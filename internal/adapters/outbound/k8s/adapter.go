package k8s

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/informers"
	"k8s.io/client-go/kubernetes"
	listersv1 "k8s.io/client-go/listers/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/cache"

	"github.com/skillcoder/sidecar-reaper/internal/logic/controller"
	"github.com/skillcoder/sidecar-reaper/internal/logic/executor"
)

// Adapter talks to the Kubernetes API on behalf of the controller and the executor.
type Adapter struct {
	logger      *slog.Logger
	clientset   kubernetes.Interface
	restConfig  *rest.Config
	reporter    string
	instance    string
	now         func() time.Time
	dialTimeout time.Duration

	mu        sync.RWMutex
	lister    listersv1.PodLister
	watchedBy string
}

// New creates a new K8s adapter. restConfig is needed only for exec and
// port-forward; reporter and instance identify the controller on published events.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
	restConfig *rest.Config,
	reporter,
	instance string,
) *Adapter {
	return &Adapter{
		logger:      logger,
		clientset:   clientset,
		restConfig:  restConfig,
		reporter:    reporter,
		instance:    instance,
		now:         time.Now,
		dialTimeout: defaultDialTimeout,
	}
}

var (
	_ controller.Repository = (*Adapter)(nil)
	_ executor.Runner       = (*Adapter)(nil)
)

func (a *Adapter) WatchPodsQuery(
	ctx context.Context,
	labelSelector string,
	onChange func(controller.PodKey),
) error {
	if _, err := labels.Parse(labelSelector); err != nil {
		return fmt.Errorf("parse label selector %q: %w", labelSelector, err)
	}

	factory := informers.NewSharedInformerFactoryWithOptions(
		a.clientset,
		0,
		informers.WithTweakListOptions(func(opts *metav1.ListOptions) {
			opts.LabelSelector = labelSelector
		}),
	)

	pods := factory.Core().V1().Pods()
	informer := pods.Informer()

	_, err := informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj any) {
			a.notify(obj, onChange)
		},
		UpdateFunc: func(_, newObj any) {
			a.notify(newObj, onChange)
		},
	})
	if err != nil {
		return fmt.Errorf("add pod event handler: %w", err)
	}

	factory.Start(ctx.Done())

	if !cache.WaitForCacheSync(ctx.Done(), informer.HasSynced) {
		factory.Shutdown()

		return errCacheNotSynced
	}

	a.mu.Lock()
	a.lister = pods.Lister()
	a.watchedBy = labelSelector
	a.mu.Unlock()

	a.logger.InfoContext(ctx, "pod cache synced", "labelSelector", labelSelector)

	return nil
}

func (a *Adapter) notify(obj any, onChange func(controller.PodKey)) {
	pod, ok := obj.(*corev1.Pod)
	if !ok {
		return
	}

	onChange(controller.PodKey{Namespace: pod.Namespace, Name: pod.Name})
}

// GetPodQuery reads from the watch cache and falls back to the API before the first watch.
func (a *Adapter) GetPodQuery(
	ctx context.Context,
	namespace,
	name string,
) (*controller.Pod, error) {
	lister, _ := a.podLister()
	if lister != nil {
		pod, err := lister.Pods(namespace).Get(name)
		if err != nil {
			if apierrors.IsNotFound(err) {
				return nil, fmt.Errorf("get pod: %w", errPodNotFound)
			}

			return nil, fmt.Errorf("get pod: %w", err)
		}

		out := toDomainPod(pod)

		return &out, nil
	}

	pod, err := a.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("get pod: %w", errPodNotFound)
		}

		return nil, fmt.Errorf("get pod: %w", err)
	}

	out := toDomainPod(pod)

	return &out, nil
}

func (a *Adapter) ListPodsQuery(
	ctx context.Context,
	labelSelector string,
) ([]controller.Pod, error) {
	lister, watchedBy := a.podLister()
	if lister != nil && watchedBy == labelSelector {
		selector, err := labels.Parse(labelSelector)
		if err != nil {
			return nil, fmt.Errorf("parse label selector %q: %w", labelSelector, err)
		}

		cached, err := lister.List(selector)
		if err != nil {
			return nil, fmt.Errorf("list pods: %w", err)
		}

		pods := make([]controller.Pod, 0, len(cached))
		for _, pod := range cached {
			pods = append(pods, toDomainPod(pod))
		}

		return pods, nil
	}

	podList, err := a.clientset.CoreV1().Pods("").List(
		ctx,
		metav1.ListOptions{
			LabelSelector: labelSelector,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list pods: %w", err)
	}

	pods := make([]controller.Pod, 0, len(podList.Items))
	for i := range podList.Items {
		pods = append(pods, toDomainPod(&podList.Items[i]))
	}

	return pods, nil
}

func (a *Adapter) podLister() (listersv1.PodLister, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.lister, a.watchedBy
}

// podGone checks whether a failed in-pod call failed because the pod disappeared.
func (a *Adapter) podGone(ctx context.Context, namespace, name string) bool {
	_, err := a.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})

	return apierrors.IsNotFound(err)
}
