package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sidecarLabels = []string{"container", "job_name", "namespace"}

// Recorder holds the controller counters. It is safe for concurrent use.
type Recorder struct {
	sidecarShutdowns            *prometheus.CounterVec
	failedSidecarShutdowns      *prometheus.CounterVec
	unsupportedSidecars         *prometheus.CounterVec
	totalUnsuccessfulEventPosts prometheus.Counter
}

// NewRegistry returns a registry with the Go runtime and process collectors registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// New registers the controller counters on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		sidecarShutdowns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidecar_shutdowns",
				Help: "Number of sidecar shutdowns",
			},
			sidecarLabels,
		),
		failedSidecarShutdowns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "failed_sidecar_shutdowns",
				Help: "Number of failed sidecar shutdowns",
			},
			sidecarLabels,
		),
		unsupportedSidecars: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unsupported_sidecars",
				Help: "Number of running sidecars without a defined shutdown action",
			},
			sidecarLabels,
		),
		totalUnsuccessfulEventPosts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "total_unsuccessful_event_posts",
				Help: "Total number of unsuccessful Kubernetes Event posts",
			},
		),
	}
}

func (r *Recorder) RecordSidecarShutdown(container, jobName, namespace string) {
	r.sidecarShutdowns.WithLabelValues(container, jobName, namespace).Inc()
}

func (r *Recorder) RecordFailedSidecarShutdown(container, jobName, namespace string) {
	r.failedSidecarShutdowns.WithLabelValues(container, jobName, namespace).Inc()
}

// RecordUnsupportedSidecar increments the counter for a sidecar missing from the catalog.
func (r *Recorder) RecordUnsupportedSidecar(container, jobName, namespace string) {
	r.unsupportedSidecars.WithLabelValues(container, jobName, namespace).Inc()
}

func (r *Recorder) RecordUnsuccessfulEventPost() {
	r.totalUnsuccessfulEventPosts.Inc()
}
