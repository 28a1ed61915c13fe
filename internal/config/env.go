package config

import "time"

// Env key constants. All controller configuration env vars use SIDECARREAPER_ prefix;
// duration values support explicit units (e.g. 5m, 40s, 2h).

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "SIDECARREAPER_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "SIDECARREAPER_KUBE_MASTER"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "SIDECARREAPER_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "SIDECARREAPER_LOG_FORMAT"

// Port for health/readiness HTTP server.
const envKeyHTTPPort = "SIDECARREAPER_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "SIDECARREAPER_METRICS_PORT"

// Label selector for watched pods (e.g. nais.io/naisjob=true).
const envKeyPodLabelSelector = "SIDECARREAPER_POD_LABEL_SELECTOR"

// Pod label whose value names the main container.
const envKeyJobLabelKey = "SIDECARREAPER_JOB_LABEL_KEY"

// YAML or JSON file with shutdown actions; empty means the built-in catalog.
const envKeyCatalogFile = "SIDECARREAPER_CATALOG_FILE"

// Delay before a pod is looked at again after its sidecars were stopped. Units: s, m, h.
const (
	envKeyInterval = "SIDECARREAPER_INTERVAL"
	envMinInterval = 30 * time.Second
)

// Delay before a failed pod is retried. Units: s, m, h.
const (
	envKeyRetryBackoff = "SIDECARREAPER_RETRY_BACKOFF"
	envMinRetryBackoff = time.Second
)

// Number of pods reconciled in parallel.
const (
	envKeyWorkers = "SIDECARREAPER_WORKERS"
	envMinWorkers = 1
	envMaxWorkers = 64
)

// Cron expression for a full re-enqueue of watched pods; empty disables it.
const envKeyResyncSchedule = "SIDECARREAPER_RESYNC_SCHEDULE"

// Timezone for the resync schedule (IANA, e.g. Europe/Oslo).
const envKeyResyncTZ = "SIDECARREAPER_RESYNC_TZ"

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval = "SIDECARREAPER_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// File whose appearance starts a graceful shutdown.
const envKeyTerminationFile = "SIDECARREAPER_TERMINATION_FILE"

// Component name published on Kubernetes events.
const envKeyEventReporter = "SIDECARREAPER_EVENT_REPORTER"

// Standard k8s env keys used as fallback when SIDECARREAPER_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)
