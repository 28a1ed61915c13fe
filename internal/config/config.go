package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/skillcoder/sidecar-reaper/internal/infra/cronparser"
	"github.com/skillcoder/sidecar-reaper/internal/logic/controller"
)

const (
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultHTTPPort        = "8080"
	defaultMetricsPort     = "8999"
	defaultWorkers         = 4
	defaultResyncTZ        = "UTC"
	defaultPingerInterval  = 10 * time.Second
	defaultTerminationFile = "/mnt/signal/terminating"
	defaultEventReporter   = "sidecar-reaper"
)

type Config struct {
	KubeConfig       string
	KubeMaster       string
	LogLevel         string
	LogFormat        string
	HTTPPort         string
	MetricsPort      string
	PodLabelSelector string
	JobLabelKey      string
	CatalogFile      string
	Interval         time.Duration
	RetryBackoff     time.Duration
	Workers          int
	ResyncSchedule   string
	ResyncTZ         string
	// Resync is the parsed ResyncSchedule; nil when resync is off.
	Resync          *cronparser.Schedule
	PingerInterval  time.Duration
	TerminationFile string
	EventReporter   string
}

func Load() (*Config, error) {
	cfg := &Config{
		KubeConfig:       getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback),
		KubeMaster:       getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback),
		LogLevel:         getEnvOrDefault(envKeyLogLevel, defaultLogLevel),
		LogFormat:        getEnvOrDefault(envKeyLogFormat, defaultLogFormat),
		HTTPPort:         getEnvOrDefault(envKeyHTTPPort, defaultHTTPPort),
		MetricsPort:      getEnvOrDefault(envKeyMetricsPort, defaultMetricsPort),
		PodLabelSelector: getEnvOrDefault(envKeyPodLabelSelector, controller.DefaultPodLabelSelector),
		JobLabelKey:      getEnvOrDefault(envKeyJobLabelKey, controller.DefaultJobLabelKey),
		CatalogFile:      os.Getenv(envKeyCatalogFile),
		ResyncSchedule:   os.Getenv(envKeyResyncSchedule),
		ResyncTZ:         getEnvOrDefault(envKeyResyncTZ, defaultResyncTZ),
		TerminationFile:  getEnvOrDefault(envKeyTerminationFile, defaultTerminationFile),
		EventReporter:    getEnvOrDefault(envKeyEventReporter, defaultEventReporter),
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.LogFormat)
	}

	if err := validatePort(envKeyHTTPPort, cfg.HTTPPort); err != nil {
		return nil, err
	}

	if err := validatePort(envKeyMetricsPort, cfg.MetricsPort); err != nil {
		return nil, err
	}

	if _, err := labels.Parse(cfg.PodLabelSelector); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidLabelSelector, cfg.PodLabelSelector, err)
	}

	var err error

	cfg.Interval, err = parseDurationEnv(envKeyInterval, controller.DefaultInterval, envMinInterval)
	if err != nil {
		return nil, err
	}

	cfg.RetryBackoff, err = parseDurationEnv(envKeyRetryBackoff, controller.DefaultRetryBackoff, envMinRetryBackoff)
	if err != nil {
		return nil, err
	}

	cfg.PingerInterval, err = parseDurationEnv(envKeyPingerInterval, defaultPingerInterval, envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = parseWorkersEnv()
	if err != nil {
		return nil, err
	}

	if cfg.ResyncSchedule != "" {
		cfg.Resync, err = cronparser.New().Parse(cfg.ResyncSchedule, cfg.ResyncTZ)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidResync, envKeyResyncSchedule, err)
		}
	}

	return cfg, nil
}

func parseDurationEnv(key string, defaultValue, minValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrInvalidDuration, key, raw, err)
	}

	if d < minValue {
		return 0, fmt.Errorf("%w: %s=%s, minimum is %s", ErrDurationTooSmall, key, d, minValue)
	}

	return d, nil
}

func parseWorkersEnv() (int, error) {
	raw := os.Getenv(envKeyWorkers)
	if raw == "" {
		return defaultWorkers, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrInvalidWorkers, envKeyWorkers, raw, err)
	}

	if n < envMinWorkers || n > envMaxWorkers {
		return 0, fmt.Errorf("%w: %s=%d, want %d..%d", ErrInvalidWorkers, envKeyWorkers, n, envMinWorkers, envMaxWorkers)
	}

	return n, nil
}

func validatePort(key, raw string) error {
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %s=%q", ErrInvalidPort, key, raw)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvWithFallback(key, fallbackKey string) string {
	value := os.Getenv(key)
	if value == "" {
		return os.Getenv(fallbackKey)
	}

	return value
}
