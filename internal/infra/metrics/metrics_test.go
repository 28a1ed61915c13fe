package metrics_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/sidecar-reaper/internal/infra/metrics"
)

func TestRecorder_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	rec.RecordSidecarShutdown("cloudsql-proxy", "job-7", "batch")
	rec.RecordSidecarShutdown("cloudsql-proxy", "job-7", "batch")
	rec.RecordFailedSidecarShutdown("linkerd-proxy", "job-7", "batch")
	rec.RecordUnsupportedSidecar("istio-proxy", "job-7", "batch")
	rec.RecordUnsuccessfulEventPost()

	want := `
# HELP sidecar_shutdowns Number of sidecar shutdowns
# TYPE sidecar_shutdowns counter
sidecar_shutdowns{container="cloudsql-proxy",job_name="job-7",namespace="batch"} 2
# HELP failed_sidecar_shutdowns Number of failed sidecar shutdowns
# TYPE failed_sidecar_shutdowns counter
failed_sidecar_shutdowns{container="linkerd-proxy",job_name="job-7",namespace="batch"} 1
# HELP unsupported_sidecars Number of running sidecars without a defined shutdown action
# TYPE unsupported_sidecars counter
unsupported_sidecars{container="istio-proxy",job_name="job-7",namespace="batch"} 1
# HELP total_unsuccessful_event_posts Total number of unsuccessful Kubernetes Event posts
# TYPE total_unsuccessful_event_posts counter
total_unsuccessful_event_posts 1
`

	err := testutil.GatherAndCompare(reg, strings.NewReader(want))
	require.NoError(t, err)
}

func TestRecorder_IsolatedRegistries(t *testing.T) {
	t.Parallel()

	// two recorders on separate registries must not collide
	first := metrics.New(prometheus.NewRegistry())
	second := metrics.New(prometheus.NewRegistry())

	first.RecordUnsuccessfulEventPost()
	second.RecordUnsuccessfulEventPost()
}

func TestRecorder_ConcurrentIncrements(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			rec.RecordSidecarShutdown("cloudsql-proxy", "job-7", "batch")
		}()
	}

	wg.Wait()

	count, err := testutil.GatherAndCount(reg, "sidecar_shutdowns")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.InDelta(t, 50, families[0].GetMetric()[0].GetCounter().GetValue(), 0)
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	reg := metrics.NewRegistry()
	metrics.New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
