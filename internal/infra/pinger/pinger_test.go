package pinger_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/sidecar-reaper/internal/infra/pinger"
)

type stubPinger struct {
	name           string
	fail           atomic.Bool
	delay          time.Duration
	calls          atomic.Int32
	readyCritical  *bool
	healthCritical *bool
	timeout        time.Duration
}

func (p *stubPinger) Name() string { return p.name }

func (p *stubPinger) Ping(ctx context.Context) error {
	p.calls.Add(1)

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if p.fail.Load() {
		return errors.New("component down")
	}

	return nil
}

// criticalPinger exposes the optional criticality methods.
type criticalPinger struct {
	*stubPinger
}

func (p criticalPinger) PingerReadyCritical() bool { return *p.readyCritical }
func (p criticalPinger) PingerCritical() bool      { return *p.healthCritical }

type slowPinger struct {
	*stubPinger
}

func (p slowPinger) PingerTimeout() time.Duration { return p.timeout }

func ptr[T any](v T) *T { return &v }

func startService(t *testing.T, svc *pinger.Service) {
	t.Helper()

	require.NoError(t, svc.Start(t.Context()))

	select {
	case <-svc.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("pinger service did not become ready")
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_ = svc.Shutdown(ctx)
	})
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	svc := pinger.New(slog.Default(), time.Second, prometheus.NewRegistry())

	require.NoError(t, svc.Register(&stubPinger{name: "controller"}))
	require.ErrorIs(t, svc.Register(&stubPinger{name: "controller"}), pinger.ErrPingerAlreadyRegistered)
	require.ErrorIs(t, svc.Register(nil), pinger.ErrNilPinger)

	status, err := svc.GetStatus("controller")
	require.NoError(t, err)
	require.True(t, status.ReadyCritical)
	require.True(t, status.HealthCritical)
	require.False(t, status.Up())
	require.False(t, status.IsReady())

	_, err = svc.GetStatus("unknown")
	require.ErrorIs(t, err, pinger.ErrPingerNotFound)
}

func TestService_FirstRoundBeforeReady(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	svc := pinger.New(slog.Default(), time.Hour, reg)
	ok := &stubPinger{name: "http-server"}
	down := &stubPinger{name: "controller"}
	down.fail.Store(true)

	require.NoError(t, svc.Register(ok))
	require.NoError(t, svc.Register(down))

	startService(t, svc)

	statuses := svc.GetAllStatuses()
	require.Len(t, statuses, 2)
	require.Equal(t, "controller", statuses[0].Name)
	require.Equal(t, "http-server", statuses[1].Name)

	require.False(t, statuses[0].Up())
	require.Equal(t, "component down", statuses[0].LastError)
	require.Equal(t, uint64(1), statuses[0].Failures)

	require.True(t, statuses[1].Up())
	require.Equal(t, uint64(1), statuses[1].Successes)

	want := `
# HELP sidecar_reaper_component_up Whether the last health check of a component passed
# TYPE sidecar_reaper_component_up gauge
sidecar_reaper_component_up{component="controller"} 0
sidecar_reaper_component_up{component="http-server"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "sidecar_reaper_component_up"))

	count, err := testutil.GatherAndCount(reg, "sidecar_reaper_component_ping_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestService_Recovers(t *testing.T) {
	t.Parallel()

	svc := pinger.New(slog.Default(), 20*time.Millisecond, prometheus.NewRegistry())
	p := &stubPinger{name: "controller"}
	p.fail.Store(true)

	require.NoError(t, svc.Register(p))
	startService(t, svc)

	status, err := svc.GetStatus("controller")
	require.NoError(t, err)
	require.False(t, status.IsHealthy())

	p.fail.Store(false)

	require.Eventually(t, func() bool {
		s, getErr := svc.GetStatus("controller")

		return getErr == nil && s.IsHealthy() && s.IsReady()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStatus_Criticality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		readyCritical  bool
		healthCritical bool
		fail           bool
		wantReady      bool
		wantHealthy    bool
	}{
		{name: "critical ok", readyCritical: true, healthCritical: true, wantReady: true, wantHealthy: true},
		{name: "critical failing", readyCritical: true, healthCritical: true, fail: true},
		{name: "non-critical failing", fail: true, wantReady: true, wantHealthy: true},
		{name: "ready critical failing", readyCritical: true, fail: true, wantHealthy: true},
		{name: "health critical failing", healthCritical: true, fail: true, wantReady: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := pinger.New(slog.Default(), time.Hour, prometheus.NewRegistry())
			p := criticalPinger{stubPinger: &stubPinger{
				name:           "component",
				readyCritical:  ptr(tt.readyCritical),
				healthCritical: ptr(tt.healthCritical),
			}}
			p.fail.Store(tt.fail)

			require.NoError(t, svc.Register(p))
			startService(t, svc)

			status, err := svc.GetStatus("component")
			require.NoError(t, err)
			require.Equal(t, tt.wantReady, status.IsReady())
			require.Equal(t, tt.wantHealthy, status.IsHealthy())
		})
	}
}

func TestService_PingerTimeout(t *testing.T) {
	t.Parallel()

	svc := pinger.New(slog.Default(), time.Hour, prometheus.NewRegistry())
	p := slowPinger{stubPinger: &stubPinger{
		name:    "slow",
		delay:   time.Second,
		timeout: 20 * time.Millisecond,
	}}

	require.NoError(t, svc.Register(p))
	startService(t, svc)

	status, err := svc.GetStatus("slow")
	require.NoError(t, err)
	require.Contains(t, status.LastError, context.DeadlineExceeded.Error())
}

func TestService_Shutdown(t *testing.T) {
	t.Parallel()

	svc := pinger.New(slog.Default(), 10*time.Millisecond, prometheus.NewRegistry())
	p := &stubPinger{name: "controller"}
	require.NoError(t, svc.Register(p))
	require.Equal(t, "pinger-service", svc.Name())

	require.NoError(t, svc.Start(t.Context()))
	<-svc.Ready()

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	require.NoError(t, svc.Shutdown(ctx))

	calls := p.calls.Load()

	require.Never(t, func() bool {
		return p.calls.Load() > calls
	}, 50*time.Millisecond, 10*time.Millisecond)

	// second shutdown and a late start are no-ops
	require.NoError(t, svc.Shutdown(ctx))
	require.NoError(t, svc.Start(t.Context()))
}
