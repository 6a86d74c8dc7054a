package contact

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(fc *clockwork.FakeClock, ttl time.Duration) *Registry {
	return NewRegistry(fc, ttl, func() *Controller {
		return NewController(WithClock(fc))
	}, zerolog.Nop())
}

func TestRegistryCreateLookup(t *testing.T) {
	fc := clockwork.NewFakeClock()
	r := newTestRegistry(fc, time.Minute)
	defer r.Close()

	id, ctrl := r.Create()
	require.NotEmpty(t, id)

	got, ok := r.Lookup(id)
	require.True(t, ok)
	require.Same(t, ctrl, got)

	_, ok = r.Lookup("missing")
	require.False(t, ok)
	require.Equal(t, 1, r.Len())
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	fc := clockwork.NewFakeClock()
	r := newTestRegistry(fc, time.Minute)
	defer r.Close()

	staleID, stale := r.Create()
	freshID, _ := r.Create()

	fc.Advance(45 * time.Second)
	_, ok := r.Lookup(freshID)
	require.True(t, ok)

	fc.Advance(30 * time.Second)
	require.Equal(t, 1, r.Sweep())

	_, ok = r.Lookup(staleID)
	require.False(t, ok)
	_, ok = r.Lookup(freshID)
	require.True(t, ok)
	require.ErrorIs(t, stale.Submit(), ErrClosed)
}

func TestRegistryRemoveClosesController(t *testing.T) {
	r := newTestRegistry(clockwork.NewFakeClock(), time.Minute)
	id, ctrl := r.Create()

	r.Remove(id)

	require.Zero(t, r.Len())
	require.ErrorIs(t, ctrl.Submit(), ErrClosed)
}

func TestRegistryRunClosesOnShutdown(t *testing.T) {
	fc := clockwork.NewFakeClock()
	r := newTestRegistry(fc, time.Minute)
	_, ctrl := r.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	blockUntil(t, fc, 1)
	fc.Advance(2 * time.Minute)
	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)

	_, ctrl2 := r.Create()
	cancel()
	require.NoError(t, <-done)
	require.ErrorIs(t, ctrl.Submit(), ErrClosed)
	require.ErrorIs(t, ctrl2.Submit(), ErrClosed)
}

func TestSimulatedGatewayHonoursContext(t *testing.T) {
	gw := NewSimulatedGateway(clockwork.NewFakeClock(), DefaultSubmitDelay)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, gw.Send(ctx, validFields), context.Canceled)
}

func TestLoggingGatewayNeverLogsContent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	gw := NewLoggingGateway(GatewayFunc(func(context.Context, Fields) error {
		return errors.New("relay down")
	}), logger)

	err := gw.Send(context.Background(), validFields)
	require.EqualError(t, err, "relay down")

	out := buf.String()
	require.Contains(t, out, `"component":"contact_gateway"`)
	require.Contains(t, out, "contact submission failed")
	require.NotContains(t, out, validFields.Email)
	require.NotContains(t, out, validFields.Message)
}
