package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apppurchase "github.com/ims/backend/internal/application/purchase"
	"github.com/ims/backend/internal/infrastructure/cache"
)

type stubGenerator struct {
	mu     sync.Mutex
	calls  int
	orders []apppurchase.OrderResponse
	err    error
}

func (g *stubGenerator) GenerateAutomaticOrders(ctx context.Context) ([]apppurchase.OrderResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.orders, g.err
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newTestScheduler(t *testing.T, generator OrderGenerator) (*ReplenishmentScheduler, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	config := DefaultReplenishmentSchedulerConfig()
	return NewReplenishmentScheduler(config, generator, store, zap.NewNop()), store
}

func TestReplenishmentScheduler_RunOnce(t *testing.T) {
	generator := &stubGenerator{}
	scheduler, store := newTestScheduler(t, generator)
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC)

	scheduler.runOnce(ctx, now)
	assert.Equal(t, 1, generator.callCount())

	processed, err := store.IsProcessed(ctx, "replenishment:run:2026-01-15")
	require.NoError(t, err)
	assert.True(t, processed)

	// The day's key is claimed, a second due tick must not execute again.
	scheduler.runOnce(ctx, now.Add(15*time.Minute))
	assert.Equal(t, 1, generator.callCount())

	// A new day gets a fresh key.
	scheduler.runOnce(ctx, now.AddDate(0, 0, 1))
	assert.Equal(t, 2, generator.callCount())
}

func TestReplenishmentScheduler_ShouldRun(t *testing.T) {
	scheduler, _ := newTestScheduler(t, &stubGenerator{})

	before := time.Date(2026, 1, 15, 1, 45, 0, 0, time.UTC)
	assert.False(t, scheduler.shouldRun(before))

	at := time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC)
	assert.True(t, scheduler.shouldRun(at))

	after := time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)
	assert.True(t, scheduler.shouldRun(after))
}

func TestReplenishmentScheduler_StartStop(t *testing.T) {
	scheduler, _ := newTestScheduler(t, &stubGenerator{})
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	require.NotNil(t, scheduler.GetNextRunAt())

	// Starting twice is a no-op.
	require.NoError(t, scheduler.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, scheduler.Stop(stopCtx))
	require.NoError(t, scheduler.Stop(stopCtx))
}

func TestReplenishmentScheduler_TriggerManualRun(t *testing.T) {
	generator := &stubGenerator{}
	scheduler, _ := newTestScheduler(t, generator)
	ctx := context.Background()

	err := scheduler.TriggerManualRun(ctx)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
	assert.Equal(t, 0, generator.callCount())

	require.NoError(t, scheduler.Start(ctx))
	defer func() { _ = scheduler.Stop(context.Background()) }()

	require.NoError(t, scheduler.TriggerManualRun(ctx))

	assert.Eventually(t, func() bool {
		return generator.callCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReplenishmentScheduler_RunOnceGeneratorError(t *testing.T) {
	generator := &stubGenerator{err: assert.AnError}
	scheduler, store := newTestScheduler(t, generator)
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC)

	scheduler.runOnce(ctx, now)
	assert.Equal(t, 1, generator.callCount())

	// The key stays claimed even on failure, the run is not retried until
	// the lock expires.
	processed, err := store.IsProcessed(ctx, "replenishment:run:2026-01-15")
	require.NoError(t, err)
	assert.True(t, processed)
}
