package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apppurchase "github.com/ims/backend/internal/application/purchase"
	"github.com/ims/backend/internal/domain/shared"
)

// runKeyPrefix namespaces idempotency keys of the daily replenishment run
const runKeyPrefix = "replenishment:run:"

// runKeyDayFormat keys runs per calendar day
const runKeyDayFormat = "2006-01-02"

// OrderGenerator is the replenishment operation the scheduler triggers
type OrderGenerator interface {
	GenerateAutomaticOrders(ctx context.Context) ([]apppurchase.OrderResponse, error)
}

// ReplenishmentSchedulerConfig holds configuration for the daily
// replenishment scheduler
type ReplenishmentSchedulerConfig struct {
	// Enabled indicates if the scheduler loop should run
	Enabled bool
	// CheckInterval is how often the loop checks whether the run is due
	CheckInterval time.Duration
	// RunHour is the hour (0-23) at which the daily run becomes due
	RunHour int
	// LockTTL is how long a claimed run key stays held. It must exceed one
	// day minus the check interval, or a run could fire twice.
	LockTTL time.Duration
}

// DefaultReplenishmentSchedulerConfig returns defaults running at 2 AM daily
func DefaultReplenishmentSchedulerConfig() ReplenishmentSchedulerConfig {
	return ReplenishmentSchedulerConfig{
		Enabled:       true,
		CheckInterval: 15 * time.Minute,
		RunHour:       2,
		LockTTL:       36 * time.Hour,
	}
}

// ReplenishmentScheduler triggers the automatic order generation once per
// day. The idempotency store arbitrates between instances so only one of
// them executes the run.
type ReplenishmentScheduler struct {
	config    ReplenishmentSchedulerConfig
	generator OrderGenerator
	store     shared.IdempotencyStore
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewReplenishmentScheduler creates a new scheduler
func NewReplenishmentScheduler(
	config ReplenishmentSchedulerConfig,
	generator OrderGenerator,
	store shared.IdempotencyStore,
	logger *zap.Logger,
) *ReplenishmentScheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 15 * time.Minute
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 36 * time.Hour
	}
	return &ReplenishmentScheduler{
		config:    config,
		generator: generator,
		store:     store,
		logger:    logger,
	}
}

// Start starts the scheduler loop
func (s *ReplenishmentScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Replenishment scheduler started",
		zap.Int("run_hour", s.config.RunHour),
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the scheduler loop
func (s *ReplenishmentScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Replenishment scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Replenishment scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReplenishmentScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.config.Enabled && s.shouldRun(now) {
				s.runOnce(ctx, now)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun reports whether the daily run is due at the given time. The
// idempotency claim in runOnce keeps repeated due ticks from executing twice.
func (s *ReplenishmentScheduler) shouldRun(now time.Time) bool {
	return now.Hour() >= s.config.RunHour
}

// runOnce claims the run key for the day and executes the generation when
// the claim succeeds. Another instance holding the key is not an error.
func (s *ReplenishmentScheduler) runOnce(ctx context.Context, now time.Time) {
	key := runKeyPrefix + now.Format(runKeyDayFormat)

	claimed, err := s.store.MarkProcessed(ctx, key, s.config.LockTTL)
	if err != nil {
		s.logger.Error("Failed to claim replenishment run", zap.String("key", key), zap.Error(err))
		return
	}
	if !claimed {
		return
	}

	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	s.logger.Info("Starting replenishment run", zap.String("key", key))

	orders, err := s.generator.GenerateAutomaticOrders(ctx)
	if err != nil {
		s.logger.Error("Replenishment run failed", zap.String("key", key), zap.Error(err))
		return
	}

	s.logger.Info("Replenishment run completed",
		zap.String("key", key),
		zap.Int("orders_created", len(orders)),
	)
}

func (s *ReplenishmentScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.RunHour, 0, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// TriggerManualRun executes the generation immediately, bypassing the daily
// guard. Uses a background context so an HTTP caller disconnecting does not
// cancel the run.
func (s *ReplenishmentScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go func() {
		orders, err := s.generator.GenerateAutomaticOrders(context.Background())
		if err != nil {
			s.logger.Error("Manual replenishment run failed", zap.Error(err))
			return
		}
		s.logger.Info("Manual replenishment run completed", zap.Int("orders_created", len(orders)))
	}()
	return nil
}

// GetStatus returns the current scheduler state
func (s *ReplenishmentScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":        s.config.Enabled,
		"is_running":     s.isRunning,
		"run_hour":       s.config.RunHour,
		"check_interval": s.config.CheckInterval.String(),
		"last_run_at":    s.lastRunAt,
		"next_run_at":    s.nextRunAt,
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *ReplenishmentScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *ReplenishmentScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
