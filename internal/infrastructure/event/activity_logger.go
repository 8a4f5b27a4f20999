package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/ims/backend/internal/domain/shared"
)

// ActivityLogger is a wildcard event handler that writes an audit trail
// of all domain events to the application log.
type ActivityLogger struct {
	logger *zap.Logger
}

// NewActivityLogger creates a new activity logger
func NewActivityLogger(logger *zap.Logger) *ActivityLogger {
	return &ActivityLogger{logger: logger.Named("activity")}
}

// Handle implements shared.EventHandler
func (h *ActivityLogger) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *ActivityLogger) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*ActivityLogger)(nil)
