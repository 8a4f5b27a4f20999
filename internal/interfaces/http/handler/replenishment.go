package handler

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ReplenishmentTrigger is the scheduler surface the handler exposes
type ReplenishmentTrigger interface {
	TriggerManualRun(ctx context.Context) error
	GetStatus() map[string]any
}

// ReplenishmentHandler exposes the replenishment scheduler over HTTP
type ReplenishmentHandler struct {
	BaseHandler
	trigger ReplenishmentTrigger
}

// NewReplenishmentHandler creates a new ReplenishmentHandler
func NewReplenishmentHandler(trigger ReplenishmentTrigger) *ReplenishmentHandler {
	return &ReplenishmentHandler{
		trigger: trigger,
	}
}

// RegisterRoutes registers replenishment routes on the given group
func (h *ReplenishmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	replenishment := rg.Group("/purchase/replenishment")
	{
		replenishment.POST("/run", h.TriggerRun)
		replenishment.GET("/status", h.Status)
	}
}

// TriggerRun starts a replenishment run immediately. The run executes in the
// background; created orders appear as DRAFT purchase orders.
func (h *ReplenishmentHandler) TriggerRun(c *gin.Context) {
	if err := h.trigger.TriggerManualRun(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"triggered": true})
}

// Status returns the scheduler state
func (h *ReplenishmentHandler) Status(c *gin.Context) {
	h.Success(c, h.trigger.GetStatus())
}
