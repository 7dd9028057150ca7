package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kilimo_api/internal/service"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	market *service.MarketService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(market *service.MarketService) *HealthHandler {
	return &HealthHandler{market: market}
}

// GetHealth responds with service and data source status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status, sourceStatus := "healthy", "connected"
	if err := h.market.Ping(ctx); err != nil {
		status, sourceStatus = "degraded", "disconnected"
	}

	utils.Success(c, 200, "Service is "+status, gin.H{
		"status":  status,
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"time":    utils.NowISO(),
		"dataSource": gin.H{
			"name":   h.market.Provider().Name(),
			"status": sourceStatus,
		},
	})
}
