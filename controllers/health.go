package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// GET /
func (ctl *Controller) Root(c *gin.Context) {
	c.String(http.StatusOK, "✅ Server is running!")
}

// Ready reports whether MongoDB answers a ping.
// GET /health/ready
func (ctl *Controller) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := ctl.stores.DB.Ping(ctx); err != nil {
		ctl.logger.Warn("Readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
