package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health pings the store; a failed ping is a 503.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.logger(c).WithError(err).Warn("store ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mongo": true})
}
