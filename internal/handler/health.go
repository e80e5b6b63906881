package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/classroom-service/internal/service"
)

// HealthHandler handles health and ready checks.
type HealthHandler struct {
	hub *service.BroadcastHub
}

// NewHealthHandler creates a health handler reporting live stream rooms from hub.
func NewHealthHandler(hub *service.BroadcastHub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

// Health responds to GET /health with the number of rooms that have an open stream.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"service":      "classroom-service",
		"stream_rooms": h.hub.RoomCount(),
		"time":         time.Now().Unix(),
	})
}

// Ready responds to GET /ready (k8s readiness probe).
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
