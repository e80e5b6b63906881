package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/classroom-service/internal/errs"
	"github.com/psds-microservice/classroom-service/internal/model"
	"github.com/psds-microservice/classroom-service/internal/service"
)

// ReadinessHandler handles the classroom readiness API.
type ReadinessHandler struct {
	svc service.ReadinessServicer
}

// NewReadinessHandler creates a readiness handler.
func NewReadinessHandler(svc service.ReadinessServicer) *ReadinessHandler {
	return &ReadinessHandler{svc: svc}
}

// GetReadiness godoc
// GET /api/classroom/readiness?uuid=
func (h *ReadinessHandler) GetReadiness(c *gin.Context) {
	room := strings.TrimSpace(c.Query("uuid"))
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrRoomRequired.Error()})
		return
	}
	c.JSON(http.StatusOK, model.ReadinessResponse{Participants: h.svc.List(c.Request.Context(), room)})
}

// PostReadiness godoc
// POST /api/classroom/readiness
func (h *ReadinessHandler) PostReadiness(c *gin.Context) {
	var req model.ReadinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	room, cmd, err := req.Command()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.svc.Apply(c.Request.Context(), room, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrInvalidAction.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update readiness"})
		return
	}
	c.JSON(http.StatusOK, model.ReadinessResponse{Participants: list})
}
