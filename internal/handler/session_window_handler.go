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

// SessionWindowHandler handles the class end-time API.
type SessionWindowHandler struct {
	svc service.SessionWindowServicer
}

// NewSessionWindowHandler creates a session window handler.
func NewSessionWindowHandler(svc service.SessionWindowServicer) *SessionWindowHandler {
	return &SessionWindowHandler{svc: svc}
}

// GetSessionWindow godoc
// GET /api/classroom/session?uuid=
// A room that was never written answers {} while a cleared room answers {"endTs": null}.
func (h *SessionWindowHandler) GetSessionWindow(c *gin.Context) {
	room := strings.TrimSpace(c.Query("uuid"))
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrRoomRequired.Error()})
		return
	}
	w, found := h.svc.Get(c.Request.Context(), room)
	if !found {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, w)
}

// PostSessionWindow godoc
// POST /api/classroom/session
func (h *SessionWindowHandler) PostSessionWindow(c *gin.Context) {
	var req model.SessionWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	room, cmd, err := req.Command()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.svc.Apply(c.Request.Context(), room, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrInvalidAction.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update session"})
		return
	}
	c.JSON(http.StatusOK, w)
}
