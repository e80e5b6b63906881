package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/psds-microservice/classroom-service/internal/errs"
	"github.com/psds-microservice/classroom-service/internal/model"
	"github.com/psds-microservice/classroom-service/internal/service"
	"go.uber.org/zap"
)

// StreamConfig tunes long-lived room streams.
type StreamConfig struct {
	PingInterval    time.Duration // keep-alive ping period
	FallbackTimeout time.Duration // lifetime cap when the request carries no cancellation
	BufferSize      int           // per-subscriber queue; overflow is dropped
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string // WebSocket origins; empty or "*" allows all
}

// StreamHandler pushes room events over SSE (/api/classroom/stream) and WebSocket (/ws/classroom).
type StreamHandler struct {
	hub      *service.BroadcastHub
	cfg      StreamConfig
	upgrader websocket.Upgrader
	logger   *zap.Logger
	now      func() time.Time
}

// NewStreamHandler creates the stream handler.
func NewStreamHandler(hub *service.BroadcastHub, cfg StreamConfig, logger *zap.Logger) *StreamHandler {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.FallbackTimeout <= 0 {
		cfg.FallbackTimeout = 5 * time.Minute
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}
	h := &StreamHandler{hub: hub, cfg: cfg, logger: logger, now: time.Now}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// streamConn is one subscriber's queue of encoded events.
type streamConn struct {
	id     string
	room   string
	events chan []byte
	cancel func()
}

// open subscribes to room. The queue is never closed: a publish racing with
// unsubscribe may still land in it after the stream is gone.
func (h *StreamHandler) open(room string) *streamConn {
	sc := &streamConn{
		id:     uuid.NewString(),
		room:   room,
		events: make(chan []byte, h.cfg.BufferSize),
	}
	sc.cancel = h.hub.Subscribe(room, func(payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			h.logger.Warn("stream event not encodable", zap.String("uuid", room), zap.Error(err))
			return
		}
		select {
		case sc.events <- data:
		default:
			h.logger.Warn("stream send buffer full", zap.String("uuid", room), zap.String("conn_id", sc.id))
		}
	})
	h.logger.Info("stream opened", zap.String("uuid", room), zap.String("conn_id", sc.id))
	return sc
}

func (h *StreamHandler) close(sc *streamConn, reason string) {
	sc.cancel()
	h.logger.Info("stream closed",
		zap.String("uuid", sc.room),
		zap.String("conn_id", sc.id),
		zap.String("reason", reason))
}

func (h *StreamHandler) event(t model.EventType, room string) []byte {
	data, _ := json.Marshal(model.StreamEvent{Type: t, UUID: room, Timestamp: h.now().UnixMilli()})
	return data
}

func (h *StreamHandler) ping() []byte {
	data, _ := json.Marshal(model.StreamEvent{Type: model.EventPing, Timestamp: h.now().UnixMilli()})
	return data
}

// pump writes the connected event, then queued events and pings, until the client goes away.
func (h *StreamHandler) pump(ctx context.Context, gone <-chan struct{}, sc *streamConn, write func([]byte) error) string {
	if err := write(h.event(model.EventConnected, sc.room)); err != nil {
		return "write failed"
	}

	var fallback <-chan time.Time
	if ctx.Done() == nil {
		t := time.NewTimer(h.cfg.FallbackTimeout)
		defer t.Stop()
		fallback = t.C
	}
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "client disconnected"
		case <-gone:
			return "client disconnected"
		case <-fallback:
			return "fallback timeout"
		case <-ticker.C:
			if err := write(h.ping()); err != nil {
				return "ping failed"
			}
		case data := <-sc.events:
			if err := write(data); err != nil {
				return "write failed"
			}
		}
	}
}

// ServeSSE godoc
// GET /api/classroom/stream?uuid=
func (h *StreamHandler) ServeSSE(c *gin.Context) {
	room := strings.TrimSpace(c.Query("uuid"))
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrRoomRequired.Error()})
		return
	}

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	sc := h.open(room)
	reason := h.pump(c.Request.Context(), nil, sc, func(data []byte) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		w.Flush()
		return nil
	})
	h.close(sc, reason)
}

// ServeWS godoc
// GET /ws/classroom?uuid=
// Same messages as ServeSSE, one JSON text frame each. Client frames are ignored.
func (h *StreamHandler) ServeWS(c *gin.Context) {
	room := strings.TrimSpace(c.Query("uuid"))
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.ErrRoomRequired.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("read error", zap.Error(err))
				}
				return
			}
		}
	}()

	sc := h.open(room)
	reason := h.pump(c.Request.Context(), gone, sc, func(data []byte) error {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteMessage(websocket.TextMessage, data)
	})
	h.close(sc, reason)
}

func (h *StreamHandler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
