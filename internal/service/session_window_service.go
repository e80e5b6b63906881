package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psds-microservice/classroom-service/internal/errs"
	"github.com/psds-microservice/classroom-service/internal/model"
	"github.com/psds-microservice/classroom-service/internal/store"
	"go.uber.org/zap"
)

// SessionWindowServicer — интерфейс для handler.
type SessionWindowServicer interface {
	Get(ctx context.Context, room string) (model.SessionWindow, bool)
	Apply(ctx context.Context, room string, cmd model.SessionWindowCommand) (model.SessionWindow, error)
}

// SessionWindowService stores when a room's class ends.
// A room that was never written and a room that was cleared are kept apart:
// Get reports found=false for the first and a nil EndTs for the second.
type SessionWindowService struct {
	store store.RecordStore
	hub   Broadcaster
	retry RetryPolicy
	log   *zap.Logger
	now   func() time.Time
}

// NewSessionWindowService creates a session window service.
func NewSessionWindowService(st store.RecordStore, hub Broadcaster, retry RetryPolicy, log *zap.Logger) *SessionWindowService {
	return &SessionWindowService{store: st, hub: hub, retry: retry, log: log, now: time.Now}
}

// Get returns the room's window and whether a record exists.
func (s *SessionWindowService) Get(ctx context.Context, room string) (model.SessionWindow, bool) {
	var w model.SessionWindow
	found, err := loadRecord(ctx, s.store, s.retry, store.KindSessionWindow, room, func(data []byte) error {
		var decoded model.SessionWindow
		if err := json.Unmarshal(data, &decoded); err != nil {
			return err
		}
		w = decoded
		return nil
	})
	if err != nil {
		s.log.Warn("session window read failed", zap.String("uuid", room), zap.Error(err))
		return model.SessionWindow{}, false
	}
	return w, found
}

// Apply runs a validated command.
func (s *SessionWindowService) Apply(ctx context.Context, room string, cmd model.SessionWindowCommand) (model.SessionWindow, error) {
	switch c := cmd.(type) {
	case model.SetEnd:
		return s.SetEnd(ctx, room, c.EndTs), nil
	case model.ClearWindow:
		return s.Clear(ctx, room), nil
	default:
		return model.SessionWindow{}, fmt.Errorf("%w: %T", errs.ErrInvalidAction, cmd)
	}
}

// SetEnd overwrites the room's end timestamp.
func (s *SessionWindowService) SetEnd(ctx context.Context, room string, endTs int64) model.SessionWindow {
	w := model.SessionWindow{EndTs: &endTs}
	s.save(ctx, room, w)
	return w
}

// Clear stores an explicit null end and tells the room the class is over.
func (s *SessionWindowService) Clear(ctx context.Context, room string) model.SessionWindow {
	w := model.SessionWindow{}
	s.save(ctx, room, w)
	s.hub.Publish(room, model.StreamEvent{
		Type:      model.EventClassEnded,
		UUID:      room,
		Timestamp: s.now().UnixMilli(),
	})
	return w
}

func (s *SessionWindowService) save(ctx context.Context, room string, w model.SessionWindow) {
	payload, err := json.Marshal(w)
	if err == nil {
		err = s.store.Save(ctx, store.KindSessionWindow, room, payload)
	}
	if err != nil {
		s.log.Error("session window write failed", zap.String("uuid", room), zap.Error(err))
	}
}
