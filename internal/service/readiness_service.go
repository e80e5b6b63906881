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

// ReadinessServicer — интерфейс для handler (D: зависимость от абстракции).
type ReadinessServicer interface {
	List(ctx context.Context, room string) []model.ParticipantReadiness
	Apply(ctx context.Context, room string, cmd model.ReadinessCommand) ([]model.ParticipantReadiness, error)
}

// ReadinessService keeps the per-room list of participants that are ready to enter class.
// Writes are read-modify-write without a lock; the last writer wins.
type ReadinessService struct {
	store store.RecordStore
	hub   Broadcaster
	retry RetryPolicy
	log   *zap.Logger
	now   func() time.Time
}

// NewReadinessService creates a readiness service.
func NewReadinessService(st store.RecordStore, hub Broadcaster, retry RetryPolicy, log *zap.Logger) *ReadinessService {
	return &ReadinessService{store: st, hub: hub, retry: retry, log: log, now: time.Now}
}

// List returns the room's participants; an unknown room is an empty list.
func (s *ReadinessService) List(ctx context.Context, room string) []model.ParticipantReadiness {
	var list []model.ParticipantReadiness
	_, err := loadRecord(ctx, s.store, s.retry, store.KindReadiness, room, func(data []byte) error {
		var decoded []model.ParticipantReadiness
		if err := json.Unmarshal(data, &decoded); err != nil {
			return err
		}
		list = decoded
		return nil
	})
	if err != nil {
		s.log.Warn("readiness read failed, treating room as empty", zap.String("uuid", room), zap.Error(err))
		return []model.ParticipantReadiness{}
	}
	if list == nil {
		list = []model.ParticipantReadiness{}
	}
	return list
}

// Apply runs a validated command.
func (s *ReadinessService) Apply(ctx context.Context, room string, cmd model.ReadinessCommand) ([]model.ParticipantReadiness, error) {
	switch c := cmd.(type) {
	case model.MarkReady:
		return s.MarkReady(ctx, room, c.Role, c.UserID, c.Present), nil
	case model.MarkUnready:
		return s.MarkUnready(ctx, room, c.Role, c.UserID), nil
	case model.ClearAll:
		return s.ClearAll(ctx, room), nil
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrInvalidAction, cmd)
	}
}

// MarkReady replaces any entry for (role, userID) with a new one at the end of the list.
func (s *ReadinessService) MarkReady(ctx context.Context, room string, role model.Role, userID string, present bool) []model.ParticipantReadiness {
	list := without(s.List(ctx, room), role, userID)
	list = append(list, model.ParticipantReadiness{Role: role, UserID: userID, Present: present})
	s.commit(ctx, room, list)
	return list
}

// MarkUnready removes the entry for (role, userID).
func (s *ReadinessService) MarkUnready(ctx context.Context, room string, role model.Role, userID string) []model.ParticipantReadiness {
	list := without(s.List(ctx, room), role, userID)
	s.commit(ctx, room, list)
	return list
}

// ClearAll empties the room.
func (s *ReadinessService) ClearAll(ctx context.Context, room string) []model.ParticipantReadiness {
	list := []model.ParticipantReadiness{}
	s.commit(ctx, room, list)
	return list
}

// commit persists the list, then notifies the room. A failed write is logged only.
func (s *ReadinessService) commit(ctx context.Context, room string, list []model.ParticipantReadiness) {
	payload, err := json.Marshal(list)
	if err == nil {
		err = s.store.Save(ctx, store.KindReadiness, room, payload)
	}
	if err != nil {
		s.log.Error("readiness write failed", zap.String("uuid", room), zap.Error(err))
	}
	s.hub.Publish(room, model.ReadinessEvent{
		Type:         model.EventReadinessUpdate,
		UUID:         room,
		Participants: list,
		Timestamp:    s.now().UnixMilli(),
	})
}

func without(list []model.ParticipantReadiness, role model.Role, userID string) []model.ParticipantReadiness {
	out := make([]model.ParticipantReadiness, 0, len(list)+1)
	for _, p := range list {
		if !p.Matches(role, userID) {
			out = append(out, p)
		}
	}
	return out
}
