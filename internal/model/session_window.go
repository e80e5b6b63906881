package model

import (
	"strings"

	"github.com/psds-microservice/classroom-service/internal/errs"
)

// SessionWindow marks when a classroom session ends. EndTs is epoch millis; nil after an explicit clear.
type SessionWindow struct {
	EndTs *int64 `json:"endTs"`
}

// SessionWindowAction is the action field of POST /api/classroom/session.
type SessionWindowAction string

const ActionClear SessionWindowAction = "clear"

// SessionWindowRequest is the request body for POST /api/classroom/session.
type SessionWindowRequest struct {
	UUID   string              `json:"uuid"`
	EndTs  *int64              `json:"endTs,omitempty"`
	Action SessionWindowAction `json:"action,omitempty"`
}

// SessionWindowCommand is SetEnd or ClearWindow.
type SessionWindowCommand interface {
	sessionWindowCommand()
}

// SetEnd overwrites the room's end timestamp.
type SetEnd struct {
	EndTs int64
}

// ClearWindow clears the end timestamp and ends the class.
type ClearWindow struct{}

func (SetEnd) sessionWindowCommand()      {}
func (ClearWindow) sessionWindowCommand() {}

// Command validates the request and returns the room and the command it carries.
func (r SessionWindowRequest) Command() (string, SessionWindowCommand, error) {
	room := strings.TrimSpace(r.UUID)
	if room == "" {
		return "", nil, errs.ErrRoomRequired
	}
	switch r.Action {
	case ActionClear:
		return room, ClearWindow{}, nil
	case "":
	default:
		return "", nil, errs.ErrInvalidAction
	}
	if r.EndTs == nil {
		return "", nil, errs.ErrEndTsRequired
	}
	return room, SetEnd{EndTs: *r.EndTs}, nil
}
