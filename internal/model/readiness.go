package model

import (
	"strings"

	"github.com/psds-microservice/classroom-service/internal/errs"
)

// Role is the classroom role of a participant.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// ParticipantReadiness is one "ready" entry of a room. At most one entry exists per (Role, UserID).
type ParticipantReadiness struct {
	Role    Role   `json:"role"`
	UserID  string `json:"userId"`
	Present bool   `json:"present"`
}

// Matches reports whether the entry belongs to the given participant.
func (p ParticipantReadiness) Matches(role Role, userID string) bool {
	return p.Role == role && p.UserID == userID
}

// ReadinessAction is the action field of POST /api/classroom/readiness.
type ReadinessAction string

const (
	ActionReady    ReadinessAction = "ready"
	ActionUnready  ReadinessAction = "unready"
	ActionClearAll ReadinessAction = "clear-all"
)

// ReadinessRequest is the request body for POST /api/classroom/readiness.
type ReadinessRequest struct {
	UUID    string          `json:"uuid"`
	Role    Role            `json:"role"`
	UserID  string          `json:"userId"`
	Action  ReadinessAction `json:"action"`
	Present *bool           `json:"present,omitempty"`
}

// ReadinessResponse is the response for GET and POST /api/classroom/readiness.
type ReadinessResponse struct {
	Participants []ParticipantReadiness `json:"participants"`
}

// ReadinessCommand is one of MarkReady, MarkUnready or ClearAll.
type ReadinessCommand interface {
	readinessCommand()
}

// MarkReady replaces the participant's entry with a fresh one.
type MarkReady struct {
	Role    Role
	UserID  string
	Present bool
}

// MarkUnready removes the participant's entry.
type MarkUnready struct {
	Role   Role
	UserID string
}

// ClearAll empties the room.
type ClearAll struct{}

func (MarkReady) readinessCommand()   {}
func (MarkUnready) readinessCommand() {}
func (ClearAll) readinessCommand()    {}

// Command validates the request and returns the room and the command it carries.
func (r ReadinessRequest) Command() (string, ReadinessCommand, error) {
	room := strings.TrimSpace(r.UUID)
	if room == "" {
		return "", nil, errs.ErrRoomRequired
	}
	switch r.Action {
	case ActionClearAll:
		return room, ClearAll{}, nil
	case ActionReady, ActionUnready:
	default:
		return "", nil, errs.ErrInvalidAction
	}
	if r.Role == "" {
		return "", nil, errs.ErrRoleRequired
	}
	if !r.Role.Valid() {
		return "", nil, errs.ErrInvalidRole
	}
	if strings.TrimSpace(r.UserID) == "" {
		return "", nil, errs.ErrUserRequired
	}
	if r.Action == ActionUnready {
		return room, MarkUnready{Role: r.Role, UserID: r.UserID}, nil
	}
	present := false
	if r.Present != nil {
		present = *r.Present
	}
	return room, MarkReady{Role: r.Role, UserID: r.UserID, Present: present}, nil
}
