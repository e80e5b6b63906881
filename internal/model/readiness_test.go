package model

import (
	"errors"
	"testing"

	"github.com/psds-microservice/classroom-service/internal/errs"
)

func boolPtr(b bool) *bool { return &b }

func TestReadinessRequestCommand(t *testing.T) {
	tests := []struct {
		name    string
		req     ReadinessRequest
		wantCmd ReadinessCommand
		wantErr error
	}{
		{
			name:    "ready",
			req:     ReadinessRequest{UUID: "r1", Role: RoleStudent, UserID: "u1", Action: ActionReady, Present: boolPtr(true)},
			wantCmd: MarkReady{Role: RoleStudent, UserID: "u1", Present: true},
		},
		{
			name:    "ready without present",
			req:     ReadinessRequest{UUID: "r1", Role: RoleTeacher, UserID: "t1", Action: ActionReady},
			wantCmd: MarkReady{Role: RoleTeacher, UserID: "t1", Present: false},
		},
		{
			name:    "unready",
			req:     ReadinessRequest{UUID: "r1", Role: RoleStudent, UserID: "u1", Action: ActionUnready},
			wantCmd: MarkUnready{Role: RoleStudent, UserID: "u1"},
		},
		{
			name:    "clear-all needs no participant",
			req:     ReadinessRequest{UUID: "r1", Action: ActionClearAll},
			wantCmd: ClearAll{},
		},
		{
			name:    "missing uuid",
			req:     ReadinessRequest{Role: RoleStudent, UserID: "u1", Action: ActionReady},
			wantErr: errs.ErrRoomRequired,
		},
		{
			name:    "missing role",
			req:     ReadinessRequest{UUID: "r1", UserID: "u1", Action: ActionReady},
			wantErr: errs.ErrRoleRequired,
		},
		{
			name:    "unknown role",
			req:     ReadinessRequest{UUID: "r1", Role: "parent", UserID: "u1", Action: ActionReady},
			wantErr: errs.ErrInvalidRole,
		},
		{
			name:    "missing user",
			req:     ReadinessRequest{UUID: "r1", Role: RoleStudent, Action: ActionUnready},
			wantErr: errs.ErrUserRequired,
		},
		{
			name:    "missing action",
			req:     ReadinessRequest{UUID: "r1", Role: RoleStudent, UserID: "u1"},
			wantErr: errs.ErrInvalidAction,
		},
		{
			name:    "unknown action",
			req:     ReadinessRequest{UUID: "r1", Role: RoleStudent, UserID: "u1", Action: "READY"},
			wantErr: errs.ErrInvalidAction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, cmd, err := tt.req.Command()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if room != "r1" {
				t.Fatalf("expected room r1, got %q", room)
			}
			if cmd != tt.wantCmd {
				t.Fatalf("expected %#v, got %#v", tt.wantCmd, cmd)
			}
		})
	}
}

func TestSessionWindowRequestCommand(t *testing.T) {
	end := int64(1700000000000)

	room, cmd, err := SessionWindowRequest{UUID: " r1 ", EndTs: &end}.Command()
	if err != nil || room != "r1" || cmd != (SetEnd{EndTs: end}) {
		t.Fatalf("unexpected set result %q %#v %v", room, cmd, err)
	}
	if _, cmd, err = (SessionWindowRequest{UUID: "r1", Action: ActionClear}).Command(); err != nil || cmd != (ClearWindow{}) {
		t.Fatalf("unexpected clear result %#v %v", cmd, err)
	}
	if _, _, err = (SessionWindowRequest{EndTs: &end}).Command(); !errors.Is(err, errs.ErrRoomRequired) {
		t.Fatalf("expected ErrRoomRequired, got %v", err)
	}
	if _, _, err = (SessionWindowRequest{UUID: "r1"}).Command(); !errors.Is(err, errs.ErrEndTsRequired) {
		t.Fatalf("expected ErrEndTsRequired, got %v", err)
	}
	if _, _, err = (SessionWindowRequest{UUID: "r1", Action: "reset", EndTs: &end}).Command(); !errors.Is(err, errs.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}
