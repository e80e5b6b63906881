// Package store persists per-room JSON records for the classroom services.
package store

import (
	"context"
	"fmt"
)

// Record kinds. Each kind is its own namespace of room ids.
const (
	KindReadiness     = "readiness"
	KindSessionWindow = "session-window"
	KindPayment       = "ecpay-payment"
)

// Kinds lists every record kind a backend must accept.
var Kinds = []string{KindReadiness, KindSessionWindow, KindPayment}

// RecordStore loads and saves one document per (kind, room).
// Load returns errs.ErrNotFound when nothing was saved yet.
// Save replaces the document atomically: concurrent readers see the old or the new payload, never a mix.
type RecordStore interface {
	Load(ctx context.Context, kind, room string) ([]byte, error)
	Save(ctx context.Context, kind, room string, payload []byte) error
	Close() error
}

func checkKind(kind string) error {
	for _, k := range Kinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("unknown record kind %q", kind)
}
