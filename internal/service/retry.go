package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psds-microservice/classroom-service/internal/errs"
	"github.com/psds-microservice/classroom-service/internal/store"
)

// RetryPolicy bounds record reads: attempt n waits Delay*n before attempt n+1.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy is 5 attempts with 20ms linear backoff.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: 20 * time.Millisecond}

// loadRecord reads and decodes a record. A missing record returns found=false at once;
// read and decode failures are retried since a concurrent writer may be mid-write.
func loadRecord(ctx context.Context, st store.RecordStore, policy RetryPolicy, kind, room string, decode func([]byte) error) (bool, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := st.Load(ctx, kind, room)
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		if err == nil {
			if err = decode(data); err == nil {
				return true, nil
			}
			err = fmt.Errorf("decode %s record: %w", kind, err)
		}
		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(policy.Delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
	return false, fmt.Errorf("load %s record after %d attempts: %w", kind, attempts, lastErr)
}
