package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/psds-microservice/classroom-service/internal/errs"
)

type loadResult struct {
	data []byte
	err  error
}

// fakeStore is an in-memory RecordStore; scripted loads are served before the stored data.
type fakeStore struct {
	mu       sync.Mutex
	records  map[string][]byte
	scripted []loadResult
	loads    int
	saves    int
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]byte)}
}

func (f *fakeStore) Load(ctx context.Context, kind, room string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if len(f.scripted) > 0 {
		r := f.scripted[0]
		f.scripted = f.scripted[1:]
		return r.data, r.err
	}
	data, ok := f.records[kind+"/"+room]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) Save(ctx context.Context, kind, room string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[kind+"/"+room] = append([]byte(nil), payload...)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

type published struct {
	room    string
	payload any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []published
}

func (r *recordingBroadcaster) Publish(room string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{room: room, payload: payload})
}

func (r *recordingBroadcaster) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

var errBusy = errors.New("resource busy")

var fastRetry = RetryPolicy{Attempts: 5, Delay: time.Millisecond}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000000)
}
