package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/psds-microservice/classroom-service/internal/errs"
	"go.uber.org/zap"
)

// FileStore keeps each record in its own JSON file under dir.
type FileStore struct {
	dir    string
	log    *zap.Logger
	rename func(oldpath, newpath string) error
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, log *zap.Logger) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: filepath.Clean(dir), log: log, rename: os.Rename}, nil
}

// Load reads the record file.
func (s *FileStore) Load(ctx context.Context, kind, room string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(kind, room))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return data, nil
}

// Save writes a uniquely named temp file and renames it over the record.
// When the rename fails (e.g. the target is locked) the record is written in place and the temp file removed.
func (s *FileStore) Save(ctx context.Context, kind, room string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKind(kind); err != nil {
		return err
	}
	target := s.path(kind, room)
	tmp := target + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := s.rename(tmp, target); err != nil {
		s.log.Warn("record rename failed, writing in place",
			zap.String("kind", kind),
			zap.String("room", room),
			zap.Error(err))
		werr := os.WriteFile(target, payload, 0o644)
		if rerr := os.Remove(tmp); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			s.log.Debug("remove temp record", zap.String("path", tmp), zap.Error(rerr))
		}
		if werr != nil {
			return fmt.Errorf("write record: %w", werr)
		}
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(kind, room string) string {
	return filepath.Join(s.dir, kind+"-"+url.PathEscape(room)+".json")
}
