package store

import (
	"context"
	"errors"

	"github.com/psds-microservice/classroom-service/internal/errs"
	"github.com/psds-microservice/classroom-service/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps records in the classroom_records table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open database. The table is created by migrations.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load fetches a record.
func (s *GormStore) Load(ctx context.Context, kind, room string) ([]byte, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	var rec model.ClassroomRecord
	err := s.db.WithContext(ctx).Where("kind = ? AND room_id = ?", kind, room).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Payload), nil
}

// Save upserts a record.
func (s *GormStore) Save(ctx context.Context, kind, room string, payload []byte) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	rec := &model.ClassroomRecord{Kind: kind, RoomID: room, Payload: string(payload)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "room_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(rec).Error
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
