package model

import "time"

// ClassroomRecord — JSON-запись комнаты в PostgreSQL (GORM). Kind отделяет readiness, session window и платежи.
type ClassroomRecord struct {
	Kind      string    `gorm:"size:32;primaryKey"`
	RoomID    string    `gorm:"size:255;primaryKey"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ClassroomRecord) TableName() string { return "classroom_records" }
