package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRoutine is an append-only generated routine.
type SavedRoutine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AM        string    `gorm:"column:am;type:text;not null"`
	PM        string    `gorm:"column:pm;type:text;not null"`
	Tip       *string   `gorm:"column:tip;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (r *SavedRoutine) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}
