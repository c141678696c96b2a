package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity. Federated accounts have no
// password hash; password accounts have no Google subject until linked.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email         string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  *string    `gorm:"column:password_hash"`
	GoogleSubject *string    `gorm:"column:google_subject;uniqueIndex"`
	DisplayName   string     `gorm:"column:display_name;not null;default:''"`
	IsActive      bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
