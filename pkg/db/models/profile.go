package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile is the per-user document. QuizData holds the latest questionnaire
// submission verbatim.
type Profile struct {
	UserID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email         string         `gorm:"type:text;not null"`
	DisplayName   string         `gorm:"column:display_name;not null;default:''"`
	QuizData      datatypes.JSON `gorm:"column:quiz_data"`
	QuizUpdatedAt *time.Time     `gorm:"column:quiz_updated_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
