// Package profiles stores the per-user profile document.
package profiles

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	"github.com/me0hharryy/dermaGo/internal/repo"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes profile persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a profiles repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts the empty profile written at sign-up. An existing profile is
// left alone so a federated re-link never clobbers quiz data.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, email, displayName string) error {
	profile := models.Profile{UserID: userID, Email: email, DisplayName: displayName}
	return r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&profile).Error
}

// FindByUserID loads a user's profile.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.DB(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertQuiz merges the latest quiz answers into the profile. Only quiz_data,
// quiz_updated_at and updated_at change on an existing row.
func (r *Repository) UpsertQuiz(ctx context.Context, userID uuid.UUID, email string, answers quiz.Answers, at time.Time) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	at = at.UTC()
	profile := models.Profile{
		UserID:        userID,
		Email:         email,
		QuizData:      datatypes.JSON(raw),
		QuizUpdatedAt: &at,
	}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quiz_data", "quiz_updated_at", "updated_at"}),
		}).
		Create(&profile).Error
}
