package profiles

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
)

// ProfileDTO is the profile as returned to clients.
type ProfileDTO struct {
	UserID        uuid.UUID     `json:"user_id"`
	Email         string        `json:"email"`
	DisplayName   string        `json:"display_name"`
	Quiz          *quiz.Answers `json:"quiz_data,omitempty"`
	QuizUpdatedAt *time.Time    `json:"quiz_updated_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// FromModel maps a stored profile. Quiz data that no longer decodes is
// dropped rather than failing the whole profile.
func FromModel(m *models.Profile) ProfileDTO {
	dto := ProfileDTO{
		UserID:        m.UserID,
		Email:         m.Email,
		DisplayName:   m.DisplayName,
		QuizUpdatedAt: m.QuizUpdatedAt,
		CreatedAt:     m.CreatedAt,
	}
	if len(m.QuizData) > 0 {
		var answers quiz.Answers
		if err := json.Unmarshal(m.QuizData, &answers); err == nil {
			dto.Quiz = &answers
		}
	}
	return dto
}
