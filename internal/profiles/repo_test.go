package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	"github.com/me0hharryy/dermaGo/pkg/db/dbtest"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *Repository) uuid.UUID {
	t.Helper()
	user := &models.User{Email: "ada@example.com", DisplayName: "Ada"}
	require.NoError(t, repo.DB(context.Background()).Create(user).Error)
	return user.ID
}

func TestCreateIsIdempotent(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	userID := seedUser(t, repo)

	require.NoError(t, repo.Create(ctx, userID, "ada@example.com", "Ada"))
	require.NoError(t, repo.Create(ctx, userID, "other@example.com", "Other"))

	profile, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.DisplayName)
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestUpsertQuizOnlyTouchesQuizColumns(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	userID := seedUser(t, repo)
	require.NoError(t, repo.Create(ctx, userID, "ada@example.com", "Ada"))

	first := quiz.Answers{Gender: "female", Age: 30, SkinType: []string{"Dry"}}
	second := quiz.Answers{Gender: "female", Age: 31, SkinType: []string{"Oily", "Sensitive"}, Allergies: "fragrance"}
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertQuiz(ctx, userID, "changed@example.com", first, at))
	require.NoError(t, repo.UpsertQuiz(ctx, userID, "changed@example.com", second, at.Add(time.Hour)))

	profile, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	dto := FromModel(profile)

	assert.Equal(t, "ada@example.com", dto.Email)
	assert.Equal(t, "Ada", dto.DisplayName)
	require.NotNil(t, dto.Quiz)
	assert.Equal(t, second, *dto.Quiz)
	require.NotNil(t, dto.QuizUpdatedAt)
	assert.True(t, dto.QuizUpdatedAt.Equal(at.Add(time.Hour)))
}

func TestUpsertQuizCreatesMissingProfile(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	userID := seedUser(t, repo)

	answers := quiz.Answers{Gender: "male", Age: 22, SkinType: []string{"Normal"}}
	require.NoError(t, repo.UpsertQuiz(ctx, userID, "ada@example.com", answers, time.Now()))

	profile, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.NotNil(t, FromModel(profile).Quiz)
}
