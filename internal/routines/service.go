package routines

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
)

// Generator produces a routine from quiz answers.
type Generator interface {
	Routine(ctx context.Context, answers quiz.Answers) (Result, error)
}

// ProfileWriter merges quiz answers into the user's profile.
type ProfileWriter interface {
	UpsertQuiz(ctx context.Context, userID uuid.UUID, email string, answers quiz.Answers, at time.Time) error
}

// Store is the routine persistence the service needs.
type Store interface {
	Append(ctx context.Context, userID uuid.UUID, result Result) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedRoutineDTO], error)
}

// Owner identifies who a routine is generated for.
type Owner struct {
	UserID uuid.UUID
	Email  string
}

// ServiceParams groups dependencies for the routines service.
type ServiceParams struct {
	Generator Generator
	Profiles  ProfileWriter
	Store     Store
	Logger    *logger.Logger
	Clock     func() time.Time
}

// Service is the quiz-to-routine workflow.
type Service interface {
	Generate(ctx context.Context, owner Owner, answers quiz.Answers) (Generated, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedRoutineDTO], error)
}

type service struct {
	generator Generator
	profiles  ProfileWriter
	store     Store
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the routines service.
func NewService(params ServiceParams) (Service, error) {
	if params.Generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "routine generator is required")
	}
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile writer is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "routine store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		generator: params.Generator,
		profiles:  params.Profiles,
		store:     params.Store,
		logg:      logg,
		now:       now,
	}, nil
}

// Generate validates the answers, asks the model for a routine and, on
// success, records both the routine and the answers. Nothing is written when
// generation fails. Write failures after success are logged only.
func (s *service) Generate(ctx context.Context, owner Owner, answers quiz.Answers) (Generated, error) {
	if owner.UserID == uuid.Nil {
		return Generated{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	if err := answers.Validate(); err != nil {
		return Generated{}, err
	}

	result, err := s.generator.Routine(ctx, answers)
	if err != nil {
		return Generated{}, err
	}

	ctx = s.logg.WithUserID(ctx, owner.UserID.String())
	if err := s.profiles.UpsertQuiz(ctx, owner.UserID, owner.Email, answers, s.now()); err != nil {
		s.logg.Error(ctx, "save quiz answers", err)
	}
	if err := s.store.Append(ctx, owner.UserID, result); err != nil {
		s.logg.Error(ctx, "save routine", err)
	}

	return Generated{Routine: result, Steps: StepsOf(result)}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedRoutineDTO], error) {
	if userID == uuid.Nil {
		return pagination.Page[SavedRoutineDTO]{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	page, err := s.store.List(ctx, userID, params)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return page, err
		}
		return page, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list routines")
	}
	return page, nil
}

// RepositoryStore adapts Repository to Store.
type RepositoryStore struct {
	Repo *Repository
}

func (s RepositoryStore) Append(ctx context.Context, userID uuid.UUID, result Result) error {
	_, err := s.Repo.Append(ctx, userID, result)
	return err
}

func (s RepositoryStore) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedRoutineDTO], error) {
	page, err := s.Repo.List(ctx, userID, params)
	if err != nil {
		return pagination.Page[SavedRoutineDTO]{}, err
	}
	items := make([]SavedRoutineDTO, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, savedFromModel(m))
	}
	return pagination.Page[SavedRoutineDTO]{Items: items, NextCursor: page.NextCursor}, nil
}
