package routines

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
)

type stubGenerator struct {
	result Result
	err    error
	calls  int
}

func (s *stubGenerator) Routine(context.Context, quiz.Answers) (Result, error) {
	s.calls++
	return s.result, s.err
}

type stubProfiles struct {
	err     error
	saved   *quiz.Answers
	savedAt time.Time
}

func (s *stubProfiles) UpsertQuiz(_ context.Context, _ uuid.UUID, _ string, answers quiz.Answers, at time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.saved = &answers
	s.savedAt = at
	return nil
}

type stubStore struct {
	appendErr error
	appended  []Result
}

func (s *stubStore) Append(_ context.Context, _ uuid.UUID, r Result) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, r)
	return nil
}

func (s *stubStore) List(context.Context, uuid.UUID, pagination.Params) (pagination.Page[SavedRoutineDTO], error) {
	return pagination.Page[SavedRoutineDTO]{}, errors.New("db down")
}

func testAnswers() quiz.Answers {
	return quiz.Answers{
		Gender: "male", Age: 35, SkinType: []string{"Combination"},
		Sunlight: "3-6 hours", Sunscreen: "Yes", Water: "2-3L", Exercise: "Rarely",
		FaceWash: "Once a day", Moisturizer: "No", Exfoliate: "Never", Makeup: "No",
	}
}

func buildService(t *testing.T, gen *stubGenerator, profiles *stubProfiles, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Generator: gen,
		Profiles:  profiles,
		Store:     store,
		Clock:     func() time.Time { return time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestGenerateSavesAfterSuccess(t *testing.T) {
	gen := &stubGenerator{result: Result{AM: "1. Cleanser: Gel - clears", PM: "1. Moisturizer: Cream"}}
	profiles := &stubProfiles{}
	store := &stubStore{}
	svc := buildService(t, gen, profiles, store)

	out, err := svc.Generate(context.Background(), Owner{UserID: uuid.New(), Email: "a@example.com"}, testAnswers())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("expected one routine appended, got %d", len(store.appended))
	}
	if profiles.saved == nil || profiles.saved.Age != 35 {
		t.Fatalf("expected quiz answers upserted, got %+v", profiles.saved)
	}
	if len(out.Steps.AM) != 1 || out.Steps.PM[0].Reason != NoRationale {
		t.Fatalf("unexpected steps %+v", out.Steps)
	}
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	genErr := pkgerrors.New(pkgerrors.CodeGenerationFailed, "try again")
	gen := &stubGenerator{err: genErr}
	profiles := &stubProfiles{}
	store := &stubStore{}
	svc := buildService(t, gen, profiles, store)

	_, err := svc.Generate(context.Background(), Owner{UserID: uuid.New()}, testAnswers())
	if !errors.Is(err, genErr) {
		t.Fatalf("expected generation error, got %v", err)
	}
	if profiles.saved != nil || len(store.appended) != 0 {
		t.Fatalf("expected no writes after failure")
	}
}

func TestGenerateSwallowsPersistenceFailures(t *testing.T) {
	gen := &stubGenerator{result: Result{AM: "a", PM: "b"}}
	svc := buildService(t, gen, &stubProfiles{err: errors.New("profile down")}, &stubStore{appendErr: errors.New("insert failed")})

	out, err := svc.Generate(context.Background(), Owner{UserID: uuid.New()}, testAnswers())
	if err != nil {
		t.Fatalf("expected result despite write failures, got %v", err)
	}
	if out.Routine.AM != "a" {
		t.Fatalf("unexpected routine %+v", out.Routine)
	}
}

func TestGenerateValidatesBeforeCallingModel(t *testing.T) {
	gen := &stubGenerator{}
	svc := buildService(t, gen, &stubProfiles{}, &stubStore{})
	answers := testAnswers()
	answers.SkinType = nil

	_, err := svc.Generate(context.Background(), Owner{UserID: uuid.New()}, answers)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected model not called")
	}
}

func TestListWrapsStoreErrors(t *testing.T) {
	svc := buildService(t, &stubGenerator{}, &stubProfiles{}, &stubStore{})
	_, err := svc.List(context.Background(), uuid.New(), pagination.Params{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
