package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"prepmate/api/internal/cache"
	"prepmate/api/internal/models"
	"prepmate/api/internal/prompts"
	"prepmate/api/internal/repositories"
	"prepmate/api/internal/testhelpers"
)

type fakeProvider struct {
	completeFn func(ctx context.Context, prompt string) (string, error)
	calls      int
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.completeFn == nil {
		return `{"overall_score": 8, "strengths": "clear answers", "improvements": "more depth", "recommendations": "practice system design", "technical_assessment": "solid fundamentals"}`, nil
	}
	return f.completeFn(ctx, prompt)
}

func (f *fakeProvider) GetProviderName() string { return "fake" }

func newTestService(t *testing.T, provider *fakeProvider) *Service {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}
	logger := zap.NewNop()
	generator := NewGenerator(provider, promptManager, nil, logger)
	return NewService(&repositories.SessionRepository{DB: db}, generator, nil, logger)
}

func newCachedTestService(t *testing.T, provider *fakeProvider) *Service {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := cache.NewStore(client, zap.NewNop())
	logger := zap.NewNop()
	generator := NewGenerator(provider, promptManager, store, logger)
	return NewService(&repositories.SessionRepository{DB: db}, generator, store, logger)
}

func createTestSession(t *testing.T, service *Service, userID string) *models.InterviewSession {
	t.Helper()
	session, err := service.CreateSession(context.Background(), userID, &models.CreateSessionRequest{
		JobRole:    "Backend Developer",
		Difficulty: models.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

func TestCreateSessionStartsActive(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")

	if session.Status != models.StatusActive {
		t.Fatalf("expected active status, got %q", session.Status)
	}
	if session.Completed {
		t.Fatal("new session must not be completed")
	}
	if len(session.Questions) != 0 || len(session.Answers) != 0 {
		t.Fatal("new session must have empty sequences")
	}
	if session.ID == "" {
		t.Fatal("expected a generated session id")
	}
}

func TestAppendAdvancesToInProgress(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")

	updated, err := service.AppendQuestionAnswer(context.Background(), session.ID, "1", &models.AppendQARequest{
		Question: "What is a goroutine?",
		Answer:   "A lightweight thread managed by the Go runtime.",
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if updated.Status != models.StatusInProgress {
		t.Fatalf("expected in_progress, got %q", updated.Status)
	}
	if len(updated.Questions) != 1 || len(updated.Answers) != 1 {
		t.Fatalf("expected aligned 1-element sequences, got %d/%d",
			len(updated.Questions), len(updated.Answers))
	}

	// second append keeps in_progress, never advances further
	updated, err = service.AppendQuestionAnswer(context.Background(), session.ID, "1", &models.AppendQARequest{
		Question: "What is a channel?",
		Answer:   "A typed conduit for communication between goroutines.",
	})
	if err != nil {
		t.Fatalf("second append failed: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Fatalf("expected in_progress after second append, got %q", updated.Status)
	}
	if len(updated.Questions) != len(updated.Answers) {
		t.Fatal("questions and answers must stay index-aligned")
	}
}

func TestAppendKeepsEvaluationAlignment(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")
	ctx := context.Background()

	// first pair without evaluation, second with
	if _, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question: "Q1", Answer: "A1",
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	updated, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question:   "Q2",
		Answer:     "A2",
		Evaluation: &models.Evaluation{Score: "7", Feedback: "good"},
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if len(updated.Evaluations) != 2 {
		t.Fatalf("expected padded evaluations, got %d", len(updated.Evaluations))
	}
	if updated.Evaluations[0] != nil {
		t.Fatal("first evaluation slot should be nil")
	}
	if updated.Evaluations[1] == nil || updated.Evaluations[1].Score != "7" {
		t.Fatal("second evaluation not recorded")
	}
}

func TestAppendRejectsForeignSession(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")

	_, err := service.AppendQuestionAnswer(context.Background(), session.ID, "2", &models.AppendQARequest{
		Question: "Q", Answer: "A",
	})
	if !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("expected ErrSessionUnavailable, got %v", err)
	}

	// unknown session id reports identically
	_, err = service.AppendQuestionAnswer(context.Background(), "no-such-id", "1", &models.AppendQARequest{
		Question: "Q", Answer: "A",
	})
	if !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("expected ErrSessionUnavailable for missing session, got %v", err)
	}
}

func TestEndSessionFullFlow(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")
	ctx := context.Background()

	if _, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question: "What is a goroutine?",
		Answer:   "A lightweight thread.",
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	result, err := service.EndSession(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("end session failed: %v", err)
	}

	if result.Session.Status != models.StatusCompleted {
		t.Fatalf("expected completed status, got %q", result.Session.Status)
	}
	if !result.Session.Completed {
		t.Fatal("completed flag must match status")
	}
	if result.Summary == nil {
		t.Fatal("expected a summary")
	}
	if result.Summary.OverallScore != "8" {
		t.Fatalf("expected overall score 8, got %q", result.Summary.OverallScore)
	}
	if result.Summary.QuestionCount != 1 {
		t.Fatalf("expected question count 1, got %d", result.Summary.QuestionCount)
	}
}

func TestEndSessionRequiresQuestions(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")

	_, err := service.EndSession(context.Background(), session.ID, "1")
	var validationErr *models.ErrorResponse
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Code != "no_interview_data" {
		t.Fatalf("unexpected code: %q", validationErr.Code)
	}
}

func TestAppendRejectedAfterCompletion(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")
	ctx := context.Background()

	if _, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question: "Q", Answer: "A",
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := service.EndSession(ctx, session.ID, "1"); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	_, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question: "Q2", Answer: "A2",
	})
	var validationErr *models.ErrorResponse
	if !errors.As(err, &validationErr) || validationErr.Code != "session_completed" {
		t.Fatalf("expected session_completed rejection, got %v", err)
	}
}

func TestUpdateSessionDirectCompletion(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")

	// attaching a summary via update jumps active -> completed directly
	questions := []string{"Q1"}
	answers := []string{"A1"}
	updated, err := service.UpdateSession(context.Background(), session.ID, "1", &models.UpdateSessionRequest{
		Questions: &questions,
		Answers:   &answers,
		Summary:   &models.Summary{OverallScore: "6"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Status != models.StatusCompleted || !updated.Completed {
		t.Fatalf("expected direct completion, got %q completed=%v", updated.Status, updated.Completed)
	}
	if len(updated.Questions) != 1 {
		t.Fatal("update must replace, not append, question arrays")
	}
}

func TestUpdateSessionRejectsEmptyCompletion(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")

	completed := true
	_, err := service.UpdateSession(context.Background(), session.ID, "1", &models.UpdateSessionRequest{
		Completed: &completed,
	})
	var validationErr *models.ErrorResponse
	if !errors.As(err, &validationErr) {
		t.Fatalf("zero-question session must not complete, got %v", err)
	}
}

func TestUpdateSessionRejectsOneSidedMisalignment(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")
	ctx := context.Background()

	if _, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question: "Q1", Answer: "A1",
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	// replacing only questions with a longer array would desync the pairs
	questions := []string{"Q1", "Q2", "Q3"}
	_, err := service.UpdateSession(ctx, session.ID, "1", &models.UpdateSessionRequest{
		Questions: &questions,
	})
	var validationErr *models.ErrorResponse
	if !errors.As(err, &validationErr) || validationErr.Code != "mismatched_arrays" {
		t.Fatalf("expected mismatched_arrays rejection, got %v", err)
	}

	stored, err := service.GetSession(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Questions) != 1 || len(stored.Answers) != 1 {
		t.Fatalf("rejected update must not persist, got %d/%d",
			len(stored.Questions), len(stored.Answers))
	}

	// a one-sided replacement that keeps the lengths equal is fine
	sameLength := []string{"Q1 revised"}
	updated, err := service.UpdateSession(ctx, session.ID, "1", &models.UpdateSessionRequest{
		Questions: &sameLength,
	})
	if err != nil {
		t.Fatalf("aligned one-sided update failed: %v", err)
	}
	if updated.Questions[0] != "Q1 revised" || len(updated.Answers) != 1 {
		t.Fatalf("unexpected session after update: %+v", updated)
	}
}

func TestGenerateSummaryIsIdempotent(t *testing.T) {
	provider := &fakeProvider{}
	service := newTestService(t, provider)
	session := createTestSession(t, service, "1")
	ctx := context.Background()

	if _, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question: "Q", Answer: "A",
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	first, err := service.GenerateSummary(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	// regeneration on a completed session is tolerated
	second, err := service.GenerateSummary(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("regeneration failed: %v", err)
	}
	if first.OverallScore != second.OverallScore {
		t.Fatal("regenerated summary diverged")
	}

	stored, err := service.GetSession(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Summary == nil || stored.Status != models.StatusCompleted {
		t.Fatal("summary not persisted with completion")
	}
}

func TestTranscriptChangeDropsCachedSummary(t *testing.T) {
	score := "4"
	provider := &fakeProvider{}
	provider.completeFn = func(ctx context.Context, prompt string) (string, error) {
		return `{"overall_score": ` + score + `, "strengths": "s", "improvements": "i", "recommendations": "r", "technical_assessment": "t"}`, nil
	}
	service := newCachedTestService(t, provider)
	session := createTestSession(t, service, "1")
	ctx := context.Background()

	if _, err := service.AppendQuestionAnswer(ctx, session.ID, "1", &models.AppendQARequest{
		Question: "Q1", Answer: "A1",
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	first, err := service.GenerateSummary(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if first.OverallScore != "4" {
		t.Fatalf("unexpected first score %q", first.OverallScore)
	}

	// with the transcript unchanged, regeneration serves the cached summary
	score = "9"
	cached, err := service.GenerateSummary(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("regeneration failed: %v", err)
	}
	if cached.OverallScore != "4" {
		t.Fatalf("expected cached score 4, got %q", cached.OverallScore)
	}

	// replacing the transcript must force a recompute
	questions := []string{"Q2"}
	answers := []string{"A2"}
	if _, err := service.UpdateSession(ctx, session.ID, "1", &models.UpdateSessionRequest{
		Questions: &questions,
		Answers:   &answers,
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	regenerated, err := service.GenerateSummary(ctx, session.ID, "1")
	if err != nil {
		t.Fatalf("post-update summary failed: %v", err)
	}
	if regenerated.OverallScore != "9" {
		t.Fatalf("expected recomputed score 9, got %q", regenerated.OverallScore)
	}
}

func TestGetUserSessionsScopedToOwner(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	createTestSession(t, service, "1")
	createTestSession(t, service, "1")
	createTestSession(t, service, "2")

	sessions, err := service.GetUserSessions(context.Background(), "1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions for user 1, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.UserID != "1" {
			t.Fatalf("foreign session leaked: %q", s.UserID)
		}
	}
}

func TestGetSessionConflatesNotFoundAndForeign(t *testing.T) {
	service := newTestService(t, &fakeProvider{})
	session := createTestSession(t, service, "1")

	_, foreignErr := service.GetSession(context.Background(), session.ID, "2")
	_, missingErr := service.GetSession(context.Background(), "no-such-id", "2")

	if !errors.Is(foreignErr, ErrSessionUnavailable) || !errors.Is(missingErr, ErrSessionUnavailable) {
		t.Fatalf("both cases must report ErrSessionUnavailable, got %v / %v", foreignErr, missingErr)
	}
}
