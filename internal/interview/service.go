package interview

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"prepmate/api/internal/cache"
	"prepmate/api/internal/models"
	"prepmate/api/internal/repositories"
)

// ErrSessionUnavailable covers both "session does not exist" and "session
// belongs to another user". The two are deliberately indistinguishable so
// responses never confirm session existence to non-owners.
var ErrSessionUnavailable = errors.New("session not found")

// casRetries bounds the optimistic-concurrency retry loop on appends.
const casRetries = 3

// Service owns the session state machine: active -> in_progress ->
// completed, with a direct active -> completed jump when a summary is
// attached before any append. Completed is terminal; appends to a
// completed session are rejected, summary regeneration overwrites
// idempotently.
type Service struct {
	sessions  *repositories.SessionRepository
	generator *Generator
	cache     *cache.Store
	logger    *zap.Logger
}

func NewService(sessions *repositories.SessionRepository, generator *Generator, store *cache.Store, logger *zap.Logger) *Service {
	return &Service{
		sessions:  sessions,
		generator: generator,
		cache:     store,
		logger:    logger,
	}
}

func (s *Service) CreateSession(ctx context.Context, userID string, req *models.CreateSessionRequest) (*models.InterviewSession, error) {
	session := &models.InterviewSession{
		UserID:      userID,
		Role:        req.JobRole,
		Difficulty:  req.Difficulty,
		Description: req.Description,
		Questions:   []string{},
		Answers:     []string{},
		Status:      models.StatusActive,
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	s.invalidateUser(ctx, userID)
	return session, nil
}

// AppendQuestionAnswer records one Q&A pair, advancing active ->
// in_progress on the first append. Concurrent appends are serialized via
// compare-and-swap on the session version; on conflict the whole append
// is retried against a fresh read.
func (s *Service) AppendQuestionAnswer(ctx context.Context, sessionID, userID string, req *models.AppendQARequest) (*models.InterviewSession, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		session, err := s.getOwned(sessionID, userID)
		if err != nil {
			return nil, err
		}

		if session.Status == models.StatusCompleted {
			return nil, &models.ErrorResponse{
				Code:    "session_completed",
				Message: "Cannot add questions to a completed session",
			}
		}

		seenVersion := session.Version
		session.Questions = append(session.Questions, req.Question)
		session.Answers = append(session.Answers, req.Answer)
		if req.Evaluation != nil {
			// keep evaluations index-aligned with questions
			for len(session.Evaluations) < len(session.Questions)-1 {
				session.Evaluations = append(session.Evaluations, nil)
			}
			session.Evaluations = append(session.Evaluations, req.Evaluation)
		}
		if session.Status == models.StatusActive {
			session.Status = models.StatusInProgress
		}

		err = s.sessions.CompareAndSave(session, seenVersion)
		if err == nil {
			s.invalidateTranscript(ctx, session)
			return session, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("append raced with concurrent write, retrying",
			zap.String("session_id", sessionID),
			zap.Int("attempt", attempt+1))
	}
	return nil, lastErr
}

// UpdateSession applies a partial update. Provided question/answer arrays
// replace the stored ones. Setting completed (or attaching a summary)
// finalizes the session; the status never regresses.
func (s *Service) UpdateSession(ctx context.Context, sessionID, userID string, req *models.UpdateSessionRequest) (*models.InterviewSession, error) {
	session, err := s.getOwned(sessionID, userID)
	if err != nil {
		return nil, err
	}
	seenVersion := session.Version

	if req.Questions != nil {
		session.Questions = *req.Questions
	}
	if req.Answers != nil {
		session.Answers = *req.Answers
	}
	if req.Description != nil {
		session.Description = *req.Description
	}
	if req.Summary != nil {
		session.Summary = req.Summary
	}

	// a one-sided array replacement must not leave the stored pairs
	// misaligned
	if len(session.Questions) != len(session.Answers) {
		return nil, &models.ErrorResponse{
			Code:    "mismatched_arrays",
			Message: "Questions and answers must have the same length",
		}
	}

	finalize := req.Summary != nil || (req.Completed != nil && *req.Completed)
	if finalize {
		if len(session.Questions) == 0 {
			return nil, &models.ErrorResponse{
				Code:    "no_interview_data",
				Message: "A session with no questions cannot be completed",
			}
		}
		session.Status = models.StatusCompleted
		session.Completed = true
	}

	if err := s.sessions.CompareAndSave(session, seenVersion); err != nil {
		return nil, err
	}

	if req.Questions != nil || req.Answers != nil {
		s.invalidateTranscript(ctx, session)
	} else {
		s.invalidate(ctx, session)
	}
	return session, nil
}

// GenerateSummary produces (or re-produces) the session summary and
// finalizes the session. Allowed on an already-completed session; the
// summary overwrite is idempotent.
func (s *Service) GenerateSummary(ctx context.Context, sessionID, userID string) (*models.Summary, error) {
	session, err := s.getOwned(sessionID, userID)
	if err != nil {
		return nil, err
	}

	if len(session.Questions) == 0 {
		return nil, &models.ErrorResponse{
			Code:    "no_interview_data",
			Message: "No interview data available to summarize",
		}
	}

	summary, err := s.generator.SummarizeSession(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := s.attachSummary(ctx, session, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// EndSession finalizes a session, generating a summary first if none
// exists yet. Requires at least one recorded question.
func (s *Service) EndSession(ctx context.Context, sessionID, userID string) (*models.EndSessionResponse, error) {
	session, err := s.getOwned(sessionID, userID)
	if err != nil {
		return nil, err
	}

	if len(session.Questions) == 0 {
		return nil, &models.ErrorResponse{
			Code:    "no_interview_data",
			Message: "No interview data available to end this session",
		}
	}

	if session.Summary == nil {
		summary, err := s.generator.SummarizeSession(ctx, session)
		if err != nil {
			return nil, err
		}
		session.Summary = summary
	}

	if err := s.attachSummary(ctx, session, session.Summary); err != nil {
		return nil, err
	}

	return &models.EndSessionResponse{
		Session: session,
		Summary: session.Summary,
		Message: "Interview session completed",
	}, nil
}

func (s *Service) GetUserSessions(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	return cache.GetOrSet(ctx, s.cache, cache.UserSessionsKey(userID), cache.UserSessionsTTL, func() ([]models.InterviewSession, error) {
		return s.sessions.GetByUserID(userID)
	})
}

func (s *Service) GetSession(ctx context.Context, sessionID, userID string) (*models.InterviewSession, error) {
	return cache.GetOrSet(ctx, s.cache, cache.SessionKey(sessionID, userID), cache.SessionTTL, func() (*models.InterviewSession, error) {
		return s.getOwned(sessionID, userID)
	})
}

func (s *Service) ComputeProgress(ctx context.Context, userID string) (*models.ProgressReport, error) {
	return cache.GetOrSet(ctx, s.cache, cache.UserProgressKey(userID), cache.UserProgressTTL, func() (*models.ProgressReport, error) {
		sessions, err := s.sessions.GetByUserID(userID)
		if err != nil {
			return nil, err
		}
		return computeProgress(sessions, timeNow()), nil
	})
}

// Generator exposes the artifact generator for the standalone
// generate-question / evaluate-answer endpoints.
func (s *Service) Generator() *Generator {
	return s.generator
}

// attachSummary replaces the summary and finalizes the session, allowing
// the direct active -> completed jump.
func (s *Service) attachSummary(ctx context.Context, session *models.InterviewSession, summary *models.Summary) error {
	seenVersion := session.Version
	session.Summary = summary
	session.Status = models.StatusCompleted
	session.Completed = true

	if err := s.sessions.CompareAndSave(session, seenVersion); err != nil {
		return err
	}
	s.invalidate(ctx, session)
	return nil
}

// getOwned loads a session scoped to the owning user. Absent and
// foreign-owned sessions are reported identically.
func (s *Service) getOwned(sessionID, userID string) (*models.InterviewSession, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionUnavailable
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionUnavailable
	}
	return session, nil
}

// invalidate drops the aggregate cache entries touched by a session
// mutation. Question/evaluation entries are never invalidated; their keys
// encode every input.
func (s *Service) invalidate(ctx context.Context, session *models.InterviewSession) {
	s.cache.Delete(ctx,
		cache.UserSessionsKey(session.UserID),
		cache.SessionKey(session.ID, session.UserID),
		cache.UserProgressKey(session.UserID),
	)
}

// invalidateTranscript additionally drops the cached summary, which is
// derived from the questions and answers.
func (s *Service) invalidateTranscript(ctx context.Context, session *models.InterviewSession) {
	s.cache.Delete(ctx, cache.SummaryKey(session.ID))
	s.invalidate(ctx, session)
}

func (s *Service) invalidateUser(ctx context.Context, userID string) {
	s.cache.Delete(ctx,
		cache.UserSessionsKey(userID),
		cache.UserProgressKey(userID),
	)
}
