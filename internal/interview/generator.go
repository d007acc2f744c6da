package interview

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"prepmate/api/internal/cache"
	"prepmate/api/internal/extract"
	"prepmate/api/internal/llm"
	"prepmate/api/internal/models"
	"prepmate/api/internal/prompts"
)

// Generator produces interview artifacts (questions, evaluations,
// summaries) by calling the completion provider through the retry wrapper
// and the response cache. Model output goes through the extraction
// fallback chain, so generation never fails on malformed responses, only
// on provider errors.
type Generator struct {
	standard llm.Provider // question and evaluation calls
	summary  llm.Provider // summary calls, longer timeout
	prompts  prompts.PromptProvider
	cache    *cache.Store
	logger   *zap.Logger

	now func() time.Time
}

func NewGenerator(provider llm.Provider, promptManager prompts.PromptProvider, store *cache.Store, logger *zap.Logger) *Generator {
	return &Generator{
		standard: llm.NewRetryClient(provider, llm.DefaultTimeout, llm.DefaultMaxRetries, logger),
		summary:  llm.NewRetryClient(provider, llm.SummaryTimeout, llm.DefaultMaxRetries, logger),
		prompts:  promptManager,
		cache:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateQuestion produces one interview question for the role and
// difficulty, reusing a cached question for the same inputs.
func (g *Generator) GenerateQuestion(ctx context.Context, role, difficulty, questionContext string) (*models.QuestionArtifact, error) {
	key := cache.QuestionKey(role, difficulty, questionContext)

	return cache.GetOrSet(ctx, g.cache, key, cache.QuestionTTL, func() (*models.QuestionArtifact, error) {
		promptContext := questionContext
		if promptContext == "" {
			promptContext = "This is the first question of the interview."
		}

		prompt, err := g.prompts.BuildPrompt("question", map[string]string{
			"Role":       role,
			"Difficulty": models.DifficultyDescriptor(difficulty),
			"Context":    promptContext,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build question prompt: %w", err)
		}

		text, err := g.standard.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		result := extract.Parse(text)
		if result.Kind == extract.Fallback {
			g.logger.Warn("question response was unstructured, using raw text",
				zap.String("role", role))
		}

		return &models.QuestionArtifact{
			Question:   result.String("question", result.Raw),
			Context:    result.String("context", extract.NoContext),
			Role:       role,
			Difficulty: difficulty,
			Timestamp:  g.now(),
		}, nil
	})
}

// EvaluateAnswer scores a candidate answer 1-10. When the model response
// cannot be parsed, the score degrades to "N/A" and the raw text is kept
// as feedback.
func (g *Generator) EvaluateAnswer(ctx context.Context, question, answer, role string) (*models.Evaluation, error) {
	key := cache.EvaluationKey(question, answer, role)

	return cache.GetOrSet(ctx, g.cache, key, cache.EvaluationTTL, func() (*models.Evaluation, error) {
		prompt, err := g.prompts.BuildPrompt("evaluation", map[string]string{
			"Question": question,
			"Answer":   answer,
			"Role":     role,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build evaluation prompt: %w", err)
		}

		text, err := g.standard.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		result := extract.Parse(text)

		return &models.Evaluation{
			Score:            scoreString(result, "score"),
			Feedback:         result.String("feedback", result.Raw),
			ImprovementAreas: result.String("improvement_areas", extract.NotAvailable),
			Timestamp:        g.now(),
		}, nil
	})
}

// SummarizeSession produces the overall performance summary for a full
// session transcript.
func (g *Generator) SummarizeSession(ctx context.Context, session *models.InterviewSession) (*models.Summary, error) {
	key := cache.SummaryKey(session.ID)

	return cache.GetOrSet(ctx, g.cache, key, cache.SummaryTTL, func() (*models.Summary, error) {
		prompt, err := g.prompts.BuildPrompt("summary", map[string]string{
			"Role":       session.Role,
			"Difficulty": models.DifficultyDescriptor(session.Difficulty),
			"Transcript": buildTranscript(session.Questions, session.Answers),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build summary prompt: %w", err)
		}

		text, err := g.summary.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		result := extract.Parse(text)
		if result.Kind == extract.Fallback {
			g.logger.Warn("summary response was unstructured, using raw text",
				zap.String("session_id", session.ID))
		}

		return &models.Summary{
			OverallScore:        scoreString(result, "overall_score"),
			Strengths:           result.String("strengths", result.Raw),
			Improvements:        result.String("improvements", extract.NotAvailable),
			Recommendations:     result.String("recommendations", extract.NotAvailable),
			TechnicalAssessment: result.String("technical_assessment", extract.NotAvailable),
			QuestionCount:       len(session.Questions),
			Role:                session.Role,
			Difficulty:          session.Difficulty,
			GeneratedAt:         g.now(),
		}, nil
	})
}

// scoreString renders a numeric score field, degrading to "N/A" when the
// field is missing or non-numeric.
func scoreString(result extract.Result, field string) string {
	if score, ok := result.Number(field); ok {
		return strconv.FormatFloat(score, 'f', -1, 64)
	}
	return extract.NotAvailable
}

func buildTranscript(questions, answers []string) string {
	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, q)
		if i < len(answers) {
			fmt.Fprintf(&b, "A%d: %s\n\n", i+1, answers[i])
		}
	}
	return strings.TrimSpace(b.String())
}
