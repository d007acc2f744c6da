package cache

import (
	"encoding/base64"
	"fmt"
	"time"
)

// TTLs per artifact type. Questions and evaluations are immutable for a
// given key (the key encodes every input), so they are never invalidated;
// aggregate views are short-lived and invalidated on mutation.
const (
	QuestionTTL     = 30 * time.Minute
	EvaluationTTL   = time.Hour
	SummaryTTL      = 24 * time.Hour
	UserSessionsTTL = 15 * time.Minute
	SessionTTL      = 30 * time.Minute
	UserProgressTTL = 30 * time.Minute
)

func QuestionKey(role, difficulty, context string) string {
	if context == "" {
		context = "default"
	}
	return fmt.Sprintf("question:%s:%s:%s", role, difficulty, context)
}

// EvaluationKey fingerprints an evaluation by its full input. The base64
// digest is truncated to 50 characters to keep keys bounded.
func EvaluationKey(question, answer, role string) string {
	digest := base64.StdEncoding.EncodeToString([]byte(question + answer + role))
	if len(digest) > 50 {
		digest = digest[:50]
	}
	return "evaluation:" + digest
}

func SummaryKey(sessionID string) string {
	return "summary:" + sessionID
}

func UserSessionsKey(userID string) string {
	return "user_sessions:" + userID
}

func SessionKey(sessionID, userID string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, userID)
}

func UserProgressKey(userID string) string {
	return "user_progress:" + userID
}
