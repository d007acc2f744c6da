package models

// Session statuses. Transitions only ever advance: active -> in_progress
// -> completed, with a direct active -> completed jump allowed when a
// summary is attached before any per-question append.
const (
	StatusActive     = "active"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Difficulty levels accepted for a session.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Input limits.
const (
	MaxRoleLength        = 100
	MaxDescriptionLength = 500
	MaxAnswerLength      = 5000
)

var validDifficulties = map[string]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// ValidDifficulty reports whether d is one of the enumerated levels.
func ValidDifficulty(d string) bool {
	return validDifficulties[d]
}

// DifficultyDescriptor maps a difficulty level to the descriptive language
// interpolated into prompts.
func DifficultyDescriptor(difficulty string) string {
	switch difficulty {
	case DifficultyEasy:
		return "beginner-level"
	case DifficultyHard:
		return "advanced-level"
	default:
		return "intermediate-level"
	}
}
