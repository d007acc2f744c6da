package models

import "time"

// QuestionArtifact is a generated interview question. Cache-backed and
// ephemeral: it is not persisted until the caller records it on a session.
type QuestionArtifact struct {
	Question   string    `json:"question"`
	Context    string    `json:"context"`
	Role       string    `json:"role"`
	Difficulty string    `json:"difficulty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RoleCount is one entry of the top-roles ranking.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// DailyCount is one day of the 7-day session-count series.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// ProgressReport aggregates a user's interview activity.
type ProgressReport struct {
	TotalSessions     int          `json:"totalSessions"`
	ActiveSessions    int          `json:"activeSessions"`
	InProgressCount   int          `json:"inProgressSessions"`
	CompletedSessions int          `json:"completedSessions"`
	AverageScore      float64      `json:"averageScore"`
	TopRoles          []RoleCount  `json:"topRoles"`
	DailySessions     []DailyCount `json:"dailySessions"`
	CurrentStreak     int          `json:"currentStreak"`
}
