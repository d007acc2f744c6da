package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InterviewSession is one interview-practice attempt, scoped to one user,
// one role, one difficulty. Questions, answers, evaluations and the summary
// are stored as serialized JSON columns rather than normalized child tables.
type InterviewSession struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"not null;index" json:"userId"`
	Role        string         `gorm:"not null" json:"role"`
	Difficulty  string         `gorm:"not null" json:"difficulty"`
	Description string         `json:"description,omitempty"`
	Questions   []string       `gorm:"serializer:json" json:"questions"`
	Answers     []string       `gorm:"serializer:json" json:"answers"`
	Evaluations []*Evaluation  `gorm:"serializer:json" json:"evaluations,omitempty"`
	Summary     *Summary       `gorm:"serializer:json" json:"summary,omitempty"`
	Status      string         `gorm:"not null;default:active" json:"status"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	Version     int            `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *InterviewSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// Evaluation is the per-answer assessment attached alongside a Q&A pair.
// Score is "N/A" when the model response could not be parsed.
type Evaluation struct {
	Score            string    `json:"score"`
	Feedback         string    `json:"feedback"`
	ImprovementAreas string    `json:"improvement_areas"`
	Timestamp        time.Time `json:"timestamp"`
}

// Summary is the end-of-session performance summary. Generated at most
// once under normal flow; regeneration overwrites idempotently.
type Summary struct {
	OverallScore        string    `json:"overallScore"`
	Strengths           string    `json:"strengths"`
	Improvements        string    `json:"improvements"`
	Recommendations     string    `json:"recommendations"`
	TechnicalAssessment string    `json:"technicalAssessment"`
	QuestionCount       int       `json:"questionCount"`
	Role                string    `json:"role"`
	Difficulty          string    `json:"difficulty"`
	GeneratedAt         time.Time `json:"generatedAt"`
}
