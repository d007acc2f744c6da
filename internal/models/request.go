package models

import (
	"strings"
)

type CreateSessionRequest struct {
	JobRole     string `json:"jobRole"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description,omitempty"`
}

// implements the Validator interface
func (r *CreateSessionRequest) Validate() error {
	r.JobRole = strings.TrimSpace(r.JobRole)
	if r.JobRole == "" {
		return &ErrorResponse{
			Code:    "missing_role",
			Message: "Job role is required",
		}
	}
	if len(r.JobRole) > MaxRoleLength {
		return &ErrorResponse{
			Code:    "role_too_long",
			Message: "Job role must be at most 100 characters",
		}
	}
	if !ValidDifficulty(r.Difficulty) {
		return &ErrorResponse{
			Code:    "invalid_difficulty",
			Message: "Difficulty must be one of: easy, medium, hard",
		}
	}
	if len(r.Description) > MaxDescriptionLength {
		return &ErrorResponse{
			Code:    "description_too_long",
			Message: "Description must be at most 500 characters",
		}
	}
	return nil
}

type AppendQARequest struct {
	Question   string      `json:"question"`
	Answer     string      `json:"answer"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

func (r *AppendQARequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return &ErrorResponse{Code: "missing_question", Message: "Question is required"}
	}
	if strings.TrimSpace(r.Answer) == "" {
		return &ErrorResponse{Code: "missing_answer", Message: "Answer is required"}
	}
	if len(r.Answer) > MaxAnswerLength {
		return &ErrorResponse{Code: "answer_too_long", Message: "Answer must be at most 5000 characters"}
	}
	return nil
}

// UpdateSessionRequest applies a partial update to a session. Questions and
// answers replace the stored arrays rather than appending to them.
type UpdateSessionRequest struct {
	Questions   *[]string `json:"questions,omitempty"`
	Answers     *[]string `json:"answers,omitempty"`
	Summary     *Summary  `json:"summary,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	Description *string   `json:"description,omitempty"`
}

func (r *UpdateSessionRequest) Validate() error {
	if r.Questions != nil && r.Answers != nil && len(*r.Questions) != len(*r.Answers) {
		return &ErrorResponse{
			Code:    "mismatched_arrays",
			Message: "Questions and answers must have the same length",
		}
	}
	if r.Description != nil && len(*r.Description) > MaxDescriptionLength {
		return &ErrorResponse{
			Code:    "description_too_long",
			Message: "Description must be at most 500 characters",
		}
	}
	return nil
}

type GenerateQuestionRequest struct {
	JobRole    string `json:"jobRole"`
	Difficulty string `json:"difficulty"`
	Context    string `json:"context,omitempty"`
}

func (r *GenerateQuestionRequest) Validate() error {
	r.JobRole = strings.TrimSpace(r.JobRole)
	if r.JobRole == "" {
		return &ErrorResponse{Code: "missing_role", Message: "Job role is required"}
	}
	if len(r.JobRole) > MaxRoleLength {
		return &ErrorResponse{Code: "role_too_long", Message: "Job role must be at most 100 characters"}
	}
	if !ValidDifficulty(r.Difficulty) {
		return &ErrorResponse{
			Code:    "invalid_difficulty",
			Message: "Difficulty must be one of: easy, medium, hard",
		}
	}
	return nil
}

type EvaluateAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	JobRole  string `json:"jobRole"`
}

func (r *EvaluateAnswerRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return &ErrorResponse{Code: "missing_question", Message: "Question is required"}
	}
	if strings.TrimSpace(r.Answer) == "" {
		return &ErrorResponse{Code: "missing_answer", Message: "Answer is required"}
	}
	if len(r.Answer) > MaxAnswerLength {
		return &ErrorResponse{Code: "answer_too_long", Message: "Answer must be at most 5000 characters"}
	}
	if strings.TrimSpace(r.JobRole) == "" {
		return &ErrorResponse{Code: "missing_role", Message: "Job role is required"}
	}
	return nil
}
