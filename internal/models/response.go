package models

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// lets validation return ErrorResponse values directly as errors
func (e *ErrorResponse) Error() string {
	return e.Message
}

// EndSessionResponse is returned when a session is finalized.
type EndSessionResponse struct {
	Session *InterviewSession `json:"session"`
	Summary *Summary          `json:"summary"`
	Message string            `json:"message"`
}
