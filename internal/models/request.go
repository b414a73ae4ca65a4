package models

import "strings"

type GenerateRequest struct {
	JobDescription string `json:"jobDescription"`
	Difficulty     string `json:"difficulty"`
}

// implements the Validator interface
func (r *GenerateRequest) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return &ErrorResponse{
			Code:    "missing_job_description",
			Message: "Job description field is required",
		}
	}
	if r.Difficulty == "" {
		return &ErrorResponse{
			Code:    "missing_difficulty",
			Message: "Difficulty field is required",
		}
	}
	// Unknown difficulty values are coerced to Medium downstream rather than
	// rejected here. Flagged for product confirmation in DESIGN.md.
	return nil
}

type AnswerRequest struct {
	QuestionID string  `json:"questionId"`
	UserAnswer *string `json:"userAnswer"`
	// Disqualified marks the answer as a proctoring violation. The legacy
	// sentinel prefix inside UserAnswer is also accepted.
	Disqualified bool   `json:"disqualified,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

func (r *AnswerRequest) Validate() error {
	if r.QuestionID == "" {
		return &ErrorResponse{
			Code:    "missing_question_id",
			Message: "Question ID field is required",
		}
	}
	// The empty string is a valid answer; only an absent field is rejected.
	if r.UserAnswer == nil && !r.Disqualified {
		return &ErrorResponse{
			Code:    "missing_user_answer",
			Message: "User answer field is required",
		}
	}
	return nil
}

// Outcome resolves the wire form into the tagged answer status.
func (r *AnswerRequest) Outcome() (status AnswerStatus, answer, reason string) {
	if r.Disqualified {
		return AnswerDisqualified, "", r.Reason
	}
	text := *r.UserAnswer
	if strings.HasPrefix(text, DisqualifiedPrefix) {
		reason = strings.TrimPrefix(text, DisqualifiedPrefix)
		reason = strings.Trim(reason, ":] ")
		return AnswerDisqualified, "", reason
	}
	return AnswerRecorded, text, ""
}

type AnalyzeRequest struct {
	InterviewID string `json:"interviewId"`
}

func (r *AnalyzeRequest) Validate() error {
	if r.InterviewID == "" {
		return &ErrorResponse{
			Code:    "missing_interview_id",
			Message: "Interview ID field is required",
		}
	}
	return nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if r.Username == "" || r.Email == "" || r.Password == "" {
		return &ErrorResponse{
			Code:    "missing_fields",
			Message: "Username, email and password are required",
		}
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return &ErrorResponse{
			Code:    "missing_fields",
			Message: "Username and password are required",
		}
	}
	return nil
}

type ProfileUpdateRequest struct {
	DisplayName string `json:"displayName"`
}

func (r *ProfileUpdateRequest) Validate() error {
	if strings.TrimSpace(r.DisplayName) == "" {
		return &ErrorResponse{
			Code:    "missing_display_name",
			Message: "Display name field is required",
		}
	}
	return nil
}
