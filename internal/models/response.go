package models

import "time"

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *ErrorResponse) Error() string { return e.Message }

type GenerateResponse struct {
	InterviewID string `json:"interviewId"`
}

type AnswerResponse struct {
	Success bool `json:"success"`
}

type AnalyzeResponse struct {
	Success      bool `json:"success"`
	OverallScore int  `json:"overallScore"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// AnalyticsEntry is one completed interview in the caller's history,
// ascending by creation time.
type AnalyticsEntry struct {
	CreatedAt    time.Time           `json:"created_at"`
	OverallScore int                 `json:"overall_score"`
	Questions    []AnalyticsFeedback `json:"questions"`
}

type AnalyticsFeedback struct {
	AIFeedback *Feedback `json:"ai_feedback"`
}

// DashboardResponse backs the dashboard screen: the resumable in-progress
// interview, if any, plus the most recent completed sessions.
type DashboardResponse struct {
	InProgress *InterviewSummary  `json:"inProgress"`
	Recent     []InterviewSummary `json:"recent"`
}

type InterviewSummary struct {
	InterviewID    string    `json:"interviewId"`
	JobDescription string    `json:"jobDescription"`
	Difficulty     string    `json:"difficulty"`
	OverallScore   *int      `json:"overallScore"`
	CreatedAt      time.Time `json:"createdAt"`
}
