package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnswerStatus is the lifecycle of a question's answer. The legacy schema
// encoded disqualification as a sentinel prefix inside the answer text; the
// status column replaces that so the analysis path never string-matches.
type AnswerStatus string

const (
	AnswerUnanswered   AnswerStatus = "unanswered"
	AnswerRecorded     AnswerStatus = "answered"
	AnswerDisqualified AnswerStatus = "disqualified"
)

// Interview is one practice session. A null OverallScore means the interview
// is still in progress; setting it completes the session.
type Interview struct {
	gorm.Model
	InterviewID    string `gorm:"uniqueIndex;size:36;not null" json:"interviewId"`
	UserID         string `gorm:"index;size:36;not null" json:"userId"`
	JobDescription string `gorm:"type:text;not null" json:"jobDescription"`
	Difficulty     string `gorm:"not null" json:"difficulty"`
	ResumeURL      string `json:"resumeUrl,omitempty"`
	OverallScore   *int   `json:"overallScore"`

	Questions []Question `gorm:"foreignKey:InterviewRef;references:InterviewID" json:"questions,omitempty"`
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.InterviewID == "" {
		i.InterviewID = uuid.New().String()
	}
	return nil
}

// Completed reports whether the final analysis has been run.
func (i *Interview) Completed() bool { return i.OverallScore != nil }

// Question is one interview prompt plus the user's eventual answer and the
// AI-generated feedback for it.
type Question struct {
	gorm.Model
	QuestionID       string       `gorm:"uniqueIndex;size:36;not null" json:"questionId"`
	InterviewRef     string       `gorm:"index;size:36;not null" json:"interviewId"`
	QuestionText     string       `gorm:"type:text;not null" json:"questionText"`
	AnswerStatus     AnswerStatus `gorm:"not null;default:unanswered" json:"answerStatus"`
	UserAnswer       string       `gorm:"type:text" json:"userAnswer"`
	DisqualifyReason string       `json:"disqualifyReason,omitempty"`
	AIFeedback       *Feedback    `gorm:"type:text" json:"aiFeedback"`
	Score            *int         `json:"score"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.QuestionID == "" {
		q.QuestionID = uuid.New().String()
	}
	if q.AnswerStatus == "" {
		q.AnswerStatus = AnswerUnanswered
	}
	return nil
}

// Answered reports whether the question carries any recorded outcome,
// including a disqualification.
func (q *Question) Answered() bool { return q.AnswerStatus != AnswerUnanswered }

// Gradable reports whether the answer should be sent to the AI grader.
func (q *Question) Gradable() bool { return q.AnswerStatus == AnswerRecorded }

// Feedback is the structured grading result for a single answer.
type Feedback struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// Value / Scan store Feedback as a JSON text column, portable across
// postgres and the sqlite test databases.
func (f Feedback) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	return string(b), err
}

func (f *Feedback) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return errors.New("feedback: unsupported scan type")
	}
}
