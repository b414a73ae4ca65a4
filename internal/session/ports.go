package session

import (
	"context"

	"mockmate/internal/models"
)

// SpeechCapture abstracts the speech-to-text source. Start begins delivering
// final recognized segments to the callback until Stop is called.
type SpeechCapture interface {
	Start(onFinal func(segment string)) error
	Stop()
}

// FaceCounter abstracts the face-presence detector. Count reports how many
// faces the most recent camera frame contained.
type FaceCounter interface {
	Count(ctx context.Context) (int, error)
	Close() error
}

// QuestionSource loads the ordered question list for one interview.
type QuestionSource interface {
	Questions(ctx context.Context, interviewID, userID string) ([]models.Question, error)
}

// AnswerRecorder persists one question's answer state.
type AnswerRecorder interface {
	RecordAnswer(questionID, userID string, status models.AnswerStatus, answer, reason string) error
}

// Analyzer runs the final grading pass and returns the overall score.
type Analyzer interface {
	AnalyzeInterview(ctx context.Context, interviewID, userID string) (int, error)
}
