package session

import (
	"context"

	"mockmate/internal/models"
	"mockmate/internal/repositories"
)

// RepoQuestionSource reads the question list through the interview
// repository, keeping the ownership scoping it enforces.
type RepoQuestionSource struct {
	Interviews *repositories.InterviewRepository
}

func (s RepoQuestionSource) Questions(ctx context.Context, interviewID, userID string) ([]models.Question, error) {
	interview, err := s.Interviews.GetByID(interviewID, userID)
	if err != nil {
		return nil, err
	}
	return interview.Questions, nil
}

// RepoAnswerRecorder persists answers through the question repository.
type RepoAnswerRecorder struct {
	Questions *repositories.QuestionRepository
}

func (r RepoAnswerRecorder) RecordAnswer(questionID, userID string, status models.AnswerStatus, answer, reason string) error {
	return r.Questions.RecordAnswer(questionID, userID, status, answer, reason)
}
