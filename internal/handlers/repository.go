package handlers

import (
	"mockmate/internal/models"
)

// InterviewRepository captures the interview persistence operations required
// by handlers.
type InterviewRepository interface {
	CreateWithQuestions(interview *models.Interview, questionTexts []string) error
	GetByID(interviewID, userID string) (*models.Interview, error)
	GetInProgress(userID string) (*models.Interview, error)
	ListCompleted(userID string, limit int) ([]models.Interview, error)
	ListCompletedWithFeedback(userID string) ([]models.Interview, error)
	SetOverallScore(interviewID string, score int) error
}

// QuestionRepository captures the question persistence operations required
// by handlers.
type QuestionRepository interface {
	RecordAnswer(questionID, userID string, status models.AnswerStatus, answer, reason string) error
	ListAnswered(interviewID, userID string) ([]models.Question, error)
	SaveGrading(questionID string, feedback *models.Feedback, score int) error
}

// UserRepository captures the user persistence operations required by
// handlers.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateDisplayName(userID, displayName string) (*models.User, error)
}
