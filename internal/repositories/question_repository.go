package repositories

import (
	"errors"

	"gorm.io/gorm"

	"mockmate/internal/models"
)

var ErrQuestionNotFound = errors.New("question not found")

type QuestionRepository struct {
	DB *gorm.DB
}

// RecordAnswer overwrites the question's answer state. Last write wins; the
// subquery scopes the update to interviews the caller owns, so an
// unauthorized or unknown question id affects zero rows.
func (r *QuestionRepository) RecordAnswer(questionID, userID string, status models.AnswerStatus, answer, reason string) error {
	owned := r.DB.Model(&models.Interview{}).
		Select("interview_id").
		Where("user_id = ?", userID)

	result := r.DB.Model(&models.Question{}).
		Where("question_id = ? AND interview_ref IN (?)", questionID, owned).
		Updates(map[string]any{
			"answer_status":     status,
			"user_answer":       answer,
			"disqualify_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// ListAnswered returns every question under the interview that carries a
// recorded outcome, disqualifications included.
func (r *QuestionRepository) ListAnswered(interviewID, userID string) ([]models.Question, error) {
	owned := r.DB.Model(&models.Interview{}).
		Select("interview_id").
		Where("user_id = ?", userID)

	questions := []models.Question{}
	err := r.DB.
		Where("interview_ref = ? AND interview_ref IN (?) AND answer_status <> ?",
			interviewID, owned, models.AnswerUnanswered).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

// SaveGrading persists the AI feedback and score for one question.
func (r *QuestionRepository) SaveGrading(questionID string, feedback *models.Feedback, score int) error {
	result := r.DB.Model(&models.Question{}).
		Where("question_id = ?", questionID).
		Updates(map[string]any{
			"ai_feedback": feedback,
			"score":       score,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
