package repositories

import (
	"errors"

	"gorm.io/gorm"

	"mockmate/internal/models"
)

var ErrInterviewNotFound = errors.New("interview not found")

type InterviewRepository struct {
	DB *gorm.DB
}

// CreateWithQuestions inserts the interview row and then one question row per
// generated question string, in that order.
func (r *InterviewRepository) CreateWithQuestions(interview *models.Interview, questionTexts []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(interview).Error; err != nil {
			return err
		}
		questions := make([]models.Question, 0, len(questionTexts))
		for _, text := range questionTexts {
			questions = append(questions, models.Question{
				InterviewRef: interview.InterviewID,
				QuestionText: text,
			})
		}
		return tx.Create(&questions).Error
	})
}

// GetByID loads an interview with its questions, scoped to the owning user.
// Row-level ownership: an interview belonging to someone else is
// indistinguishable from a missing one.
func (r *InterviewRepository) GetByID(interviewID, userID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("interview_id = ? AND user_id = ?", interviewID, userID).First(&interview).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

// GetInProgress returns the most recent interview without an overall score,
// the one the dashboard offers to resume.
func (r *InterviewRepository) GetInProgress(userID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.DB.Where("user_id = ? AND overall_score IS NULL", userID).
		Order("created_at DESC").
		First(&interview).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

// ListCompleted returns the caller's completed interviews, newest first.
func (r *InterviewRepository) ListCompleted(userID string, limit int) ([]models.Interview, error) {
	interviews := []models.Interview{}
	q := r.DB.Where("user_id = ? AND overall_score IS NOT NULL", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&interviews).Error
	return interviews, err
}

// ListCompletedWithFeedback returns completed interviews ascending by
// creation time with their questions preloaded, for the analytics summary.
func (r *InterviewRepository) ListCompletedWithFeedback(userID string) ([]models.Interview, error) {
	interviews := []models.Interview{}
	err := r.DB.Preload("Questions").
		Where("user_id = ? AND overall_score IS NOT NULL", userID).
		Order("created_at ASC").
		Find(&interviews).Error
	return interviews, err
}

// SetOverallScore completes the interview.
func (r *InterviewRepository) SetOverallScore(interviewID string, score int) error {
	result := r.DB.Model(&models.Interview{}).
		Where("interview_id = ?", interviewID).
		Update("overall_score", score)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInterviewNotFound
	}
	return nil
}

// ReferencedResumeURLs returns every resume URL attached to an interview,
// used by the cleanup job to spot orphaned uploads.
func (r *InterviewRepository) ReferencedResumeURLs() (map[string]bool, error) {
	var urls []string
	err := r.DB.Model(&models.Interview{}).
		Where("resume_url <> ''").
		Pluck("resume_url", &urls).Error
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]bool, len(urls))
	for _, u := range urls {
		referenced[u] = true
	}
	return referenced, nil
}
