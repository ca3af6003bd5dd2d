package repositories

import (
	"context"

	"github.com/openformlab/form-server/config"
	"github.com/openformlab/form-server/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResponseRepository is the persistence boundary for responses and answers.
type ResponseRepository interface {
	// Create persists the response together with its answers atomically.
	Create(ctx context.Context, response *models.Response) error
	CountByForm(ctx context.Context, formID uint) (int64, error)
	AnswersByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(ctx context.Context, response *models.Response) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := response.Answers
		response.Answers = nil
		if err := tx.Create(response).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ResponseID = response.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		response.Answers = answers
		return nil
	})
}

func (r *responseRepository) CountByForm(ctx context.Context, formID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Response{}).
		Where("form_id = ?", formID).
		Count(&count).Error
	return count, err
}

func (r *responseRepository) AnswersByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&answers).Error
	if err != nil {
		config.Log.Error("answer listing failed", zap.Uint("question_id", questionID), zap.Error(err))
		return nil, err
	}
	return answers, nil
}
