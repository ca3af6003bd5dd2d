package repositories

import (
	"context"
	"errors"

	"github.com/openformlab/form-server/apperr"
	"github.com/openformlab/form-server/config"
	"github.com/openformlab/form-server/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FormRepository is the persistence boundary for forms and their questions.
type FormRepository interface {
	// Create persists the form together with its questions; the whole
	// batch commits or rolls back as one.
	Create(ctx context.Context, form *models.Form) error
	FindByID(ctx context.Context, id uint) (*models.Form, error)
	FindAll(ctx context.Context) ([]models.Form, error)
	// QuestionIDs returns the ids of every question belonging to the form.
	QuestionIDs(ctx context.Context, formID uint) ([]uint, error)
	// Delete removes the form and cascades through its questions,
	// responses and their answers.
	Delete(ctx context.Context, id uint) error
}

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) Create(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := form.Questions
		form.Questions = nil
		if err := tx.Create(form).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].FormID = form.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		form.Questions = questions
		return nil
	})
}

func (r *formRepository) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	var form models.Form
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		First(&form, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("form %d", id)
	}
	if err != nil {
		config.Log.Error("form lookup failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindAll(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Order("id ASC").
		Find(&forms).Error
	if err != nil {
		config.Log.Error("form listing failed", zap.Error(err))
		return nil, err
	}
	return forms, nil
}

func (r *formRepository) QuestionIDs(ctx context.Context, formID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("form_id = ?", formID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *formRepository) Delete(ctx context.Context, id uint) error {
	// The schema carries ON DELETE CASCADE constraints; the explicit
	// child deletes keep the behavior identical when running against a
	// store that lacks them.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("form_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		var responseIDs []uint
		if err := tx.Model(&models.Response{}).Where("form_id = ?", id).Pluck("id", &responseIDs).Error; err != nil {
			return err
		}
		if len(responseIDs) > 0 {
			if err := tx.Where("response_id IN ?", responseIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("form_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Form{}, id).Error
	})
}
