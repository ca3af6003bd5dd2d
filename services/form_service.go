package services

import (
	"context"
	"errors"
	"strings"

	"github.com/openformlab/form-server/apperr"
	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/repositories"
)

type CreateQuestionInput struct {
	Text         string
	QuestionType string
	Options      models.OptionList
	Order        int
}

type CreateFormInput struct {
	Title     string
	UserID    uint
	Questions []CreateQuestionInput
}

// FormService holds the form-side business rules: the administrator
// authorization rule, the question-count ceiling and the cascade delete.
type FormService interface {
	Create(ctx context.Context, in CreateFormInput) (*models.Form, error)
	List(ctx context.Context, actingUserID uint) ([]models.Form, error)
	Get(ctx context.Context, id uint) (*models.Form, error)
	Delete(ctx context.Context, id uint) error
}

type formService struct {
	forms repositories.FormRepository
	users repositories.UserRepository
}

func NewFormService(forms repositories.FormRepository, users repositories.UserRepository) FormService {
	return &formService{forms: forms, users: users}
}

func (s *formService) Create(ctx context.Context, in CreateFormInput) (*models.Form, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validationf("title is required")
	}

	owner, err := s.users.FindByID(ctx, in.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		// A dangling owner reference is a payload problem, not a missing
		// resource on the request path.
		return nil, apperr.Validationf("user %d does not exist", in.UserID)
	}
	if err != nil {
		return nil, err
	}
	if !owner.IsSuperuser {
		return nil, apperr.Forbiddenf("user %d is not an administrator", owner.ID)
	}

	// Checked before anything is persisted, so an oversized batch never
	// reaches the store.
	if len(in.Questions) > models.MaxQuestionsPerForm {
		return nil, apperr.Validationf("a form cannot have more than %d questions", models.MaxQuestionsPerForm)
	}

	questions := make([]models.Question, 0, len(in.Questions))
	for _, q := range in.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, apperr.Validationf("question text is required")
		}
		if !models.ValidQuestionType(q.QuestionType) {
			return nil, apperr.Validationf("unknown question type %q", q.QuestionType)
		}
		if q.Order < 0 {
			return nil, apperr.Validationf("question order must not be negative")
		}
		questions = append(questions, models.Question{
			Text:         q.Text,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			Order:        q.Order, // kept verbatim, no re-numbering
		})
	}

	form := models.Form{
		Title:     in.Title,
		UserID:    &owner.ID,
		Questions: questions,
	}
	if err := s.forms.Create(ctx, &form); err != nil {
		return nil, err
	}
	if form.Questions == nil {
		form.Questions = []models.Question{}
	}
	return &form, nil
}

func (s *formService) List(ctx context.Context, actingUserID uint) ([]models.Form, error) {
	actor, err := s.users.FindByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperuser {
		return nil, apperr.Forbiddenf("user %d is not an administrator", actor.ID)
	}

	forms, err := s.forms.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		if forms[i].Questions == nil {
			forms[i].Questions = []models.Question{}
		}
	}
	return forms, nil
}

func (s *formService) Get(ctx context.Context, id uint) (*models.Form, error) {
	form, err := s.forms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.Questions == nil {
		form.Questions = []models.Question{}
	}
	return form, nil
}

func (s *formService) Delete(ctx context.Context, id uint) error {
	if _, err := s.forms.FindByID(ctx, id); err != nil {
		return err
	}
	return s.forms.Delete(ctx, id)
}
