package services

import (
	"context"

	"github.com/openformlab/form-server/apperr"
	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/repositories"
)

type AnswerInput struct {
	QuestionID      uint
	AnswerText      *string
	SelectedOptions models.OptionSet
}

type SubmitResponseInput struct {
	Answers []AnswerInput
}

// ResponseService accepts end-user submissions.
type ResponseService interface {
	Submit(ctx context.Context, formID uint, in SubmitResponseInput) (*models.Response, error)
}

type responseService struct {
	forms     repositories.FormRepository
	responses repositories.ResponseRepository
}

func NewResponseService(forms repositories.FormRepository, responses repositories.ResponseRepository) ResponseService {
	return &responseService{forms: forms, responses: responses}
}

func (s *responseService) Submit(ctx context.Context, formID uint, in SubmitResponseInput) (*models.Response, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	// Every answer must target a question of this form; a submission
	// pointing at a foreign question is rejected as a whole.
	owned := make(map[uint]struct{}, len(form.Questions))
	for _, q := range form.Questions {
		owned[q.ID] = struct{}{}
	}
	answers := make([]models.Answer, 0, len(in.Answers))
	for _, a := range in.Answers {
		if _, ok := owned[a.QuestionID]; !ok {
			return nil, apperr.Validationf("question %d does not belong to form %d", a.QuestionID, formID)
		}
		answers = append(answers, models.Answer{
			QuestionID:      a.QuestionID,
			AnswerText:      a.AnswerText,
			SelectedOptions: a.SelectedOptions,
		})
	}

	response := models.Response{
		FormID:  formID,
		Answers: answers,
	}
	if err := s.responses.Create(ctx, &response); err != nil {
		return nil, err
	}
	if response.Answers == nil {
		response.Answers = []models.Answer{}
	}
	return &response, nil
}
