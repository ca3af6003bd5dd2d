package services

import (
	"context"

	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/repositories"
)

// AnswerDetail is one stored answer, reported verbatim.
type AnswerDetail struct {
	ID      uint             `json:"id"`
	Text    *string          `json:"text"`
	Options models.OptionSet `json:"options"`
}

type QuestionReport struct {
	QuestionText  string         `json:"question_text"`
	ResponseCount int64          `json:"response_count"`
	Answers       []AnswerDetail `json:"answers"`
}

type FormReport struct {
	FormID         uint             `json:"form_id"`
	FormTitle      string           `json:"form_title"`
	TotalResponses int64            `json:"total_responses"`
	Questions      []QuestionReport `json:"questions"`
}

// AnalyticsService reduces a form's stored answers into a report. The
// report is a flat enumeration per question, not a histogram.
type AnalyticsService interface {
	Report(ctx context.Context, formID uint) (*FormReport, error)
}

type analyticsService struct {
	forms     repositories.FormRepository
	responses repositories.ResponseRepository
}

func NewAnalyticsService(forms repositories.FormRepository, responses repositories.ResponseRepository) AnalyticsService {
	return &analyticsService{forms: forms, responses: responses}
}

func (s *analyticsService) Report(ctx context.Context, formID uint) (*FormReport, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	total, err := s.responses.CountByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	report := &FormReport{
		FormID:         form.ID,
		FormTitle:      form.Title,
		TotalResponses: total,
		Questions:      []QuestionReport{},
	}

	// form.Questions comes back in stored order.
	for _, q := range form.Questions {
		answers, err := s.responses.AnswersByQuestion(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		details := make([]AnswerDetail, 0, len(answers))
		for _, a := range answers {
			details = append(details, AnswerDetail{
				ID:      a.ID,
				Text:    a.AnswerText,
				Options: a.SelectedOptions,
			})
		}
		report.Questions = append(report.Questions, QuestionReport{
			QuestionText:  q.Text,
			ResponseCount: int64(len(answers)),
			Answers:       details,
		})
	}

	return report, nil
}
