package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/services"
)

type ResponseController struct {
	responses services.ResponseService
}

func NewResponseController(responses services.ResponseService) *ResponseController {
	return &ResponseController{responses: responses}
}

type answerSpec struct {
	Question        uint             `json:"question" binding:"required"`
	AnswerText      *string          `json:"answer_text"`
	SelectedOptions models.OptionSet `json:"selected_options"`
}

type submitResponseReq struct {
	Answers []answerSpec `json:"answers"`
}

// POST /forms/:form_id/responses/
func (rc *ResponseController) Submit(c *gin.Context) {
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req submitResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
		return
	}

	in := services.SubmitResponseInput{}
	for _, a := range req.Answers {
		in.Answers = append(in.Answers, services.AnswerInput{
			QuestionID:      a.Question,
			AnswerText:      a.AnswerText,
			SelectedOptions: a.SelectedOptions,
		})
	}

	response, err := rc.responses.Submit(c.Request.Context(), formID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}
