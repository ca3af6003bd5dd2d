package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/services"
)

type FormController struct {
	forms     services.FormService
	analytics services.AnalyticsService
}

func NewFormController(forms services.FormService, analytics services.AnalyticsService) *FormController {
	return &FormController{forms: forms, analytics: analytics}
}

type questionSpec struct {
	Text         string            `json:"text" binding:"required"`
	QuestionType string            `json:"question_type" binding:"required"`
	Options      models.OptionList `json:"options"`
	Order        int               `json:"order"`
}

type createFormReq struct {
	Title     string         `json:"title" binding:"required,min=1"`
	User      uint           `json:"user" binding:"required"`
	Questions []questionSpec `json:"questions"`
}

// POST /forms/
func (fc *FormController) Create(c *gin.Context) {
	var req createFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
		return
	}

	in := services.CreateFormInput{
		Title:  req.Title,
		UserID: req.User,
	}
	for _, q := range req.Questions {
		in.Questions = append(in.Questions, services.CreateQuestionInput{
			Text:         q.Text,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			Order:        q.Order,
		})
	}

	form, err := fc.forms.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, form)
}

// GET /forms/list/?user_id=ID
func (fc *FormController) List(c *gin.Context) {
	raw := c.Query("user_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a positive integer"})
		return
	}

	forms, err := fc.forms.List(c.Request.Context(), uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, forms)
}

// GET /forms/:form_id
func (fc *FormController) Detail(c *gin.Context) {
	id, ok := formIDParam(c)
	if !ok {
		return
	}

	form, err := fc.forms.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// DELETE /forms/:form_id (admin-only)
func (fc *FormController) Delete(c *gin.Context) {
	id, ok := formIDParam(c)
	if !ok {
		return
	}

	if err := fc.forms.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GET /forms/:form_id/analytics/
func (fc *FormController) Analytics(c *gin.Context) {
	id, ok := formIDParam(c)
	if !ok {
		return
	}

	report, err := fc.analytics.Report(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func formIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("form_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return 0, false
	}
	return uint(id), true
}
