package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type TemplateHandler struct {
	svc *services.TemplateService
}

func NewTemplateHandler(db *gorm.DB) (*TemplateHandler, error) {
	svc, err := services.NewTemplateService(db)
	if err != nil {
		return nil, err
	}
	return &TemplateHandler{svc: svc}, nil
}

type createTemplateRequest struct {
	Name           string                      `json:"name" validate:"required,min=2,max=128"`
	Description    string                      `json:"description" validate:"omitempty,max=2048"`
	Questions      []services.TemplateQuestion `json:"questions"`
	Sections       []string                    `json:"sections"`
	RatingCriteria map[string]string           `json:"rating_criteria"`
}

type updateTemplateRequest struct {
	Name           *string                     `json:"name" validate:"omitempty,min=2,max=128"`
	Description    *string                     `json:"description" validate:"omitempty,max=2048"`
	Questions      []services.TemplateQuestion `json:"questions"`
	Sections       []string                    `json:"sections"`
	RatingCriteria map[string]string           `json:"rating_criteria"`
}

// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body createTemplateRequest
	if !bindAndValidate(c, &body) {
		return
	}

	template, err := h.svc.Create(requestContext(c), scope, services.CreateTemplateInput{
		Name:           body.Name,
		Description:    body.Description,
		Questions:      body.Questions,
		Sections:       body.Sections,
		RatingCriteria: body.RatingCriteria,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, template)
}

// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	templates, err := h.svc.List(requestContext(c), scope, c.Query("published") == "true")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, templates)
}

// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	template, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}

// PATCH /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body updateTemplateRequest
	if !bindAndValidate(c, &body) {
		return
	}

	template, err := h.svc.Update(requestContext(c), scope, c.Param("id"), services.UpdateTemplateInput{
		Name:           body.Name,
		Description:    body.Description,
		Questions:      body.Questions,
		Sections:       body.Sections,
		RatingCriteria: body.RatingCriteria,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}

// POST /api/templates/:id/publish
func (h *TemplateHandler) Publish(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	template, err := h.svc.Publish(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}

// POST /api/templates/:id/unpublish
func (h *TemplateHandler) Unpublish(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	template, err := h.svc.Unpublish(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}

// POST /api/templates/:id/set-default
func (h *TemplateHandler) SetDefault(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	template, err := h.svc.SetDefault(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}
