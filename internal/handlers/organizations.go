package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type OrganizationHandler struct {
	svc *services.OrganizationService
}

func NewOrganizationHandler(db *gorm.DB) (*OrganizationHandler, error) {
	svc, err := services.NewOrganizationService(db)
	if err != nil {
		return nil, err
	}
	return &OrganizationHandler{svc: svc}, nil
}

type createOrganizationRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=128"`
	Slug         string `json:"slug" validate:"omitempty,min=2,max=64"`
	Website      string `json:"website" validate:"omitempty,url"`
	Industry     string `json:"industry" validate:"omitempty,max=128"`
	Size         string `json:"size" validate:"omitempty,max=32"`
	Description  string `json:"description" validate:"omitempty,max=2048"`
	Plan         string `json:"plan" validate:"omitempty,oneof=free starter professional enterprise"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=32"`
	Address      string `json:"address" validate:"omitempty,max=512"`
}

type updateOrganizationRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=128"`
	Website      *string `json:"website" validate:"omitempty,url"`
	Industry     *string `json:"industry" validate:"omitempty,max=128"`
	Size         *string `json:"size" validate:"omitempty,max=32"`
	Description  *string `json:"description" validate:"omitempty,max=2048"`
	Plan         *string `json:"plan" validate:"omitempty,oneof=free starter professional enterprise"`
	MaxUsers     *int    `json:"max_users" validate:"omitempty,gte=1"`
	MaxJobs      *int    `json:"max_jobs" validate:"omitempty,gte=1"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=32"`
	Address      *string `json:"address" validate:"omitempty,max=512"`
	IsActive     *bool   `json:"is_active"`
}

// POST /api/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var body createOrganizationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	org, err := h.svc.Create(requestContext(c), services.CreateOrganizationInput{
		Name:         body.Name,
		Slug:         body.Slug,
		Website:      body.Website,
		Industry:     body.Industry,
		Size:         body.Size,
		Description:  body.Description,
		Plan:         models.Plan(body.Plan),
		ContactEmail: body.ContactEmail,
		ContactPhone: body.ContactPhone,
		Address:      body.Address,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, org)
}

// GET /api/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	orgs, total, err := h.svc.List(requestContext(c), scope, services.OrganizationListOptions{
		Page:     page,
		PageSize: perPage,
		Search:   c.Query("search"),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, orgs, response.NewMeta(page, perPage, total))
}

// GET /api/organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	org, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, org)
}

// PATCH /api/organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body updateOrganizationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.UpdateOrganizationInput{
		Name:         body.Name,
		Website:      body.Website,
		Industry:     body.Industry,
		Size:         body.Size,
		Description:  body.Description,
		MaxUsers:     body.MaxUsers,
		MaxJobs:      body.MaxJobs,
		ContactEmail: body.ContactEmail,
		ContactPhone: body.ContactPhone,
		Address:      body.Address,
		IsActive:     body.IsActive,
	}
	if body.Plan != nil {
		plan := models.Plan(*body.Plan)
		input.Plan = &plan
	}

	org, err := h.svc.Update(requestContext(c), scope, c.Param("id"), input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, org)
}
