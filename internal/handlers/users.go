package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	svc, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	return &UserHandler{svc: svc}, nil
}

type createUserRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"required,max=64"`
	LastName       string `json:"last_name" validate:"required,max=64"`
	Phone          string `json:"phone" validate:"omitempty,max=32"`
	Role           string `json:"role" validate:"omitempty,oneof=platform_admin admin hr_manager recruiter hiring_manager interviewer"`
	OrganizationID string `json:"organization_id" validate:"omitempty,uuid"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=64"`
	LastName  *string `json:"last_name" validate:"omitempty,max=64"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Role      *string `json:"role" validate:"omitempty,oneof=platform_admin admin hr_manager recruiter hiring_manager interviewer"`
	IsActive  *bool   `json:"is_active"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body createUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.CreateUserInput{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
		Role:      models.Role(body.Role),
	}
	if body.OrganizationID != "" {
		input.OrganizationID = &body.OrganizationID
	}

	user, err := h.svc.Create(requestContext(c), scope, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	users, total, err := h.svc.List(requestContext(c), scope, services.UserListOptions{
		Page:     page,
		PageSize: perPage,
		Role:     models.Role(c.Query("role")),
		Search:   c.Query("search"),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, response.NewMeta(page, perPage, total))
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	user, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body updateUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.UpdateUserInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
		IsActive:  body.IsActive,
	}
	if body.Role != nil {
		role := models.Role(*body.Role)
		input.Role = &role
	}

	user, err := h.svc.Update(requestContext(c), scope, c.Param("id"), input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// POST /api/users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body changePasswordRequest
	if !bindAndValidate(c, &body) {
		return
	}

	err := h.svc.ChangePassword(requestContext(c), scope, scope.UserID, body.CurrentPassword, body.NewPassword)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}
