package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type DepartmentHandler struct {
	svc *services.DepartmentService
}

func NewDepartmentHandler(db *gorm.DB) (*DepartmentHandler, error) {
	svc, err := services.NewDepartmentService(db)
	if err != nil {
		return nil, err
	}
	return &DepartmentHandler{svc: svc}, nil
}

type createDepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Description string `json:"description" validate:"omitempty,max=2048"`
	ManagerID   string `json:"manager_id" validate:"omitempty,uuid"`
}

type updateDepartmentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=128"`
	Description *string `json:"description" validate:"omitempty,max=2048"`
	ManagerID   *string `json:"manager_id"`
}

// POST /api/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body createDepartmentRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.CreateDepartmentInput{
		Name:        body.Name,
		Description: body.Description,
	}
	if body.ManagerID != "" {
		input.ManagerID = &body.ManagerID
	}

	dept, err := h.svc.Create(requestContext(c), scope, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dept)
}

// GET /api/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	depts, err := h.svc.List(requestContext(c), scope)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, depts)
}

// GET /api/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	dept, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dept)
}

// PATCH /api/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body updateDepartmentRequest
	if !bindAndValidate(c, &body) {
		return
	}

	dept, err := h.svc.Update(requestContext(c), scope, c.Param("id"), services.UpdateDepartmentInput{
		Name:        body.Name,
		Description: body.Description,
		ManagerID:   body.ManagerID,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dept)
}

// DELETE /api/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(requestContext(c), scope, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
