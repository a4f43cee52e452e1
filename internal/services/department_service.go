package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// CreateDepartmentInput captures a new department, unique by name per
// organization.
type CreateDepartmentInput struct {
	Name        string
	Description string
	ManagerID   *string
}

// UpdateDepartmentInput carries optional department updates.
type UpdateDepartmentInput struct {
	Name        *string
	Description *string
	ManagerID   *string
}

// DepartmentService manages the department directory of an organization.
type DepartmentService struct {
	db *gorm.DB
}

// NewDepartmentService constructs a DepartmentService instance.
func NewDepartmentService(db *gorm.DB) (*DepartmentService, error) {
	if db == nil {
		return nil, errors.New("department service: db is required")
	}
	return &DepartmentService{db: db}, nil
}

// Create registers a department in the caller's organization.
func (s *DepartmentService) Create(ctx context.Context, scope AccessScope, input CreateDepartmentInput) (*models.Department, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("department service: name is required")
	}
	if scope.OrganizationID == "" {
		return nil, ErrOrganizationNotFound
	}

	dept := &models.Department{
		OrganizationID: scope.OrganizationID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		ManagerID:      input.ManagerID,
	}

	if err := s.db.WithContext(ctx).Create(dept).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("department service: department %q already exists", name)
		}
		return nil, fmt.Errorf("department service: create department: %w", err)
	}

	return dept, nil
}

// GetByID loads a department within the caller's scope.
func (s *DepartmentService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.Department, error) {
	ctx = ensureContext(ctx)

	var dept models.Department
	err := scopedByOrg(s.db.WithContext(ctx), scope).
		Preload("Manager").
		First(&dept, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("department service: load department: %w", err)
	}
	return &dept, nil
}

// List returns departments alphabetically within the caller's scope.
func (s *DepartmentService) List(ctx context.Context, scope AccessScope) ([]models.Department, error) {
	ctx = ensureContext(ctx)

	var depts []models.Department
	err := scopedByOrg(s.db.WithContext(ctx), scope).
		Preload("Manager").
		Order("name ASC").
		Find(&depts).Error
	if err != nil {
		return nil, fmt.Errorf("department service: list departments: %w", err)
	}
	return depts, nil
}

// Update applies partial updates to a department.
func (s *DepartmentService) Update(ctx context.Context, scope AccessScope, id string, input UpdateDepartmentInput) (*models.Department, error) {
	ctx = ensureContext(ctx)

	dept, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errors.New("department service: name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ManagerID != nil {
		updates["manager_id"] = nilIfEmpty(*input.ManagerID)
	}

	if len(updates) == 0 {
		return dept, nil
	}

	if err := s.db.WithContext(ctx).Model(dept).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("department service: department name already exists")
		}
		return nil, fmt.Errorf("department service: update department: %w", err)
	}

	return s.GetByID(ctx, scope, id)
}

// Delete removes a department. Jobs keep a dangling reference cleared here.
func (s *DepartmentService) Delete(ctx context.Context, scope AccessScope, id string) error {
	ctx = ensureContext(ctx)

	dept, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Job{}).
			Where("department_id = ?", dept.ID).
			Update("department_id", nil).Error; err != nil {
			return fmt.Errorf("department service: detach jobs: %w", err)
		}
		return tx.Delete(dept).Error
	})
}
