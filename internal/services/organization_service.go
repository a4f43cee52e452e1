package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// CreateOrganizationInput captures the attributes of a new tenant.
type CreateOrganizationInput struct {
	Name         string
	Slug         string
	Website      string
	Industry     string
	Size         string
	Description  string
	Plan         models.Plan
	ContactEmail string
	ContactPhone string
	Address      string
}

// UpdateOrganizationInput carries optional organization updates. Nil fields
// are left untouched.
type UpdateOrganizationInput struct {
	Name         *string
	Website      *string
	Industry     *string
	Size         *string
	Description  *string
	Plan         *models.Plan
	MaxUsers     *int
	MaxJobs      *int
	ContactEmail *string
	ContactPhone *string
	Address      *string
	IsActive     *bool
}

// OrganizationListOptions controls pagination for tenant listings.
type OrganizationListOptions struct {
	Page     int
	PageSize int
	Search   string
}

// OrganizationService manages tenants. Creation and listing are platform
// operations; members may read and update their own organization.
type OrganizationService struct {
	db *gorm.DB
}

// NewOrganizationService constructs an OrganizationService instance.
func NewOrganizationService(db *gorm.DB) (*OrganizationService, error) {
	if db == nil {
		return nil, errors.New("organization service: db is required")
	}
	return &OrganizationService{db: db}, nil
}

// Create registers a new organization with plan-derived quotas.
func (s *OrganizationService) Create(ctx context.Context, input CreateOrganizationInput) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("organization service: name is required")
	}
	slug := normaliseSlug(input.Slug)
	if slug == "" {
		slug = normaliseSlug(name)
	}
	if slug == "" {
		return nil, errors.New("organization service: slug is required")
	}

	plan := input.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	maxUsers, maxJobs := planQuotas(plan)

	org := &models.Organization{
		Name:         name,
		Slug:         slug,
		Website:      strings.TrimSpace(input.Website),
		Industry:     strings.TrimSpace(input.Industry),
		Size:         strings.TrimSpace(input.Size),
		Description:  strings.TrimSpace(input.Description),
		Plan:         plan,
		IsActive:     true,
		MaxUsers:     maxUsers,
		MaxJobs:      maxJobs,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Address:      strings.TrimSpace(input.Address),
	}

	if err := s.db.WithContext(ctx).Create(org).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("organization service: slug %q already taken", slug)
		}
		return nil, fmt.Errorf("organization service: create organization: %w", err)
	}

	return org, nil
}

// GetByID loads an organization visible to the caller.
func (s *OrganizationService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	if !scope.IsPlatformAdmin() && scope.OrganizationID != id {
		return nil, ErrOrganizationNotFound
	}

	var org models.Organization
	err := s.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organization service: load organization: %w", err)
	}
	return &org, nil
}

// GetBySlug resolves an organization by its public slug.
func (s *OrganizationService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	var org models.Organization
	err := s.db.WithContext(ctx).First(&org, "slug = ?", normaliseSlug(slug)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organization service: load organization: %w", err)
	}
	return &org, nil
}

// List returns organizations. Non-platform callers only ever see their own.
func (s *OrganizationService) List(ctx context.Context, scope AccessScope, opts OrganizationListOptions) ([]models.Organization, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Organization{})
	if !scope.IsPlatformAdmin() {
		query = query.Where("id = ?", scope.OrganizationID)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("organization service: count organizations: %w", err)
	}

	var orgs []models.Organization
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orgs).Error; err != nil {
		return nil, 0, fmt.Errorf("organization service: list organizations: %w", err)
	}

	return orgs, total, nil
}

// Update applies partial updates. Plan and quota changes are restricted to
// platform admins.
func (s *OrganizationService) Update(ctx context.Context, scope AccessScope, id string, input UpdateOrganizationInput) (*models.Organization, error) {
	ctx = ensureContext(ctx)

	org, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Website != nil {
		updates["website"] = strings.TrimSpace(*input.Website)
	}
	if input.Industry != nil {
		updates["industry"] = strings.TrimSpace(*input.Industry)
	}
	if input.Size != nil {
		updates["size"] = strings.TrimSpace(*input.Size)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = strings.TrimSpace(*input.ContactEmail)
	}
	if input.ContactPhone != nil {
		updates["contact_phone"] = strings.TrimSpace(*input.ContactPhone)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}

	if scope.IsPlatformAdmin() {
		if input.Plan != nil {
			updates["plan"] = *input.Plan
		}
		if input.MaxUsers != nil {
			updates["max_users"] = *input.MaxUsers
		}
		if input.MaxJobs != nil {
			updates["max_jobs"] = *input.MaxJobs
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
	}

	if len(updates) == 0 {
		return org, nil
	}

	if err := s.db.WithContext(ctx).Model(org).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("organization service: update organization: %w", err)
	}

	return s.GetByID(ctx, scope, id)
}

// planQuotas maps a plan to its seat and posting quotas.
func planQuotas(plan models.Plan) (maxUsers, maxJobs int) {
	switch plan {
	case models.PlanStarter:
		return 15, 25
	case models.PlanProfessional:
		return 50, 100
	case models.PlanEnterprise:
		return 500, 1000
	default:
		return 5, 10
	}
}

func normaliseSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = strings.ReplaceAll(slug, " ", "-")
	return strings.Trim(slug, "-")
}
