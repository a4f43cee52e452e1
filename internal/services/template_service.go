package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// TemplateQuestion is one prompt inside a feedback template.
type TemplateQuestion struct {
	Prompt   string `json:"prompt"`
	Section  string `json:"section,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// CreateTemplateInput captures a new feedback template.
type CreateTemplateInput struct {
	Name           string
	Description    string
	Questions      []TemplateQuestion
	Sections       []string
	RatingCriteria map[string]string
}

// UpdateTemplateInput carries optional template updates. Published templates
// may only be renamed or described, not restructured.
type UpdateTemplateInput struct {
	Name           *string
	Description    *string
	Questions      []TemplateQuestion
	Sections       []string
	RatingCriteria map[string]string
}

// TemplateService manages feedback templates. Only published templates may
// be attached to jobs.
type TemplateService struct {
	db *gorm.DB
}

// NewTemplateService constructs a TemplateService instance.
func NewTemplateService(db *gorm.DB) (*TemplateService, error) {
	if db == nil {
		return nil, errors.New("template service: db is required")
	}
	return &TemplateService{db: db}, nil
}

// Create registers a draft template in the caller's organization.
func (s *TemplateService) Create(ctx context.Context, scope AccessScope, input CreateTemplateInput) (*models.FeedbackTemplate, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("template service: name is required")
	}
	if scope.OrganizationID == "" {
		return nil, ErrOrganizationNotFound
	}

	template := &models.FeedbackTemplate{
		OrganizationID: scope.OrganizationID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Status:         models.TemplateDraft,
		IsActive:       true,
		CreatedByID:    scope.actorID(),
	}
	if err := encodeTemplateFields(template, input.Questions, input.Sections, input.RatingCriteria); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, fmt.Errorf("template service: create template: %w", err)
	}
	return template, nil
}

// GetByID loads a template within the caller's scope.
func (s *TemplateService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.FeedbackTemplate, error) {
	ctx = ensureContext(ctx)

	var template models.FeedbackTemplate
	err := scopedByOrg(s.db.WithContext(ctx), scope).First(&template, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("template service: load template: %w", err)
	}
	return &template, nil
}

// List returns templates within the caller's scope, active ones first.
func (s *TemplateService) List(ctx context.Context, scope AccessScope, publishedOnly bool) ([]models.FeedbackTemplate, error) {
	ctx = ensureContext(ctx)

	query := scopedByOrg(s.db.WithContext(ctx), scope)
	if publishedOnly {
		query = query.Where("status = ? AND is_active = ?", models.TemplatePublished, true)
	}

	var templates []models.FeedbackTemplate
	if err := query.
		Order("is_default DESC, name ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("template service: list templates: %w", err)
	}
	return templates, nil
}

// Update applies partial updates. Structural changes require draft status.
func (s *TemplateService) Update(ctx context.Context, scope AccessScope, id string, input UpdateTemplateInput) (*models.FeedbackTemplate, error) {
	ctx = ensureContext(ctx)

	template, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	structural := input.Questions != nil || input.Sections != nil || input.RatingCriteria != nil
	if structural && template.Status == models.TemplatePublished {
		return nil, ErrInvalidTransition
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errors.New("template service: name cannot be empty")
		}
		template.Name = name
	}
	if input.Description != nil {
		template.Description = strings.TrimSpace(*input.Description)
	}
	if structural {
		if err := encodeTemplateFields(template, input.Questions, input.Sections, input.RatingCriteria); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Save(template).Error; err != nil {
		return nil, fmt.Errorf("template service: update template: %w", err)
	}
	return template, nil
}

// Publish makes a draft template available for attachment to jobs.
func (s *TemplateService) Publish(ctx context.Context, scope AccessScope, id string) (*models.FeedbackTemplate, error) {
	return s.setStatus(ctx, scope, id, models.TemplateDraft, models.TemplatePublished)
}

// Unpublish withdraws a published template. Existing job references stay in
// place; new attachments are refused elsewhere.
func (s *TemplateService) Unpublish(ctx context.Context, scope AccessScope, id string) (*models.FeedbackTemplate, error) {
	return s.setStatus(ctx, scope, id, models.TemplatePublished, models.TemplateDraft)
}

// SetDefault marks one published template as the organization default.
func (s *TemplateService) SetDefault(ctx context.Context, scope AccessScope, id string) (*models.FeedbackTemplate, error) {
	ctx = ensureContext(ctx)

	template, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if template.Status != models.TemplatePublished {
		return nil, ErrInvalidTransition
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FeedbackTemplate{}).
			Where("organization_id = ? AND is_default = ?", template.OrganizationID, true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("template service: clear default: %w", err)
		}
		return tx.Model(template).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, scope, id)
}

func (s *TemplateService) setStatus(ctx context.Context, scope AccessScope, id string, from, to models.TemplateStatus) (*models.FeedbackTemplate, error) {
	ctx = ensureContext(ctx)

	template, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if template.Status != from {
		return nil, ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).Model(template).Update("status", to).Error; err != nil {
		return nil, fmt.Errorf("template service: update status: %w", err)
	}
	template.Status = to
	return template, nil
}

func encodeTemplateFields(template *models.FeedbackTemplate, questions []TemplateQuestion, sections []string, criteria map[string]string) error {
	if questions != nil {
		encoded, err := encodeJSON(questions)
		if err != nil {
			return fmt.Errorf("template service: marshal questions: %w", err)
		}
		template.Questions = encoded
	}
	if sections != nil {
		encoded, err := encodeJSON(sections)
		if err != nil {
			return fmt.Errorf("template service: marshal sections: %w", err)
		}
		template.Sections = encoded
	}
	if criteria != nil {
		encoded, err := encodeJSON(criteria)
		if err != nil {
			return fmt.Errorf("template service: marshal criteria: %w", err)
		}
		template.RatingCriteria = encoded
	}
	return nil
}
