package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// CreateJobInput captures the attributes of a new posting. Jobs start as
// drafts; publication is a separate step.
type CreateJobInput struct {
	Title               string
	DepartmentID        *string
	Description         string
	Requirements        string
	Responsibilities    string
	JobType             models.JobType
	ExperienceLevel     models.ExperienceLevel
	Location            string
	WorkType            models.WorkType
	SalaryMin           *float64
	SalaryMax           *float64
	SalaryCurrency      string
	ShowSalary          bool
	RequiredSkills      []string
	PreferredSkills     []string
	Urgency             models.Urgency
	Openings            int
	TargetHireDate      *time.Time
	SLADays             *int
	HiringManagerID     *string
	AutoRejectAfterDays *int
	FeedbackTemplateID  *string
}

// UpdateJobInput carries optional posting updates. Nil fields are left
// untouched.
type UpdateJobInput struct {
	Title               *string
	DepartmentID        *string
	Description         *string
	Requirements        *string
	Responsibilities    *string
	Location            *string
	WorkType            *models.WorkType
	SalaryMin           *float64
	SalaryMax           *float64
	ShowSalary          *bool
	Urgency             *models.Urgency
	Openings            *int
	TargetHireDate      *time.Time
	SLADays             *int
	HiringManagerID     *string
	AutoRejectAfterDays *int
	FeedbackTemplateID  *string
}

// JobFilters narrows posting listings.
type JobFilters struct {
	Status       models.JobStatus
	DepartmentID string
	WorkType     models.WorkType
	Urgency      models.Urgency
	Search       string
	OverdueOnly  bool
}

// JobListOptions controls pagination and filtering for posting listings.
type JobListOptions struct {
	Page     int
	PageSize int
	Filters  JobFilters
}

// JobService manages postings within the organization's posting quota.
type JobService struct {
	db *gorm.DB
}

// NewJobService constructs a JobService instance.
func NewJobService(db *gorm.DB) (*JobService, error) {
	if db == nil {
		return nil, errors.New("job service: db is required")
	}
	return &JobService{db: db}, nil
}

// Create registers a draft posting. Open and draft postings count against
// the tenant's max_jobs quota; the check and the insert share one
// transaction.
func (s *JobService) Create(ctx context.Context, scope AccessScope, input CreateJobInput) (*models.Job, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("job service: title is required")
	}
	if scope.OrganizationID == "" {
		return nil, ErrOrganizationNotFound
	}

	job := &models.Job{
		OrganizationID:      scope.OrganizationID,
		DepartmentID:        input.DepartmentID,
		Title:               title,
		Slug:                normaliseSlug(title),
		Description:         input.Description,
		Requirements:        input.Requirements,
		Responsibilities:    input.Responsibilities,
		Location:            strings.TrimSpace(input.Location),
		ShowSalary:          input.ShowSalary,
		SalaryMin:           input.SalaryMin,
		SalaryMax:           input.SalaryMax,
		Status:              models.JobStatusDraft,
		TargetHireDate:      input.TargetHireDate,
		HiringManagerID:     input.HiringManagerID,
		CreatedByID:         scope.actorID(),
		AutoRejectAfterDays: input.AutoRejectAfterDays,
		FeedbackTemplateID:  input.FeedbackTemplateID,
	}
	if input.JobType != "" {
		job.JobType = input.JobType
	}
	if input.ExperienceLevel != "" {
		job.ExperienceLevel = input.ExperienceLevel
	}
	if input.WorkType != "" {
		job.WorkType = input.WorkType
	}
	if input.Urgency != "" {
		job.Urgency = input.Urgency
	}
	if input.SalaryCurrency != "" {
		job.SalaryCurrency = strings.ToUpper(input.SalaryCurrency)
	}
	if input.Openings > 0 {
		job.Openings = input.Openings
	}
	if input.SLADays != nil && *input.SLADays > 0 {
		job.SLADays = *input.SLADays
	}
	if len(input.RequiredSkills) > 0 {
		encoded, err := encodeJSON(input.RequiredSkills)
		if err != nil {
			return nil, fmt.Errorf("job service: marshal skills: %w", err)
		}
		job.RequiredSkills = encoded
	}
	if len(input.PreferredSkills) > 0 {
		encoded, err := encodeJSON(input.PreferredSkills)
		if err != nil {
			return nil, fmt.Errorf("job service: marshal skills: %w", err)
		}
		job.PreferredSkills = encoded
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org models.Organization
		if err := tx.First(&org, "id = ?", scope.OrganizationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrganizationNotFound
			}
			return fmt.Errorf("job service: load organization: %w", err)
		}

		var open int64
		if err := tx.Model(&models.Job{}).
			Where("organization_id = ? AND status IN ?", scope.OrganizationID,
				[]models.JobStatus{models.JobStatusDraft, models.JobStatusOpen, models.JobStatusOnHold}).
			Count(&open).Error; err != nil {
			return fmt.Errorf("job service: count postings: %w", err)
		}
		if open >= int64(org.MaxJobs) {
			return ErrPlanLimitReached
		}

		if job.DepartmentID != nil && *job.DepartmentID != "" {
			var dept models.Department
			err := tx.First(&dept, "id = ? AND organization_id = ?", *job.DepartmentID, scope.OrganizationID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDepartmentNotFound
			}
			if err != nil {
				return fmt.Errorf("job service: load department: %w", err)
			}
		}

		if err := tx.Create(job).Error; err != nil {
			return fmt.Errorf("job service: create job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

// GetByID loads a posting within the caller's scope.
func (s *JobService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.Job, error) {
	ctx = ensureContext(ctx)

	var job models.Job
	err := scopedByOrg(s.db.WithContext(ctx), scope).
		Preload("Department").
		Preload("HiringManager").
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("job service: load job: %w", err)
	}
	return &job, nil
}

// List returns postings newest first within the caller's scope.
func (s *JobService) List(ctx context.Context, scope AccessScope, opts JobListOptions) ([]models.Job, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := scopedByOrg(s.db.WithContext(ctx).Model(&models.Job{}), scope)
	if opts.Filters.Status != "" {
		query = query.Where("status = ?", opts.Filters.Status)
	}
	if opts.Filters.DepartmentID != "" {
		query = query.Where("department_id = ?", opts.Filters.DepartmentID)
	}
	if opts.Filters.WorkType != "" {
		query = query.Where("work_type = ?", opts.Filters.WorkType)
	}
	if opts.Filters.Urgency != "" {
		query = query.Where("urgency = ?", opts.Filters.Urgency)
	}
	if search := strings.TrimSpace(opts.Filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}
	if opts.Filters.OverdueOnly {
		// SLA length varies per job, so the date comparison happens in Go
		// after this coarse cut.
		query = query.Where("status = ? AND posted_date IS NOT NULL", models.JobStatusOpen)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("job service: count jobs: %w", err)
	}

	var jobs []models.Job
	if err := query.
		Preload("Department").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("job service: list jobs: %w", err)
	}

	if opts.Filters.OverdueOnly {
		now := time.Now()
		filtered := jobs[:0]
		for _, job := range jobs {
			if job.IsOverdue(now) {
				filtered = append(filtered, job)
			}
		}
		jobs = filtered
		total = int64(len(jobs))
	}

	return jobs, total, nil
}

// Update applies partial updates to a posting.
func (s *JobService) Update(ctx context.Context, scope AccessScope, id string, input UpdateJobInput) (*models.Job, error) {
	ctx = ensureContext(ctx)

	job, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.New("job service: title cannot be empty")
		}
		updates["title"] = title
		updates["slug"] = normaliseSlug(title)
	}
	if input.DepartmentID != nil {
		updates["department_id"] = nilIfEmpty(*input.DepartmentID)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Requirements != nil {
		updates["requirements"] = *input.Requirements
	}
	if input.Responsibilities != nil {
		updates["responsibilities"] = *input.Responsibilities
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.WorkType != nil {
		updates["work_type"] = *input.WorkType
	}
	if input.SalaryMin != nil {
		updates["salary_min"] = *input.SalaryMin
	}
	if input.SalaryMax != nil {
		updates["salary_max"] = *input.SalaryMax
	}
	if input.ShowSalary != nil {
		updates["show_salary"] = *input.ShowSalary
	}
	if input.Urgency != nil {
		updates["urgency"] = *input.Urgency
	}
	if input.Openings != nil && *input.Openings > 0 {
		updates["openings"] = *input.Openings
	}
	if input.TargetHireDate != nil {
		updates["target_hire_date"] = *input.TargetHireDate
	}
	if input.SLADays != nil && *input.SLADays > 0 {
		updates["sla_days"] = *input.SLADays
	}
	if input.HiringManagerID != nil {
		updates["hiring_manager_id"] = nilIfEmpty(*input.HiringManagerID)
	}
	if input.AutoRejectAfterDays != nil {
		updates["auto_reject_after_days"] = *input.AutoRejectAfterDays
	}
	if input.FeedbackTemplateID != nil {
		updates["feedback_template_id"] = nilIfEmpty(*input.FeedbackTemplateID)
	}

	if len(updates) == 0 {
		return job, nil
	}

	if err := s.db.WithContext(ctx).Model(job).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("job service: update job: %w", err)
	}

	return s.GetByID(ctx, scope, id)
}

// Publish opens a posting. The posted date is set exactly once: reopening a
// job that was already posted keeps the original date so SLA tracking stays
// anchored to first publication.
func (s *JobService) Publish(ctx context.Context, scope AccessScope, id string) (*models.Job, error) {
	ctx = ensureContext(ctx)

	job, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusClosed || job.Status == models.JobStatusCancelled {
		return nil, ErrInvalidTransition
	}

	updates := map[string]any{"status": models.JobStatusOpen}
	if job.PostedDate == nil {
		updates["posted_date"] = time.Now()
	}

	if err := s.db.WithContext(ctx).Model(job).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("job service: publish job: %w", err)
	}

	return s.GetByID(ctx, scope, id)
}

// Close marks a posting closed and stamps the closing date.
func (s *JobService) Close(ctx context.Context, scope AccessScope, id string) (*models.Job, error) {
	ctx = ensureContext(ctx)

	job, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusClosed || job.Status == models.JobStatusCancelled {
		return nil, ErrInvalidTransition
	}

	updates := map[string]any{
		"status":      models.JobStatusClosed,
		"closed_date": time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(job).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("job service: close job: %w", err)
	}

	return s.GetByID(ctx, scope, id)
}

func nilIfEmpty(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
