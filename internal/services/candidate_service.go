package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// CreateCandidateInput captures the attributes of a new candidate profile.
type CreateCandidateInput struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Location          string
	CurrentTitle      string
	CurrentCompany    string
	YearsOfExperience *int
	LinkedInURL       string
	PortfolioURL      string
	CoverLetter       string
	ExpectedSalary    *float64
	NoticePeriodDays  *int
	Skills            []string
	Tags              []string
	Source            string
	ReferrerID        *string
	Notes             string
}

// UpdateCandidateInput carries optional profile updates. Nil fields are left
// untouched.
type UpdateCandidateInput struct {
	FirstName         *string
	LastName          *string
	Phone             *string
	Location          *string
	CurrentTitle      *string
	CurrentCompany    *string
	YearsOfExperience *int
	LinkedInURL       *string
	PortfolioURL      *string
	ExpectedSalary    *float64
	NoticePeriodDays  *int
	Skills            []string
	Tags              []string
	Notes             *string
}

// CandidateFilters narrows candidate listings.
type CandidateFilters struct {
	Search string
	Source string
	Tag    string
}

// CandidateListOptions controls pagination and filtering.
type CandidateListOptions struct {
	Page     int
	PageSize int
	Filters  CandidateFilters
}

// AddNoteInput captures a timeline note on a candidate.
type AddNoteInput struct {
	CandidateID        string
	ApplicationID      *string
	NoteType           models.NoteType
	Title              string
	Content            string
	IsPrivate          bool
	VisibleToCandidate bool
}

// CandidateService manages candidate profiles and their timeline notes.
type CandidateService struct {
	db *gorm.DB
}

// NewCandidateService constructs a CandidateService instance.
func NewCandidateService(db *gorm.DB) (*CandidateService, error) {
	if db == nil {
		return nil, errors.New("candidate service: db is required")
	}
	return &CandidateService{db: db}, nil
}

// Create registers a candidate, unique per (organization, email).
func (s *CandidateService) Create(ctx context.Context, scope AccessScope, input CreateCandidateInput) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, errors.New("candidate service: email is required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, errors.New("candidate service: first and last name are required")
	}
	if scope.OrganizationID == "" {
		return nil, ErrOrganizationNotFound
	}

	candidate := &models.Candidate{
		OrganizationID:    scope.OrganizationID,
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          strings.TrimSpace(input.LastName),
		Email:             email,
		Phone:             strings.TrimSpace(input.Phone),
		Location:          strings.TrimSpace(input.Location),
		CurrentTitle:      strings.TrimSpace(input.CurrentTitle),
		CurrentCompany:    strings.TrimSpace(input.CurrentCompany),
		YearsOfExperience: input.YearsOfExperience,
		LinkedInURL:       strings.TrimSpace(input.LinkedInURL),
		PortfolioURL:      strings.TrimSpace(input.PortfolioURL),
		CoverLetter:       input.CoverLetter,
		ExpectedSalary:    input.ExpectedSalary,
		NoticePeriodDays:  input.NoticePeriodDays,
		Source:            strings.TrimSpace(input.Source),
		ReferrerID:        input.ReferrerID,
		Notes:             input.Notes,
	}

	if len(input.Skills) > 0 {
		encoded, err := encodeJSON(input.Skills)
		if err != nil {
			return nil, fmt.Errorf("candidate service: marshal skills: %w", err)
		}
		candidate.Skills = encoded
	}
	if len(input.Tags) > 0 {
		encoded, err := encodeJSON(input.Tags)
		if err != nil {
			return nil, fmt.Errorf("candidate service: marshal tags: %w", err)
		}
		candidate.Tags = encoded
	}

	if err := s.db.WithContext(ctx).Create(candidate).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateCandidate
		}
		return nil, fmt.Errorf("candidate service: create candidate: %w", err)
	}

	return candidate, nil
}

// GetByID loads a candidate within the caller's scope.
func (s *CandidateService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	var candidate models.Candidate
	err := scopedByOrg(s.db.WithContext(ctx), scope).
		Preload("Referrer").
		First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("candidate service: load candidate: %w", err)
	}
	return &candidate, nil
}

// List returns candidates newest first within the caller's scope.
func (s *CandidateService) List(ctx context.Context, scope AccessScope, opts CandidateListOptions) ([]models.Candidate, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := scopedByOrg(s.db.WithContext(ctx).Model(&models.Candidate{}), scope)
	if search := strings.TrimSpace(opts.Filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(current_title) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if source := strings.TrimSpace(opts.Filters.Source); source != "" {
		query = query.Where("source = ?", source)
	}
	if tag := strings.TrimSpace(opts.Filters.Tag); tag != "" {
		query = query.Where("tags LIKE ?", "%"+strings.ToLower(tag)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("candidate service: count candidates: %w", err)
	}

	var candidates []models.Candidate
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&candidates).Error; err != nil {
		return nil, 0, fmt.Errorf("candidate service: list candidates: %w", err)
	}

	return candidates, total, nil
}

// Update applies partial updates to a candidate profile.
func (s *CandidateService) Update(ctx context.Context, scope AccessScope, id string, input UpdateCandidateInput) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	candidate, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.CurrentTitle != nil {
		updates["current_title"] = strings.TrimSpace(*input.CurrentTitle)
	}
	if input.CurrentCompany != nil {
		updates["current_company"] = strings.TrimSpace(*input.CurrentCompany)
	}
	if input.YearsOfExperience != nil {
		updates["years_of_experience"] = *input.YearsOfExperience
	}
	if input.LinkedInURL != nil {
		updates["linked_in_url"] = strings.TrimSpace(*input.LinkedInURL)
	}
	if input.PortfolioURL != nil {
		updates["portfolio_url"] = strings.TrimSpace(*input.PortfolioURL)
	}
	if input.ExpectedSalary != nil {
		updates["expected_salary"] = *input.ExpectedSalary
	}
	if input.NoticePeriodDays != nil {
		updates["notice_period_days"] = *input.NoticePeriodDays
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Skills != nil {
		encoded, err := encodeJSON(input.Skills)
		if err != nil {
			return nil, fmt.Errorf("candidate service: marshal skills: %w", err)
		}
		updates["skills"] = encoded
	}
	if input.Tags != nil {
		encoded, err := encodeJSON(input.Tags)
		if err != nil {
			return nil, fmt.Errorf("candidate service: marshal tags: %w", err)
		}
		updates["tags"] = encoded
	}

	if len(updates) == 0 {
		return candidate, nil
	}

	if err := s.db.WithContext(ctx).Model(candidate).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("candidate service: update candidate: %w", err)
	}

	return s.GetByID(ctx, scope, id)
}

// AddNote appends a timeline note to a candidate.
func (s *CandidateService) AddNote(ctx context.Context, scope AccessScope, input AddNoteInput) (*models.CandidateNote, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.New("candidate service: note content is required")
	}

	candidate, err := s.GetByID(ctx, scope, input.CandidateID)
	if err != nil {
		return nil, err
	}

	note := &models.CandidateNote{
		CandidateID:        candidate.ID,
		ApplicationID:      input.ApplicationID,
		Title:              strings.TrimSpace(input.Title),
		Content:            input.Content,
		CreatedByID:        scope.actorID(),
		IsPrivate:          input.IsPrivate,
		VisibleToCandidate: input.VisibleToCandidate,
	}
	if input.NoteType != "" {
		note.NoteType = input.NoteType
	}

	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, fmt.Errorf("candidate service: create note: %w", err)
	}

	return note, nil
}

// ListNotes returns a candidate's notes newest first. Private notes are
// visible only to their author.
func (s *CandidateService) ListNotes(ctx context.Context, scope AccessScope, candidateID string) ([]models.CandidateNote, error) {
	ctx = ensureContext(ctx)

	candidate, err := s.GetByID(ctx, scope, candidateID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidate.ID).
		Where("is_private = ? OR created_by_id = ?", false, scope.UserID)

	var notes []models.CandidateNote
	if err := query.
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("candidate service: list notes: %w", err)
	}
	return notes, nil
}

// DeleteNote removes a note authored by the caller.
func (s *CandidateService) DeleteNote(ctx context.Context, scope AccessScope, noteID string) error {
	ctx = ensureContext(ctx)

	var note models.CandidateNote
	err := s.db.WithContext(ctx).First(&note, "id = ?", noteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoteNotFound
	}
	if err != nil {
		return fmt.Errorf("candidate service: load note: %w", err)
	}

	if _, err := s.GetByID(ctx, scope, note.CandidateID); err != nil {
		return ErrNoteNotFound
	}
	if note.CreatedByID != nil && *note.CreatedByID != scope.UserID && !scope.IsPlatformAdmin() {
		return ErrNoteNotFound
	}

	return s.db.WithContext(ctx).Delete(&note).Error
}
