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

// ScheduleInterviewInput captures a new interview on an application.
type ScheduleInterviewInput struct {
	ApplicationID         string
	InterviewType         models.InterviewType
	RoundNumber           int
	ScheduledAt           time.Time
	DurationMinutes       int
	Location              string
	MeetingLink           string
	InterviewerIDs        []string
	LeadInterviewerID     *string
	Instructions          string
	InternalNotes         string
	SendCalendarInvite    bool
	SendConfirmationEmail bool
}

// RescheduleInterviewInput carries the new slot for an interview.
type RescheduleInterviewInput struct {
	ScheduledAt     time.Time
	DurationMinutes *int
	Location        *string
	MeetingLink     *string
}

// InterviewFilters narrows interview listings.
type InterviewFilters struct {
	ApplicationID string
	InterviewerID string
	Status        models.InterviewStatus
	From          *time.Time
	To            *time.Time
}

// InterviewListOptions controls pagination and filtering.
type InterviewListOptions struct {
	Page     int
	PageSize int
	Filters  InterviewFilters
}

// InterviewService manages interview scheduling and its status machine.
type InterviewService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewInterviewService constructs an InterviewService instance.
func NewInterviewService(db *gorm.DB, activity *ActivityService) (*InterviewService, error) {
	if db == nil {
		return nil, errors.New("interview service: db is required")
	}
	if activity == nil {
		return nil, errors.New("interview service: activity service is required")
	}
	return &InterviewService{db: db, activity: activity}, nil
}

// Schedule creates an interview on a live application and records it on the
// application's ledger.
func (s *InterviewService) Schedule(ctx context.Context, scope AccessScope, input ScheduleInterviewInput) (*models.Interview, error) {
	ctx = ensureContext(ctx)

	if input.InterviewType == "" {
		return nil, errors.New("interview service: interview type is required")
	}
	if input.ScheduledAt.IsZero() {
		return nil, errors.New("interview service: scheduled time is required")
	}
	if len(input.InterviewerIDs) == 0 {
		return nil, errors.New("interview service: at least one interviewer is required")
	}

	var result *models.Interview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.JobApplication
		err := scopedApplications(tx.Model(&models.JobApplication{}), scope).
			First(&app, "job_applications.id = ?", input.ApplicationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		if err != nil {
			return fmt.Errorf("interview service: load application: %w", err)
		}
		if app.IsTerminal() {
			return ErrAlreadyTerminal
		}

		var interviewers []models.User
		if err := tx.Where("id IN ?", input.InterviewerIDs).Find(&interviewers).Error; err != nil {
			return fmt.Errorf("interview service: load interviewers: %w", err)
		}
		if len(interviewers) != len(input.InterviewerIDs) {
			return ErrUserNotFound
		}

		interview := &models.Interview{
			ApplicationID:         app.ID,
			InterviewType:         input.InterviewType,
			ScheduledAt:           input.ScheduledAt,
			Location:              strings.TrimSpace(input.Location),
			MeetingLink:           strings.TrimSpace(input.MeetingLink),
			Interviewers:          interviewers,
			LeadInterviewerID:     input.LeadInterviewerID,
			Status:                models.InterviewScheduled,
			Instructions:          input.Instructions,
			InternalNotes:         input.InternalNotes,
			SendCalendarInvite:    input.SendCalendarInvite,
			SendConfirmationEmail: input.SendConfirmationEmail,
			CreatedByID:           scope.actorID(),
		}
		if input.RoundNumber > 0 {
			interview.RoundNumber = input.RoundNumber
		}
		if input.DurationMinutes > 0 {
			interview.DurationMinutes = input.DurationMinutes
		}

		if err := tx.Create(interview).Error; err != nil {
			return fmt.Errorf("interview service: create interview: %w", err)
		}

		entry := ActivityEntry{
			ApplicationID: app.ID,
			UserID:        scope.actorID(),
			Type:          models.ActivityInterviewScheduled,
			Description:   fmt.Sprintf("%s interview scheduled", input.InterviewType),
			Metadata: map[string]any{
				"interview_id": interview.ID,
				"scheduled_at": input.ScheduledAt,
			},
		}
		if err := s.activity.LogTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("interview service: record activity: %w", err)
		}

		result = interview
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID loads an interview within the caller's scope.
func (s *InterviewService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.Interview, error) {
	ctx = ensureContext(ctx)
	return s.load(s.db.WithContext(ctx), scope, id, "Interviewers", "LeadInterviewer", "Application")
}

// List returns interviews soonest first within the caller's scope.
func (s *InterviewService) List(ctx context.Context, scope AccessScope, opts InterviewListOptions) ([]models.Interview, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := scopedInterviews(s.db.WithContext(ctx).Model(&models.Interview{}), scope)
	if opts.Filters.ApplicationID != "" {
		query = query.Where("application_id = ?", opts.Filters.ApplicationID)
	}
	if opts.Filters.Status != "" {
		query = query.Where("status = ?", opts.Filters.Status)
	}
	if opts.Filters.InterviewerID != "" {
		query = query.Where(
			"interviews.id IN (?)",
			s.db.Session(&gorm.Session{NewDB: true}).
				Table("interview_interviewers").
				Select("interview_id").
				Where("user_id = ?", opts.Filters.InterviewerID),
		)
	}
	if opts.Filters.From != nil {
		query = query.Where("scheduled_at >= ?", *opts.Filters.From)
	}
	if opts.Filters.To != nil {
		query = query.Where("scheduled_at <= ?", *opts.Filters.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("interview service: count interviews: %w", err)
	}

	var interviews []models.Interview
	if err := query.
		Preload("Interviewers").
		Order("scheduled_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&interviews).Error; err != nil {
		return nil, 0, fmt.Errorf("interview service: list interviews: %w", err)
	}

	return interviews, total, nil
}

// Confirm moves a scheduled interview to confirmed.
func (s *InterviewService) Confirm(ctx context.Context, scope AccessScope, id string) (*models.Interview, error) {
	now := time.Now()
	return s.setStatus(ctx, scope, id, models.InterviewConfirmed, map[string]any{"confirmed_at": now})
}

// Start marks a confirmed interview as in progress.
func (s *InterviewService) Start(ctx context.Context, scope AccessScope, id string) (*models.Interview, error) {
	return s.setStatus(ctx, scope, id, models.InterviewInProgress, nil)
}

// Complete closes out an interview so feedback collection can finish.
func (s *InterviewService) Complete(ctx context.Context, scope AccessScope, id string) (*models.Interview, error) {
	now := time.Now()
	return s.setStatus(ctx, scope, id, models.InterviewCompleted, map[string]any{"completed_at": now})
}

// MarkNoShow records that the candidate did not attend.
func (s *InterviewService) MarkNoShow(ctx context.Context, scope AccessScope, id string) (*models.Interview, error) {
	return s.setStatus(ctx, scope, id, models.InterviewNoShow, nil)
}

// Cancel cancels an interview with a reason.
func (s *InterviewService) Cancel(ctx context.Context, scope AccessScope, id, reason string) (*models.Interview, error) {
	now := time.Now()
	return s.setStatus(ctx, scope, id, models.InterviewCancelled, map[string]any{
		"cancelled_at":        now,
		"cancellation_reason": strings.TrimSpace(reason),
	})
}

// Reschedule marks the old record rescheduled and creates a replacement in
// the new slot, inheriting interviewers and logistics unless overridden.
func (s *InterviewService) Reschedule(ctx context.Context, scope AccessScope, id string, input RescheduleInterviewInput) (*models.Interview, error) {
	ctx = ensureContext(ctx)

	if input.ScheduledAt.IsZero() {
		return nil, errors.New("interview service: scheduled time is required")
	}

	var result *models.Interview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := s.load(tx, scope, id, "Interviewers")
		if err != nil {
			return err
		}
		if !old.Status.CanTransition(models.InterviewRescheduled) {
			return ErrInvalidTransition
		}

		if err := tx.Model(&models.Interview{}).
			Where("id = ?", old.ID).
			Update("status", models.InterviewRescheduled).Error; err != nil {
			return fmt.Errorf("interview service: mark rescheduled: %w", err)
		}

		replacement := &models.Interview{
			ApplicationID:         old.ApplicationID,
			InterviewType:         old.InterviewType,
			RoundNumber:           old.RoundNumber,
			ScheduledAt:           input.ScheduledAt,
			DurationMinutes:       old.DurationMinutes,
			Location:              old.Location,
			MeetingLink:           old.MeetingLink,
			Interviewers:          old.Interviewers,
			LeadInterviewerID:     old.LeadInterviewerID,
			Status:                models.InterviewScheduled,
			Instructions:          old.Instructions,
			InternalNotes:         old.InternalNotes,
			SendCalendarInvite:    old.SendCalendarInvite,
			SendConfirmationEmail: old.SendConfirmationEmail,
			CreatedByID:           scope.actorID(),
		}
		if input.DurationMinutes != nil && *input.DurationMinutes > 0 {
			replacement.DurationMinutes = *input.DurationMinutes
		}
		if input.Location != nil {
			replacement.Location = strings.TrimSpace(*input.Location)
		}
		if input.MeetingLink != nil {
			replacement.MeetingLink = strings.TrimSpace(*input.MeetingLink)
		}

		if err := tx.Create(replacement).Error; err != nil {
			return fmt.Errorf("interview service: create replacement: %w", err)
		}

		entry := ActivityEntry{
			ApplicationID: old.ApplicationID,
			UserID:        scope.actorID(),
			Type:          models.ActivityInterviewScheduled,
			Description:   fmt.Sprintf("%s interview rescheduled", old.InterviewType),
			Metadata: map[string]any{
				"interview_id": replacement.ID,
				"replaces":     old.ID,
				"scheduled_at": input.ScheduledAt,
			},
		}
		if err := s.activity.LogTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("interview service: record activity: %w", err)
		}

		result = replacement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *InterviewService) setStatus(ctx context.Context, scope AccessScope, id string, target models.InterviewStatus, extra map[string]any) (*models.Interview, error) {
	ctx = ensureContext(ctx)

	var result *models.Interview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		interview, err := s.load(tx, scope, id)
		if err != nil {
			return err
		}
		if !interview.Status.CanTransition(target) {
			return ErrInvalidTransition
		}

		updates := map[string]any{"status": target}
		for column, value := range extra {
			updates[column] = value
		}
		if err := tx.Model(&models.Interview{}).
			Where("id = ?", interview.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("interview service: update status: %w", err)
		}

		reloaded, err := s.load(tx, scope, id)
		if err != nil {
			return err
		}
		result = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *InterviewService) load(db *gorm.DB, scope AccessScope, id string, preloads ...string) (*models.Interview, error) {
	query := scopedInterviews(db.Model(&models.Interview{}), scope)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	var interview models.Interview
	err := query.First(&interview, "interviews.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("interview service: load interview: %w", err)
	}
	return &interview, nil
}
