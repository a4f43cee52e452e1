package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/pkg/metrics"
)

// SubmitApplicationInput captures the attributes of a new application.
type SubmitApplicationInput struct {
	JobID                string
	CandidateID          string
	ApplicationResponses map[string]any
}

// ApplicationFilters narrows application listings.
type ApplicationFilters struct {
	JobID       string
	CandidateID string
	Stage       models.Stage
	Status      models.ApplicationStatus
}

// ApplicationListOptions controls pagination and filtering.
type ApplicationListOptions struct {
	Page     int
	PageSize int
	Filters  ApplicationFilters
}

// PipelineService owns every stage-mutating operation on applications.
// All transitions run inside a transaction and compare-and-swap on the
// application's version column: at most one concurrent transition wins, the
// loser receives ErrConcurrentModification.
type PipelineService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewPipelineService constructs a PipelineService instance.
func NewPipelineService(db *gorm.DB, activity *ActivityService) (*PipelineService, error) {
	if db == nil {
		return nil, errors.New("pipeline service: db is required")
	}
	if activity == nil {
		return nil, errors.New("pipeline service: activity service is required")
	}
	return &PipelineService{db: db, activity: activity}, nil
}

// Submit creates a new application at the applied stage.
func (s *PipelineService) Submit(ctx context.Context, scope AccessScope, input SubmitApplicationInput) (*models.JobApplication, error) {
	ctx = ensureContext(ctx)

	var job models.Job
	err := scopedByOrg(s.db.WithContext(ctx), scope).First(&job, "id = ?", input.JobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline service: load job: %w", err)
	}

	var candidate models.Candidate
	err = scopedByOrg(s.db.WithContext(ctx), scope).First(&candidate, "id = ?", input.CandidateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline service: load candidate: %w", err)
	}

	app := &models.JobApplication{
		JobID:          job.ID,
		CandidateID:    candidate.ID,
		Stage:          models.StageApplied,
		Status:         models.ApplicationActive,
		StageUpdatedAt: time.Now(),
	}

	if input.ApplicationResponses != nil {
		encoded, err := encodeJSON(input.ApplicationResponses)
		if err != nil {
			return nil, fmt.Errorf("pipeline service: marshal responses: %w", err)
		}
		app.ApplicationResponses = encoded
	}

	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("pipeline service: create application: %w", err)
	}

	return app, nil
}

// GetByID loads an application within the caller's scope.
func (s *PipelineService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.JobApplication, error) {
	ctx = ensureContext(ctx)
	return s.load(s.db.WithContext(ctx), scope, id, "Job", "Candidate")
}

// List returns applications newest first within the caller's scope.
func (s *PipelineService) List(ctx context.Context, scope AccessScope, opts ApplicationListOptions) ([]models.JobApplication, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := scopedApplications(s.db.WithContext(ctx).Model(&models.JobApplication{}), scope)
	if opts.Filters.JobID != "" {
		query = query.Where("job_id = ?", opts.Filters.JobID)
	}
	if opts.Filters.CandidateID != "" {
		query = query.Where("candidate_id = ?", opts.Filters.CandidateID)
	}
	if opts.Filters.Stage != "" {
		query = query.Where("stage = ?", opts.Filters.Stage)
	}
	if opts.Filters.Status != "" {
		query = query.Where("status = ?", opts.Filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("pipeline service: count applications: %w", err)
	}

	var apps []models.JobApplication
	if err := query.
		Preload("Job").
		Preload("Candidate").
		Order("applied_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("pipeline service: list applications: %w", err)
	}

	return apps, total, nil
}

// Advance moves an application one step along the linear pipeline. Passing
// the version the caller last read makes the operation fail with
// ErrConcurrentModification if the application moved since; a nil version
// applies against the current state.
func (s *PipelineService) Advance(ctx context.Context, scope AccessScope, id string, expectedVersion *int) (*models.JobApplication, error) {
	return s.transition(ctx, scope, id, expectedVersion, func(app *models.JobApplication, now time.Time) (map[string]any, ActivityEntry, error) {
		next, ok := app.Stage.Next()
		if !ok {
			return nil, ActivityEntry{}, ErrInvalidTransition
		}

		updates := map[string]any{
			"stage":            next,
			"stage_updated_at": now,
		}
		entry := ActivityEntry{
			Type:        models.ActivityStageChange,
			Description: fmt.Sprintf("Advanced to %s stage", next),
			Metadata:    map[string]any{"from": app.Stage, "to": next},
		}
		return updates, entry, nil
	})
}

// Reject moves an application to the rejected terminal stage from any
// non-terminal stage, recording the reason.
func (s *PipelineService) Reject(ctx context.Context, scope AccessScope, id, reason string, expectedVersion *int) (*models.JobApplication, error) {
	return s.transition(ctx, scope, id, expectedVersion, func(app *models.JobApplication, now time.Time) (map[string]any, ActivityEntry, error) {
		if app.IsTerminal() {
			return nil, ActivityEntry{}, ErrAlreadyTerminal
		}

		status, _ := models.StatusForStage(models.StageRejected)
		updates := map[string]any{
			"stage":            models.StageRejected,
			"status":           status,
			"stage_updated_at": now,
			"rejected_at":      now,
			"rejection_reason": strings.TrimSpace(reason),
		}
		entry := ActivityEntry{
			Type:        models.ActivityStageChange,
			Description: fmt.Sprintf("Application rejected: %s", strings.TrimSpace(reason)),
			Metadata:    map[string]any{"from": app.Stage, "to": models.StageRejected, "reason": reason},
		}
		return updates, entry, nil
	})
}

// Withdraw marks an application withdrawn by the candidate.
func (s *PipelineService) Withdraw(ctx context.Context, scope AccessScope, id, reason string, expectedVersion *int) (*models.JobApplication, error) {
	return s.transition(ctx, scope, id, expectedVersion, func(app *models.JobApplication, now time.Time) (map[string]any, ActivityEntry, error) {
		if app.IsTerminal() {
			return nil, ActivityEntry{}, ErrAlreadyTerminal
		}

		status, _ := models.StatusForStage(models.StageWithdrawn)
		updates := map[string]any{
			"stage":            models.StageWithdrawn,
			"status":           status,
			"stage_updated_at": now,
		}
		entry := ActivityEntry{
			Type:        models.ActivityStageChange,
			Description: fmt.Sprintf("Application withdrawn: %s", strings.TrimSpace(reason)),
			Metadata:    map[string]any{"from": app.Stage, "to": models.StageWithdrawn, "reason": reason},
		}
		return updates, entry, nil
	})
}

// ExtendOffer moves an application from the final stage to offer, recording
// the offered amount.
func (s *PipelineService) ExtendOffer(ctx context.Context, scope AccessScope, id string, amount float64, expectedVersion *int) (*models.JobApplication, error) {
	return s.transition(ctx, scope, id, expectedVersion, func(app *models.JobApplication, now time.Time) (map[string]any, ActivityEntry, error) {
		if app.IsTerminal() {
			return nil, ActivityEntry{}, ErrAlreadyTerminal
		}
		if app.Stage != models.StageFinal {
			return nil, ActivityEntry{}, ErrInvalidTransition
		}

		updates := map[string]any{
			"stage":             models.StageOffer,
			"stage_updated_at":  now,
			"offer_extended_at": now,
			"offer_amount":      amount,
		}
		entry := ActivityEntry{
			Type:        models.ActivityOfferExtended,
			Description: "Offer extended",
			Metadata:    map[string]any{"amount": amount},
		}
		return updates, entry, nil
	})
}

// Hire accepts an offer: the application enters the hired terminal stage and
// the status mirrors it.
func (s *PipelineService) Hire(ctx context.Context, scope AccessScope, id string, startDate *time.Time, expectedVersion *int) (*models.JobApplication, error) {
	return s.transition(ctx, scope, id, expectedVersion, func(app *models.JobApplication, now time.Time) (map[string]any, ActivityEntry, error) {
		if app.IsTerminal() {
			return nil, ActivityEntry{}, ErrAlreadyTerminal
		}
		if app.Stage != models.StageOffer {
			return nil, ActivityEntry{}, ErrInvalidTransition
		}

		status, _ := models.StatusForStage(models.StageHired)
		updates := map[string]any{
			"stage":             models.StageHired,
			"status":            status,
			"stage_updated_at":  now,
			"offer_accepted_at": now,
		}
		if startDate != nil {
			updates["start_date"] = *startDate
		}
		entry := ActivityEntry{
			Type:        models.ActivityOfferAccepted,
			Description: "Offer accepted",
		}
		return updates, entry, nil
	})
}

// Hold pauses a live application without touching its pipeline position.
func (s *PipelineService) Hold(ctx context.Context, scope AccessScope, id string) (*models.JobApplication, error) {
	return s.setStatus(ctx, scope, id, models.ApplicationActive, models.ApplicationOnHold)
}

// Resume reactivates an on-hold application.
func (s *PipelineService) Resume(ctx context.Context, scope AccessScope, id string) (*models.JobApplication, error) {
	return s.setStatus(ctx, scope, id, models.ApplicationOnHold, models.ApplicationActive)
}

// mutator inspects the loaded application and produces the column updates
// plus the ledger entry for an accepted transition.
type mutator func(app *models.JobApplication, now time.Time) (map[string]any, ActivityEntry, error)

func (s *PipelineService) transition(ctx context.Context, scope AccessScope, id string, expectedVersion *int, mutate mutator) (*models.JobApplication, error) {
	ctx = ensureContext(ctx)

	var result *models.JobApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := s.load(tx, scope, id)
		if err != nil {
			return err
		}

		version := app.Version
		if expectedVersion != nil {
			version = *expectedVersion
		}

		now := time.Now()
		updates, entry, err := mutate(app, now)
		if err != nil {
			return err
		}
		updates["version"] = version + 1

		res := tx.Model(&models.JobApplication{}).
			Where("id = ? AND version = ?", app.ID, version).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("pipeline service: update application: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			metrics.TransitionConflicts.Inc()
			return ErrConcurrentModification
		}

		entry.ApplicationID = app.ID
		entry.UserID = scope.actorID()
		if err := s.activity.LogTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("pipeline service: record activity: %w", err)
		}

		if stage, ok := updates["stage"].(models.Stage); ok {
			metrics.StageTransitions.WithLabelValues(string(stage)).Inc()
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

func (s *PipelineService) setStatus(ctx context.Context, scope AccessScope, id string, from, to models.ApplicationStatus) (*models.JobApplication, error) {
	ctx = ensureContext(ctx)

	var result *models.JobApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := s.load(tx, scope, id)
		if err != nil {
			return err
		}
		if app.IsTerminal() {
			return ErrAlreadyTerminal
		}
		if app.Status != from {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.JobApplication{}).
			Where("id = ? AND version = ?", app.ID, app.Version).
			Updates(map[string]any{"status": to, "version": app.Version + 1})
		if res.Error != nil {
			return fmt.Errorf("pipeline service: update status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			metrics.TransitionConflicts.Inc()
			return ErrConcurrentModification
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

func (s *PipelineService) load(db *gorm.DB, scope AccessScope, id string, preloads ...string) (*models.JobApplication, error) {
	query := scopedApplications(db.Model(&models.JobApplication{}), scope)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	var app models.JobApplication
	err := query.First(&app, "job_applications.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline service: load application: %w", err)
	}
	return &app, nil
}
