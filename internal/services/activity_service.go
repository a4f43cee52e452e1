package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// ActivityEntry captures a single audit event to persist on an application.
type ActivityEntry struct {
	ApplicationID string
	UserID        *string
	Type          models.ActivityType
	Description   string
	Metadata      map[string]any
}

// ActivityFilters encapsulates optional filters when querying the ledger.
type ActivityFilters struct {
	ApplicationID string
	Type          models.ActivityType
	Since         *time.Time
	Until         *time.Time
}

// ActivityListOptions controls pagination and filtering for ledger queries.
type ActivityListOptions struct {
	Page     int
	PageSize int
	Filters  ActivityFilters
}

// ActivityService is the only write path onto the application audit ledger.
// Entries are never updated or deleted; corrections are new entries.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService constructs an ActivityService using the provided database handle.
func NewActivityService(db *gorm.DB) (*ActivityService, error) {
	if db == nil {
		return nil, errors.New("activity service: db is required")
	}
	return &ActivityService{db: db}, nil
}

// Log appends an entry using the service's own database handle.
func (s *ActivityService) Log(ctx context.Context, entry ActivityEntry) error {
	return s.LogTx(ctx, s.db, entry)
}

// LogTx appends an entry inside the caller's transaction so the ledger write
// commits or rolls back together with the stage mutation it records.
func (s *ActivityService) LogTx(ctx context.Context, tx *gorm.DB, entry ActivityEntry) error {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(entry.ApplicationID) == "" {
		return errors.New("activity service: application id is required")
	}
	if entry.Type == "" {
		return errors.New("activity service: activity type is required")
	}

	payload := ""
	if entry.Metadata != nil {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("activity service: marshal metadata: %w", err)
		}
		payload = string(encoded)
	}

	record := models.ApplicationActivity{
		ApplicationID: entry.ApplicationID,
		ActivityType:  entry.Type,
		Description:   strings.TrimSpace(entry.Description),
		Metadata:      payload,
	}

	if entry.UserID != nil && strings.TrimSpace(*entry.UserID) != "" {
		id := strings.TrimSpace(*entry.UserID)
		record.UserID = &id
	}

	return tx.WithContext(ctx).Create(&record).Error
}

// List returns ledger entries newest first, restricted to the caller's scope.
func (s *ActivityService) List(ctx context.Context, scope AccessScope, opts ActivityListOptions) ([]models.ApplicationActivity, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.ApplicationActivity{}).
		Where("application_id IN (?)",
			scopedApplications(s.db.Session(&gorm.Session{NewDB: true}).Model(&models.JobApplication{}), scope).
				Select("job_applications.id"))
	query = applyActivityFilters(query, opts.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("activity service: count entries: %w", err)
	}

	var results []models.ApplicationActivity
	if err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("activity service: list entries: %w", err)
	}

	return results, total, nil
}

func applyActivityFilters(query *gorm.DB, filters ActivityFilters) *gorm.DB {
	if filters.ApplicationID != "" {
		query = query.Where("application_id = ?", filters.ApplicationID)
	}
	if filters.Type != "" {
		query = query.Where("activity_type = ?", filters.Type)
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", *filters.Since)
	}
	if filters.Until != nil {
		query = query.Where("created_at <= ?", *filters.Until)
	}
	return query
}
