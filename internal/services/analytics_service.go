package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// StageCount is one funnel row. Every pipeline stage appears exactly once,
// zero counts included.
type StageCount struct {
	Stage models.Stage `json:"stage"`
	Count int64        `json:"count"`
}

// ConversionRate reports how many applications that reached a stage moved
// past it.
type ConversionRate struct {
	Stage   models.Stage `json:"stage"`
	Entered int64        `json:"entered"`
	Passed  int64        `json:"passed"`
	Rate    float64      `json:"rate"`
}

// DashboardSummary aggregates the headline numbers for an organization.
type DashboardSummary struct {
	OpenJobs           int64        `json:"open_jobs"`
	OverdueJobs        int64        `json:"overdue_jobs"`
	ActiveApplications int64        `json:"active_applications"`
	InterviewsThisWeek int64        `json:"interviews_this_week"`
	HiresThisMonth     int64        `json:"hires_this_month"`
	TimeToFillDays     float64      `json:"time_to_fill_days"`
	OfferAcceptance    float64      `json:"offer_acceptance_rate"`
	Funnel             []StageCount `json:"funnel"`
}

// JobAnalytics aggregates pipeline health for one posting.
type JobAnalytics struct {
	JobID             string       `json:"job_id"`
	Title             string       `json:"title"`
	DaysOpen          int          `json:"days_open"`
	IsOverdue         bool         `json:"is_overdue"`
	TotalApplications int64        `json:"total_applications"`
	ActiveCount       int64        `json:"active_count"`
	HiredCount        int64        `json:"hired_count"`
	RejectedCount     int64        `json:"rejected_count"`
	ConversionRate    float64      `json:"conversion_rate"`
	NextAction        string       `json:"next_action"`
	Funnel            []StageCount `json:"funnel"`
}

// SourceStats reports how candidates from one sourcing channel convert.
type SourceStats struct {
	Source         string  `json:"source"`
	Applications   int64   `json:"applications"`
	Hired          int64   `json:"hired"`
	ConversionRate float64 `json:"conversion_rate"`
}

// AnalyticsService answers reporting queries. All numbers are computed from
// live rows; nothing is precomputed or cached.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(db *gorm.DB) (*AnalyticsService, error) {
	if db == nil {
		return nil, errors.New("analytics service: db is required")
	}
	return &AnalyticsService{db: db}, nil
}

// StageFunnel counts applications per pipeline stage in funnel order.
func (s *AnalyticsService) StageFunnel(ctx context.Context, scope AccessScope, jobID string) ([]StageCount, error) {
	ctx = ensureContext(ctx)
	return s.funnel(s.db.WithContext(ctx), scope, jobID)
}

// TimeToFill returns the mean number of days from job posting to hire across
// hired applications, 0 when nothing has been hired yet.
func (s *AnalyticsService) TimeToFill(ctx context.Context, scope AccessScope, jobID string) (float64, error) {
	ctx = ensureContext(ctx)
	return s.timeToFill(s.db.WithContext(ctx), scope, jobID)
}

// OfferAcceptanceRate returns hired / (offer + hired) as a percentage, 0
// when no offers have been extended.
func (s *AnalyticsService) OfferAcceptanceRate(ctx context.Context, scope AccessScope, jobID string) (float64, error) {
	ctx = ensureContext(ctx)
	return s.offerAcceptance(s.db.WithContext(ctx), scope, jobID)
}

// ConversionRates reports, per non-terminal stage, how many applications
// entered it and how many moved beyond it. An application at stage N has
// passed every earlier stage.
func (s *AnalyticsService) ConversionRates(ctx context.Context, scope AccessScope, jobID string) ([]ConversionRate, error) {
	ctx = ensureContext(ctx)

	funnel, err := s.funnel(s.db.WithContext(ctx), scope, jobID)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Stage]int64, len(funnel))
	for _, row := range funnel {
		counts[row.Stage] = row.Count
	}

	ordered := []models.Stage{
		models.StageApplied,
		models.StageScreening,
		models.StagePhoneScreen,
		models.StageTechnical,
		models.StageOnsite,
		models.StageFinal,
		models.StageOffer,
	}
	hired := counts[models.StageHired]

	rates := make([]ConversionRate, 0, len(ordered))
	// Applications at later stages have passed every earlier one; terminal
	// rejections and withdrawals do not count as passing.
	remaining := hired
	for i := len(ordered) - 1; i >= 0; i-- {
		stage := ordered[i]
		entered := remaining + counts[stage]
		passed := remaining
		rate := ConversionRate{Stage: stage, Entered: entered, Passed: passed}
		if entered > 0 {
			rate.Rate = float64(passed) / float64(entered) * 100
		}
		rates = append(rates, rate)
		remaining = entered
	}

	// Reverse into funnel order.
	for i, j := 0, len(rates)-1; i < j; i, j = i+1, j-1 {
		rates[i], rates[j] = rates[j], rates[i]
	}
	return rates, nil
}

// Dashboard assembles the organization-wide summary.
func (s *AnalyticsService) Dashboard(ctx context.Context, scope AccessScope) (*DashboardSummary, error) {
	ctx = ensureContext(ctx)
	db := s.db.WithContext(ctx)
	now := time.Now()

	summary := &DashboardSummary{}

	if err := scopedByOrg(db.Model(&models.Job{}), scope).
		Where("status = ?", models.JobStatusOpen).
		Count(&summary.OpenJobs).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count open jobs: %w", err)
	}

	var openJobs []models.Job
	if err := scopedByOrg(db.Model(&models.Job{}), scope).
		Where("status = ? AND posted_date IS NOT NULL", models.JobStatusOpen).
		Find(&openJobs).Error; err != nil {
		return nil, fmt.Errorf("analytics service: load open jobs: %w", err)
	}
	for _, job := range openJobs {
		if job.IsOverdue(now) {
			summary.OverdueJobs++
		}
	}

	if err := scopedApplications(db.Model(&models.JobApplication{}), scope).
		Where("status = ?", models.ApplicationActive).
		Count(&summary.ActiveApplications).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count active applications: %w", err)
	}

	weekEnd := now.AddDate(0, 0, 7)
	if err := scopedInterviews(db.Model(&models.Interview{}), scope).
		Where("scheduled_at BETWEEN ? AND ?", now, weekEnd).
		Where("status IN ?", []models.InterviewStatus{models.InterviewScheduled, models.InterviewConfirmed}).
		Count(&summary.InterviewsThisWeek).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count interviews: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := scopedApplications(db.Model(&models.JobApplication{}), scope).
		Where("stage = ? AND stage_updated_at >= ?", models.StageHired, monthStart).
		Count(&summary.HiresThisMonth).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count hires: %w", err)
	}

	ttf, err := s.timeToFill(db, scope, "")
	if err != nil {
		return nil, err
	}
	summary.TimeToFillDays = ttf

	acceptance, err := s.offerAcceptance(db, scope, "")
	if err != nil {
		return nil, err
	}
	summary.OfferAcceptance = acceptance

	funnel, err := s.funnel(db, scope, "")
	if err != nil {
		return nil, err
	}
	summary.Funnel = funnel

	return summary, nil
}

// ForJob assembles per-posting analytics.
func (s *AnalyticsService) ForJob(ctx context.Context, scope AccessScope, jobID string) (*JobAnalytics, error) {
	ctx = ensureContext(ctx)
	db := s.db.WithContext(ctx)

	var job models.Job
	err := scopedByOrg(db, scope).First(&job, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("analytics service: load job: %w", err)
	}

	now := time.Now()
	analytics := &JobAnalytics{
		JobID:     job.ID,
		Title:     job.Title,
		DaysOpen:  job.DaysOpen(now),
		IsOverdue: job.Status == models.JobStatusOpen && job.IsOverdue(now),
	}

	base := db.Model(&models.JobApplication{}).Where("job_id = ?", job.ID)
	if err := base.Session(&gorm.Session{}).Count(&analytics.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count applications: %w", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.ApplicationActive).
		Count(&analytics.ActiveCount).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count active: %w", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("stage = ?", models.StageHired).
		Count(&analytics.HiredCount).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count hired: %w", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("stage = ?", models.StageRejected).
		Count(&analytics.RejectedCount).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count rejected: %w", err)
	}

	if analytics.TotalApplications > 0 {
		analytics.ConversionRate = float64(analytics.HiredCount) / float64(analytics.TotalApplications) * 100
	}

	funnel, err := s.funnel(db, scope, job.ID)
	if err != nil {
		return nil, err
	}
	analytics.Funnel = funnel
	analytics.NextAction = suggestNextAction(analytics)

	return analytics, nil
}

// SourcePerformance breaks down applications and hires by candidate source.
// Candidates without a recorded source are grouped under "unknown".
func (s *AnalyticsService) SourcePerformance(ctx context.Context, scope AccessScope) ([]SourceStats, error) {
	ctx = ensureContext(ctx)

	type sourceRow struct {
		Source string
		Total  int64
		Hired  int64
	}

	var rows []sourceRow
	err := scopedApplications(s.db.WithContext(ctx).Model(&models.JobApplication{}), scope).
		Joins("JOIN candidates ON candidates.id = job_applications.candidate_id").
		Select("candidates.source AS source, COUNT(*) AS total, SUM(CASE WHEN job_applications.stage = ? THEN 1 ELSE 0 END) AS hired", models.StageHired).
		Group("candidates.source").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("analytics service: count sources: %w", err)
	}

	stats := make([]SourceStats, 0, len(rows))
	for _, row := range rows {
		stat := SourceStats{Source: row.Source, Applications: row.Total, Hired: row.Hired}
		if stat.Source == "" {
			stat.Source = "unknown"
		}
		if row.Total > 0 {
			stat.ConversionRate = float64(row.Hired) / float64(row.Total) * 100
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func suggestNextAction(analytics *JobAnalytics) string {
	if analytics.TotalApplications == 0 {
		return "Source candidates: the posting has no applications yet."
	}
	for _, row := range analytics.Funnel {
		if row.Stage == models.StageOffer && row.Count > 0 {
			return "Follow up on outstanding offers."
		}
	}
	if analytics.IsOverdue {
		return "Review the pipeline: the posting is past its target close date."
	}
	if analytics.ActiveCount == 0 {
		return "Re-engage: no active candidates remain in the pipeline."
	}
	return "Advance active candidates to their next stage."
}

func (s *AnalyticsService) funnel(db *gorm.DB, scope AccessScope, jobID string) ([]StageCount, error) {
	query := scopedApplications(db.Model(&models.JobApplication{}), scope)
	if jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var rows []StageCount
	if err := query.
		Select("stage, COUNT(*) AS count").
		Group("stage").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count stages: %w", err)
	}

	counts := make(map[models.Stage]int64, len(rows))
	for _, row := range rows {
		counts[row.Stage] = row.Count
	}

	funnel := make([]StageCount, 0, len(models.AllStages))
	for _, stage := range models.AllStages {
		funnel = append(funnel, StageCount{Stage: stage, Count: counts[stage]})
	}
	return funnel, nil
}

func (s *AnalyticsService) timeToFill(db *gorm.DB, scope AccessScope, jobID string) (float64, error) {
	query := scopedApplications(db.Model(&models.JobApplication{}), scope).
		Where("stage = ?", models.StageHired)
	if jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var hired []models.JobApplication
	if err := query.Preload("Job").Find(&hired).Error; err != nil {
		return 0, fmt.Errorf("analytics service: load hires: %w", err)
	}

	var total float64
	var counted int
	for _, app := range hired {
		if app.Job == nil || app.Job.PostedDate == nil {
			continue
		}
		days := app.StageUpdatedAt.Sub(*app.Job.PostedDate).Hours() / 24
		if days < 0 {
			days = 0
		}
		total += days
		counted++
	}
	if counted == 0 {
		return 0, nil
	}

	return total / float64(counted), nil
}

func (s *AnalyticsService) offerAcceptance(db *gorm.DB, scope AccessScope, jobID string) (float64, error) {
	query := scopedApplications(db.Model(&models.JobApplication{}), scope).
		Where("stage IN ?", []models.Stage{models.StageOffer, models.StageHired})
	if jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var rows []StageCount
	if err := query.
		Select("stage, COUNT(*) AS count").
		Group("stage").
		Scan(&rows).Error; err != nil {
		return 0, fmt.Errorf("analytics service: count offers: %w", err)
	}

	var offered, hired int64
	for _, row := range rows {
		switch row.Stage {
		case models.StageOffer:
			offered = row.Count
		case models.StageHired:
			hired = row.Count
		}
	}

	denominator := offered + hired
	if denominator == 0 {
		return 0, nil
	}

	return float64(hired) / float64(denominator) * 100, nil
}
