package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

func TestAnalyticsServiceStageFunnelIncludesZeroes(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	scope, job, _ := seedPipelineFixtures(t, db)

	seedApplication(t, db, job.ID, "a@example.com", models.StageApplied, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "b@example.com", models.StageApplied, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "c@example.com", models.StageTechnical, models.ApplicationActive, nil)

	funnel, err := svc.StageFunnel(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.Len(t, funnel, len(models.AllStages))

	counts := map[models.Stage]int64{}
	for _, row := range funnel {
		counts[row.Stage] = row.Count
	}
	require.Equal(t, int64(2), counts[models.StageApplied])
	require.Equal(t, int64(1), counts[models.StageTechnical])
	require.Equal(t, int64(0), counts[models.StageOffer])
	require.Equal(t, int64(0), counts[models.StageHired])
}

func TestAnalyticsServiceTimeToFill(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	scope, job, _ := seedPipelineFixtures(t, db)

	posted := time.Now().AddDate(0, 0, -20)
	require.NoError(t, db.Model(&models.Job{}).
		Where("id = ?", job.ID).
		Update("posted_date", posted).Error)

	// No hires yet.
	ttf, err := svc.TimeToFill(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.Zero(t, ttf)

	hiredAt := posted.AddDate(0, 0, 10)
	seedApplication(t, db, job.ID, "hired@example.com", models.StageHired, models.ApplicationHired, &hiredAt)

	ttf, err = svc.TimeToFill(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.InDelta(t, 10.0, ttf, 0.1)
}

func TestAnalyticsServiceOfferAcceptanceRate(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	scope, job, _ := seedPipelineFixtures(t, db)

	rate, err := svc.OfferAcceptanceRate(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.Zero(t, rate)

	seedApplication(t, db, job.ID, "o1@example.com", models.StageOffer, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "h1@example.com", models.StageHired, models.ApplicationHired, nil)
	seedApplication(t, db, job.ID, "h2@example.com", models.StageHired, models.ApplicationHired, nil)
	seedApplication(t, db, job.ID, "h3@example.com", models.StageHired, models.ApplicationHired, nil)

	rate, err = svc.OfferAcceptanceRate(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.InDelta(t, 75.0, rate, 0.01)
}

func TestAnalyticsServiceConversionRates(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	scope, job, _ := seedPipelineFixtures(t, db)

	// 4 applied, 2 reached screening, 1 hired via the full funnel.
	seedApplication(t, db, job.ID, "a@example.com", models.StageApplied, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "b@example.com", models.StageApplied, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "c@example.com", models.StageScreening, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "d@example.com", models.StageHired, models.ApplicationHired, nil)

	rates, err := svc.ConversionRates(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.Len(t, rates, 7)

	applied := rates[0]
	require.Equal(t, models.StageApplied, applied.Stage)
	require.Equal(t, int64(4), applied.Entered)
	require.Equal(t, int64(2), applied.Passed)
	require.InDelta(t, 50.0, applied.Rate, 0.01)

	offer := rates[6]
	require.Equal(t, models.StageOffer, offer.Stage)
	require.Equal(t, int64(1), offer.Entered)
	require.Equal(t, int64(1), offer.Passed)
}

func TestAnalyticsServiceDashboard(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	scope, job, _ := seedPipelineFixtures(t, db)

	stale := time.Now().AddDate(0, 0, -40)
	require.NoError(t, db.Model(&models.Job{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{"posted_date": stale, "sla_days": 21}).Error)

	seedApplication(t, db, job.ID, "live@example.com", models.StageScreening, models.ApplicationActive, nil)

	summary, err := svc.Dashboard(context.Background(), scope)
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.OpenJobs)
	require.Equal(t, int64(1), summary.OverdueJobs)
	require.Equal(t, int64(1), summary.ActiveApplications)
	require.Zero(t, summary.InterviewsThisWeek)
	require.Zero(t, summary.TimeToFillDays)
	require.Zero(t, summary.OfferAcceptance)
	require.Len(t, summary.Funnel, len(models.AllStages))
}

func TestAnalyticsServiceForJobConversionAndNextAction(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	scope, job, _ := seedPipelineFixtures(t, db)

	analytics, err := svc.ForJob(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.Zero(t, analytics.ConversionRate)
	require.Contains(t, analytics.NextAction, "Source candidates")

	seedApplication(t, db, job.ID, "a@example.com", models.StageApplied, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "b@example.com", models.StageScreening, models.ApplicationActive, nil)
	seedApplication(t, db, job.ID, "c@example.com", models.StageRejected, models.ApplicationRejected, nil)
	seedApplication(t, db, job.ID, "d@example.com", models.StageHired, models.ApplicationHired, nil)

	analytics, err = svc.ForJob(context.Background(), scope, job.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), analytics.TotalApplications)
	require.InDelta(t, 25.0, analytics.ConversionRate, 0.01)
	require.Equal(t, "Advance active candidates to their next stage.", analytics.NextAction)
}

func TestAnalyticsServiceSourcePerformance(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	scope, job, _ := seedPipelineFixtures(t, db)

	seedSourcedApplication(t, db, job.ID, "r1@example.com", "referral", models.StageHired, models.ApplicationHired)
	seedSourcedApplication(t, db, job.ID, "r2@example.com", "referral", models.StageScreening, models.ApplicationActive)
	seedSourcedApplication(t, db, job.ID, "j1@example.com", "job_board", models.StageApplied, models.ApplicationActive)
	seedSourcedApplication(t, db, job.ID, "u1@example.com", "", models.StageApplied, models.ApplicationActive)

	stats, err := svc.SourcePerformance(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	bySource := map[string]SourceStats{}
	for _, stat := range stats {
		bySource[stat.Source] = stat
	}

	referral := bySource["referral"]
	require.Equal(t, int64(2), referral.Applications)
	require.Equal(t, int64(1), referral.Hired)
	require.InDelta(t, 50.0, referral.ConversionRate, 0.01)

	require.Equal(t, int64(1), bySource["job_board"].Applications)
	require.Zero(t, bySource["job_board"].ConversionRate)

	require.Equal(t, int64(1), bySource["unknown"].Applications)
}

func seedSourcedApplication(t *testing.T, db *gorm.DB, jobID, email, source string, stage models.Stage, status models.ApplicationStatus) models.JobApplication {
	t.Helper()

	var job models.Job
	require.NoError(t, db.First(&job, "id = ?", jobID).Error)

	candidate := models.Candidate{
		OrganizationID: job.OrganizationID,
		FirstName:      "Fixture",
		LastName:       "Candidate",
		Email:          email,
		Source:         source,
	}
	require.NoError(t, db.Create(&candidate).Error)

	app := models.JobApplication{
		JobID:          jobID,
		CandidateID:    candidate.ID,
		Stage:          stage,
		Status:         status,
		StageUpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&app).Error)
	return app
}

func TestAnalyticsServiceForJobScoping(t *testing.T) {
	db := openPipelineTestDB(t)
	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	_, job, _ := seedPipelineFixtures(t, db)

	outsider := models.Organization{Name: "Rival Corp", Slug: "rival-corp"}
	require.NoError(t, db.Create(&outsider).Error)
	foreign := AccessScope{UserID: "x", OrganizationID: outsider.ID, Role: models.RoleRecruiter}

	_, err = svc.ForJob(context.Background(), foreign, job.ID)
	require.ErrorIs(t, err, ErrJobNotFound)
}

func seedApplication(t *testing.T, db *gorm.DB, jobID, email string, stage models.Stage, status models.ApplicationStatus, stageUpdatedAt *time.Time) models.JobApplication {
	t.Helper()

	var job models.Job
	require.NoError(t, db.First(&job, "id = ?", jobID).Error)

	candidate := models.Candidate{
		OrganizationID: job.OrganizationID,
		FirstName:      "Fixture",
		LastName:       "Candidate",
		Email:          email,
	}
	require.NoError(t, db.Create(&candidate).Error)

	updated := time.Now()
	if stageUpdatedAt != nil {
		updated = *stageUpdatedAt
	}

	app := models.JobApplication{
		JobID:          jobID,
		CandidateID:    candidate.ID,
		Stage:          stage,
		Status:         status,
		StageUpdatedAt: updated,
	}
	require.NoError(t, db.Create(&app).Error)
	return app
}
