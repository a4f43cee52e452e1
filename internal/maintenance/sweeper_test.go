package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
)

func TestSweeperRejectsStaleApplications(t *testing.T) {
	db := openSweeperTestDB(t)
	pipeline := newSweeperPipeline(t, db)

	org := models.Organization{Name: "Acme Hiring", Slug: "acme-hiring"}
	require.NoError(t, db.Create(&org).Error)

	window := 14
	job := models.Job{
		OrganizationID:      org.ID,
		Title:               "Backend Engineer",
		Status:              models.JobStatusOpen,
		AutoRejectAfterDays: &window,
	}
	require.NoError(t, db.Create(&job).Error)

	stale := seedSweeperApplication(t, db, job.ID, "stale@example.com", time.Now().AddDate(0, 0, -20))
	fresh := seedSweeperApplication(t, db, job.ID, "fresh@example.com", time.Now().AddDate(0, 0, -3))

	sweeper := NewSweeper(db, pipeline)
	rejected, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rejected)

	var reloaded models.JobApplication
	require.NoError(t, db.First(&reloaded, "id = ?", stale.ID).Error)
	require.Equal(t, models.StageRejected, reloaded.Stage)
	require.Equal(t, models.ApplicationRejected, reloaded.Status)
	require.Contains(t, reloaded.RejectionReason, "14 days")

	// The ledger entry carries no actor.
	var activity models.ApplicationActivity
	require.NoError(t, db.First(&activity, "application_id = ?", stale.ID).Error)
	require.Nil(t, activity.UserID)

	var untouched models.JobApplication
	require.NoError(t, db.First(&untouched, "id = ?", fresh.ID).Error)
	require.Equal(t, models.StageApplied, untouched.Stage)
}

func TestSweeperSkipsJobsWithoutWindow(t *testing.T) {
	db := openSweeperTestDB(t)
	pipeline := newSweeperPipeline(t, db)

	org := models.Organization{Name: "Acme Hiring", Slug: "acme-hiring"}
	require.NoError(t, db.Create(&org).Error)

	job := models.Job{
		OrganizationID: org.ID,
		Title:          "No Window Role",
		Status:         models.JobStatusOpen,
	}
	require.NoError(t, db.Create(&job).Error)

	app := seedSweeperApplication(t, db, job.ID, "old@example.com", time.Now().AddDate(0, -6, 0))

	sweeper := NewSweeper(db, pipeline)
	rejected, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, rejected)

	var reloaded models.JobApplication
	require.NoError(t, db.First(&reloaded, "id = ?", app.ID).Error)
	require.Equal(t, models.StageApplied, reloaded.Stage)
}

func TestSweeperIgnoresTerminalApplications(t *testing.T) {
	db := openSweeperTestDB(t)
	pipeline := newSweeperPipeline(t, db)

	org := models.Organization{Name: "Acme Hiring", Slug: "acme-hiring"}
	require.NoError(t, db.Create(&org).Error)

	window := 7
	job := models.Job{
		OrganizationID:      org.ID,
		Title:               "Backend Engineer",
		Status:              models.JobStatusOpen,
		AutoRejectAfterDays: &window,
	}
	require.NoError(t, db.Create(&job).Error)

	app := seedSweeperApplication(t, db, job.ID, "hired@example.com", time.Now().AddDate(0, 0, -30))
	require.NoError(t, db.Model(&models.JobApplication{}).
		Where("id = ?", app.ID).
		Updates(map[string]any{"stage": models.StageHired, "status": models.ApplicationHired}).Error)

	sweeper := NewSweeper(db, pipeline)
	rejected, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, rejected)
}

func newSweeperPipeline(t *testing.T, db *gorm.DB) *services.PipelineService {
	t.Helper()

	activity, err := services.NewActivityService(db)
	require.NoError(t, err)
	pipeline, err := services.NewPipelineService(db, activity)
	require.NoError(t, err)
	return pipeline
}

func seedSweeperApplication(t *testing.T, db *gorm.DB, jobID, email string, stageUpdatedAt time.Time) models.JobApplication {
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

	app := models.JobApplication{
		JobID:          jobID,
		CandidateID:    candidate.ID,
		Stage:          models.StageApplied,
		Status:         models.ApplicationActive,
		StageUpdatedAt: stageUpdatedAt,
	}
	require.NoError(t, db.Create(&app).Error)
	return app
}

func openSweeperTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Job{},
		&models.Candidate{},
		&models.JobApplication{},
		&models.ApplicationActivity{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
