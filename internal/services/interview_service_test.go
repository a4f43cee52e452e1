package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

func TestInterviewServiceScheduleAndLifecycle(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newInterviewTestService(t, db)
	scope, app, interviewer := seedInterviewFixtures(t, db)

	ctx := context.Background()
	interview, err := svc.Schedule(ctx, scope, ScheduleInterviewInput{
		ApplicationID:  app.ID,
		InterviewType:  models.InterviewTechnical,
		ScheduledAt:    time.Now().Add(48 * time.Hour),
		InterviewerIDs: []string{interviewer.ID},
	})
	require.NoError(t, err)
	require.Equal(t, models.InterviewScheduled, interview.Status)
	require.Equal(t, int64(1), countActivities(t, db, app.ID, models.ActivityInterviewScheduled))

	interview, err = svc.Confirm(ctx, scope, interview.ID)
	require.NoError(t, err)
	require.Equal(t, models.InterviewConfirmed, interview.Status)
	require.NotNil(t, interview.ConfirmedAt)

	interview, err = svc.Start(ctx, scope, interview.ID)
	require.NoError(t, err)
	require.Equal(t, models.InterviewInProgress, interview.Status)

	interview, err = svc.Complete(ctx, scope, interview.ID)
	require.NoError(t, err)
	require.Equal(t, models.InterviewCompleted, interview.Status)
	require.NotNil(t, interview.CompletedAt)

	_, err = svc.Confirm(ctx, scope, interview.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Cancel(ctx, scope, interview.ID, "no longer needed")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInterviewServiceScheduleGuards(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newInterviewTestService(t, db)
	scope, app, interviewer := seedInterviewFixtures(t, db)

	ctx := context.Background()

	_, err := svc.Schedule(ctx, scope, ScheduleInterviewInput{
		ApplicationID:  "missing",
		InterviewType:  models.InterviewTechnical,
		ScheduledAt:    time.Now().Add(time.Hour),
		InterviewerIDs: []string{interviewer.ID},
	})
	require.ErrorIs(t, err, ErrApplicationNotFound)

	require.NoError(t, db.Model(&models.JobApplication{}).
		Where("id = ?", app.ID).
		Updates(map[string]any{"stage": models.StageRejected, "status": models.ApplicationRejected}).Error)

	_, err = svc.Schedule(ctx, scope, ScheduleInterviewInput{
		ApplicationID:  app.ID,
		InterviewType:  models.InterviewTechnical,
		ScheduledAt:    time.Now().Add(time.Hour),
		InterviewerIDs: []string{interviewer.ID},
	})
	require.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestInterviewServiceNoShowAndCancel(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newInterviewTestService(t, db)
	scope, app, interviewer := seedInterviewFixtures(t, db)

	ctx := context.Background()
	first, err := svc.Schedule(ctx, scope, ScheduleInterviewInput{
		ApplicationID:  app.ID,
		InterviewType:  models.InterviewPhoneScreen,
		ScheduledAt:    time.Now().Add(24 * time.Hour),
		InterviewerIDs: []string{interviewer.ID},
	})
	require.NoError(t, err)

	first, err = svc.MarkNoShow(ctx, scope, first.ID)
	require.NoError(t, err)
	require.Equal(t, models.InterviewNoShow, first.Status)

	second, err := svc.Schedule(ctx, scope, ScheduleInterviewInput{
		ApplicationID:  app.ID,
		InterviewType:  models.InterviewOnsite,
		ScheduledAt:    time.Now().Add(72 * time.Hour),
		InterviewerIDs: []string{interviewer.ID},
	})
	require.NoError(t, err)

	second, err = svc.Cancel(ctx, scope, second.ID, "candidate unavailable")
	require.NoError(t, err)
	require.Equal(t, models.InterviewCancelled, second.Status)
	require.NotNil(t, second.CancelledAt)
	require.Equal(t, "candidate unavailable", second.CancellationReason)

	_, err = svc.Cancel(ctx, scope, second.ID, "twice")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInterviewServiceReschedule(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newInterviewTestService(t, db)
	scope, app, interviewer := seedInterviewFixtures(t, db)

	ctx := context.Background()
	original, err := svc.Schedule(ctx, scope, ScheduleInterviewInput{
		ApplicationID:   app.ID,
		InterviewType:   models.InterviewTechnical,
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		DurationMinutes: 90,
		InterviewerIDs:  []string{interviewer.ID},
	})
	require.NoError(t, err)

	newSlot := time.Now().Add(96 * time.Hour)
	replacement, err := svc.Reschedule(ctx, scope, original.ID, RescheduleInterviewInput{
		ScheduledAt: newSlot,
	})
	require.NoError(t, err)
	require.NotEqual(t, original.ID, replacement.ID)
	require.Equal(t, models.InterviewScheduled, replacement.Status)
	require.Equal(t, 90, replacement.DurationMinutes)
	require.WithinDuration(t, newSlot, replacement.ScheduledAt, time.Second)

	old, err := svc.GetByID(ctx, scope, original.ID)
	require.NoError(t, err)
	require.Equal(t, models.InterviewRescheduled, old.Status)

	_, err = svc.Reschedule(ctx, scope, old.ID, RescheduleInterviewInput{ScheduledAt: newSlot})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func newInterviewTestService(t *testing.T, db *gorm.DB) *InterviewService {
	t.Helper()

	activity, err := NewActivityService(db)
	require.NoError(t, err)
	svc, err := NewInterviewService(db, activity)
	require.NoError(t, err)
	return svc
}

func seedInterviewFixtures(t *testing.T, db *gorm.DB) (AccessScope, models.JobApplication, models.User) {
	t.Helper()

	scope, job, candidate := seedPipelineFixtures(t, db)

	interviewer := models.User{
		Email:          "interviewer@acme.test",
		Password:       "not-a-real-hash",
		FirstName:      "Iris",
		LastName:       "Okafor",
		Role:           models.RoleInterviewer,
		OrganizationID: &job.OrganizationID,
	}
	require.NoError(t, db.Create(&interviewer).Error)

	app := models.JobApplication{
		JobID:          job.ID,
		CandidateID:    candidate.ID,
		Stage:          models.StageTechnical,
		Status:         models.ApplicationActive,
		StageUpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&app).Error)

	return scope, app, interviewer
}

func openInterviewTestDB(t *testing.T) *gorm.DB {
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
		&models.Interview{},
		&models.InterviewFeedback{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
