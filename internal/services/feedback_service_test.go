package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

func TestFeedbackServiceDraftAndSubmit(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newFeedbackTestService(t, db)
	scope, interview, interviewer := seedFeedbackFixtures(t, db)

	interviewerScope := AccessScope{
		UserID:         interviewer.ID,
		OrganizationID: scope.OrganizationID,
		Role:           models.RoleInterviewer,
	}

	ctx := context.Background()
	draft, err := svc.CreateDraft(ctx, interviewerScope, interview.ID, FeedbackInput{
		Recommendation: models.RecommendHire,
		OverallRating:  4,
		Strengths:      "Strong system design discussion",
	})
	require.NoError(t, err)
	require.False(t, draft.IsSubmitted)

	_, err = svc.CreateDraft(ctx, interviewerScope, interview.ID, FeedbackInput{})
	require.ErrorIs(t, err, ErrDuplicateFeedback)

	draft, err = svc.UpdateDraft(ctx, interviewerScope, draft.ID, FeedbackInput{
		Recommendation: models.RecommendStrongHire,
		OverallRating:  5,
		Strengths:      "Exceptional depth in distributed systems",
	})
	require.NoError(t, err)
	require.Equal(t, models.RecommendStrongHire, draft.Recommendation)

	submitted, err := svc.Submit(ctx, interviewerScope, draft.ID)
	require.NoError(t, err)
	require.True(t, submitted.IsSubmitted)
	require.NotNil(t, submitted.SubmittedAt)
	require.Equal(t, int64(1), countActivities(t, db, interview.ApplicationID, models.ActivityFeedbackSubmitted))

	_, err = svc.Submit(ctx, interviewerScope, draft.ID)
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	_, err = svc.UpdateDraft(ctx, interviewerScope, draft.ID, FeedbackInput{OverallRating: 2})
	require.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestFeedbackServiceSubmitRequiresVerdict(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newFeedbackTestService(t, db)
	scope, interview, interviewer := seedFeedbackFixtures(t, db)

	interviewerScope := AccessScope{
		UserID:         interviewer.ID,
		OrganizationID: scope.OrganizationID,
		Role:           models.RoleInterviewer,
	}

	ctx := context.Background()
	draft, err := svc.CreateDraft(ctx, interviewerScope, interview.ID, FeedbackInput{
		DetailedNotes: "partial notes only",
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, interviewerScope, draft.ID)
	require.ErrorIs(t, err, ErrInvalidFeedback)

	reloaded, err := svc.GetByID(ctx, interviewerScope, draft.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsSubmitted)
}

func TestFeedbackServiceRejectsOutOfRangeRatings(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newFeedbackTestService(t, db)
	scope, interview, interviewer := seedFeedbackFixtures(t, db)

	interviewerScope := AccessScope{
		UserID:         interviewer.ID,
		OrganizationID: scope.OrganizationID,
		Role:           models.RoleInterviewer,
	}

	ctx := context.Background()
	_, err := svc.CreateDraft(ctx, interviewerScope, interview.ID, FeedbackInput{OverallRating: 6})
	require.ErrorIs(t, err, ErrInvalidFeedback)

	bad := 0
	_, err = svc.CreateDraft(ctx, interviewerScope, interview.ID, FeedbackInput{TechnicalRating: &bad})
	require.ErrorIs(t, err, ErrInvalidFeedback)
}

func TestFeedbackServiceOnlyAssignedInterviewers(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newFeedbackTestService(t, db)
	scope, interview, _ := seedFeedbackFixtures(t, db)

	outsider := models.User{
		Email:          "outsider@acme.test",
		Password:       "not-a-real-hash",
		Role:           models.RoleInterviewer,
		OrganizationID: &scope.OrganizationID,
	}
	require.NoError(t, db.Create(&outsider).Error)

	outsiderScope := AccessScope{
		UserID:         outsider.ID,
		OrganizationID: scope.OrganizationID,
		Role:           models.RoleInterviewer,
	}

	_, err := svc.CreateDraft(context.Background(), outsiderScope, interview.ID, FeedbackInput{})
	require.ErrorIs(t, err, ErrInterviewNotFound)
}

func TestFeedbackServiceReadiness(t *testing.T) {
	db := openInterviewTestDB(t)
	svc := newFeedbackTestService(t, db)
	scope, interview, interviewer := seedFeedbackFixtures(t, db)

	interviewerScope := AccessScope{
		UserID:         interviewer.ID,
		OrganizationID: scope.OrganizationID,
		Role:           models.RoleInterviewer,
	}

	ctx := context.Background()
	readiness, err := svc.Readiness(ctx, scope, interview.ID)
	require.NoError(t, err)
	require.Equal(t, 1, readiness.Assigned)
	require.Equal(t, 0, readiness.Submitted)
	require.False(t, readiness.Complete)

	draft, err := svc.CreateDraft(ctx, interviewerScope, interview.ID, FeedbackInput{
		Recommendation: models.RecommendMaybe,
		OverallRating:  3,
	})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, interviewerScope, draft.ID)
	require.NoError(t, err)

	readiness, err = svc.Readiness(ctx, scope, interview.ID)
	require.NoError(t, err)
	require.Equal(t, 1, readiness.Submitted)
	require.True(t, readiness.Complete)
}

func newFeedbackTestService(t *testing.T, db *gorm.DB) *FeedbackService {
	t.Helper()

	activity, err := NewActivityService(db)
	require.NoError(t, err)
	svc, err := NewFeedbackService(db, activity)
	require.NoError(t, err)
	return svc
}

func seedFeedbackFixtures(t *testing.T, db *gorm.DB) (AccessScope, models.Interview, models.User) {
	t.Helper()

	scope, app, interviewer := seedInterviewFixtures(t, db)

	interview := models.Interview{
		ApplicationID: app.ID,
		InterviewType: models.InterviewTechnical,
		ScheduledAt:   time.Now().Add(-2 * time.Hour),
		Status:        models.InterviewCompleted,
		Interviewers:  []models.User{interviewer},
	}
	require.NoError(t, db.Create(&interview).Error)

	return scope, interview, interviewer
}
