package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/pkg/metrics"
)

// FeedbackInput carries the assessment fields shared by draft saves and
// final submission.
type FeedbackInput struct {
	Recommendation       models.Recommendation
	OverallRating        int
	TechnicalRating      *int
	CommunicationRating  *int
	ProblemSolvingRating *int
	CulturalFitRating    *int
	Strengths            string
	AreasForImprovement  string
	QuestionsAsked       []string
	DetailedNotes        string
	RedFlags             []string
}

// FeedbackReadiness summarises collection progress for one interview.
type FeedbackReadiness struct {
	InterviewID string `json:"interview_id"`
	Assigned    int    `json:"assigned"`
	Submitted   int    `json:"submitted"`
	Complete    bool   `json:"complete"`
}

// FeedbackService manages interviewer assessments. Drafts may be revised
// freely; a submitted assessment is immutable.
type FeedbackService struct {
	db       *gorm.DB
	activity *ActivityService
}

// NewFeedbackService constructs a FeedbackService instance.
func NewFeedbackService(db *gorm.DB, activity *ActivityService) (*FeedbackService, error) {
	if db == nil {
		return nil, errors.New("feedback service: db is required")
	}
	if activity == nil {
		return nil, errors.New("feedback service: activity service is required")
	}
	return &FeedbackService{db: db, activity: activity}, nil
}

// CreateDraft opens a draft assessment for the calling interviewer. Only
// interviewers assigned to the interview may write feedback on it.
func (s *FeedbackService) CreateDraft(ctx context.Context, scope AccessScope, interviewID string, input FeedbackInput) (*models.InterviewFeedback, error) {
	ctx = ensureContext(ctx)

	interview, err := s.loadInterview(ctx, scope, interviewID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAssigned(ctx, interview.ID, scope.UserID); err != nil {
		return nil, err
	}

	feedback := &models.InterviewFeedback{
		InterviewID:   interview.ID,
		InterviewerID: scope.UserID,
	}
	if err := applyFeedbackInput(feedback, input); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateFeedback
		}
		return nil, fmt.Errorf("feedback service: create feedback: %w", err)
	}

	return feedback, nil
}

// UpdateDraft revises an unsubmitted assessment owned by the caller.
func (s *FeedbackService) UpdateDraft(ctx context.Context, scope AccessScope, id string, input FeedbackInput) (*models.InterviewFeedback, error) {
	ctx = ensureContext(ctx)

	feedback, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if feedback.InterviewerID != scope.UserID && !scope.IsPlatformAdmin() {
		return nil, ErrFeedbackNotFound
	}
	if feedback.IsSubmitted {
		return nil, ErrAlreadySubmitted
	}

	if err := applyFeedbackInput(feedback, input); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(feedback).Error; err != nil {
		return nil, fmt.Errorf("feedback service: update feedback: %w", err)
	}

	return feedback, nil
}

// Submit finalises an assessment. Recommendation and a 1 to 5 overall
// rating are mandatory at this point; resubmission is rejected.
func (s *FeedbackService) Submit(ctx context.Context, scope AccessScope, id string) (*models.InterviewFeedback, error) {
	ctx = ensureContext(ctx)

	var result *models.InterviewFeedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		feedback, err := s.getWithin(tx, scope, id)
		if err != nil {
			return err
		}
		if feedback.InterviewerID != scope.UserID && !scope.IsPlatformAdmin() {
			return ErrFeedbackNotFound
		}
		if feedback.IsSubmitted {
			return ErrAlreadySubmitted
		}
		if feedback.Recommendation == "" {
			return fmt.Errorf("%w: recommendation is required to submit", ErrInvalidFeedback)
		}
		if feedback.OverallRating < 1 || feedback.OverallRating > 5 {
			return fmt.Errorf("%w: overall rating must be between 1 and 5", ErrInvalidFeedback)
		}

		now := time.Now()
		if err := tx.Model(&models.InterviewFeedback{}).
			Where("id = ? AND is_submitted = ?", feedback.ID, false).
			Updates(map[string]any{
				"is_submitted": true,
				"submitted_at": now,
			}).Error; err != nil {
			return fmt.Errorf("feedback service: submit feedback: %w", err)
		}

		var interview models.Interview
		if err := tx.First(&interview, "id = ?", feedback.InterviewID).Error; err != nil {
			return fmt.Errorf("feedback service: load interview: %w", err)
		}

		entry := ActivityEntry{
			ApplicationID: interview.ApplicationID,
			UserID:        scope.actorID(),
			Type:          models.ActivityFeedbackSubmitted,
			Description:   fmt.Sprintf("Interview feedback submitted: %s", feedback.Recommendation),
			Metadata: map[string]any{
				"interview_id":   feedback.InterviewID,
				"recommendation": feedback.Recommendation,
				"overall_rating": feedback.OverallRating,
			},
		}
		if err := s.activity.LogTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("feedback service: record activity: %w", err)
		}

		metrics.FeedbackSubmissions.WithLabelValues(string(feedback.Recommendation)).Inc()

		feedback.IsSubmitted = true
		feedback.SubmittedAt = &now
		result = feedback
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID loads an assessment within the caller's scope.
func (s *FeedbackService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.InterviewFeedback, error) {
	ctx = ensureContext(ctx)
	return s.getWithin(s.db.WithContext(ctx), scope, id)
}

// ListByInterview returns all assessments on an interview. Unsubmitted
// drafts are only visible to their authors.
func (s *FeedbackService) ListByInterview(ctx context.Context, scope AccessScope, interviewID string) ([]models.InterviewFeedback, error) {
	ctx = ensureContext(ctx)

	interview, err := s.loadInterview(ctx, scope, interviewID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("interview_id = ?", interview.ID).
		Where("is_submitted = ? OR interviewer_id = ?", true, scope.UserID)

	var feedbacks []models.InterviewFeedback
	if err := query.
		Preload("Interviewer").
		Order("created_at ASC").
		Find(&feedbacks).Error; err != nil {
		return nil, fmt.Errorf("feedback service: list feedback: %w", err)
	}
	return feedbacks, nil
}

// Readiness reports how many assigned interviewers have submitted feedback.
func (s *FeedbackService) Readiness(ctx context.Context, scope AccessScope, interviewID string) (*FeedbackReadiness, error) {
	ctx = ensureContext(ctx)

	interview, err := s.loadInterview(ctx, scope, interviewID)
	if err != nil {
		return nil, err
	}

	var assigned int64
	if err := s.db.WithContext(ctx).
		Table("interview_interviewers").
		Where("interview_id = ?", interview.ID).
		Count(&assigned).Error; err != nil {
		return nil, fmt.Errorf("feedback service: count interviewers: %w", err)
	}

	var submitted int64
	if err := s.db.WithContext(ctx).
		Model(&models.InterviewFeedback{}).
		Where("interview_id = ? AND is_submitted = ?", interview.ID, true).
		Count(&submitted).Error; err != nil {
		return nil, fmt.Errorf("feedback service: count submissions: %w", err)
	}

	return &FeedbackReadiness{
		InterviewID: interview.ID,
		Assigned:    int(assigned),
		Submitted:   int(submitted),
		Complete:    assigned > 0 && submitted >= assigned,
	}, nil
}

func (s *FeedbackService) getWithin(db *gorm.DB, scope AccessScope, id string) (*models.InterviewFeedback, error) {
	var feedback models.InterviewFeedback
	err := db.
		Where("interview_id IN (?)",
			scopedInterviews(db.Session(&gorm.Session{NewDB: true}).Model(&models.Interview{}), scope).
				Select("interviews.id")).
		First(&feedback, "interview_feedbacks.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("feedback service: load feedback: %w", err)
	}
	return &feedback, nil
}

func (s *FeedbackService) loadInterview(ctx context.Context, scope AccessScope, id string) (*models.Interview, error) {
	var interview models.Interview
	err := scopedInterviews(s.db.WithContext(ctx).Model(&models.Interview{}), scope).
		First(&interview, "interviews.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("feedback service: load interview: %w", err)
	}
	return &interview, nil
}

func (s *FeedbackService) ensureAssigned(ctx context.Context, interviewID, userID string) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Table("interview_interviewers").
		Where("interview_id = ? AND user_id = ?", interviewID, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("feedback service: check assignment: %w", err)
	}
	if count == 0 {
		return ErrInterviewNotFound
	}
	return nil
}

func applyFeedbackInput(feedback *models.InterviewFeedback, input FeedbackInput) error {
	if input.OverallRating != 0 && (input.OverallRating < 1 || input.OverallRating > 5) {
		return fmt.Errorf("%w: overall rating must be between 1 and 5", ErrInvalidFeedback)
	}
	for _, rating := range []*int{
		input.TechnicalRating,
		input.CommunicationRating,
		input.ProblemSolvingRating,
		input.CulturalFitRating,
	} {
		if rating != nil && (*rating < 1 || *rating > 5) {
			return fmt.Errorf("%w: ratings must be between 1 and 5", ErrInvalidFeedback)
		}
	}

	feedback.Recommendation = input.Recommendation
	feedback.OverallRating = input.OverallRating
	feedback.TechnicalRating = input.TechnicalRating
	feedback.CommunicationRating = input.CommunicationRating
	feedback.ProblemSolvingRating = input.ProblemSolvingRating
	feedback.CulturalFitRating = input.CulturalFitRating
	feedback.Strengths = input.Strengths
	feedback.AreasForImprovement = input.AreasForImprovement
	feedback.DetailedNotes = input.DetailedNotes

	if input.QuestionsAsked != nil {
		encoded, err := encodeJSON(input.QuestionsAsked)
		if err != nil {
			return fmt.Errorf("feedback service: marshal questions: %w", err)
		}
		feedback.QuestionsAsked = encoded
	}
	if input.RedFlags != nil {
		encoded, err := encodeJSON(input.RedFlags)
		if err != nil {
			return fmt.Errorf("feedback service: marshal red flags: %w", err)
		}
		feedback.RedFlags = encoded
	}
	return nil
}
