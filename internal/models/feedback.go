package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation is the interviewer's hiring verdict.
type Recommendation string

const (
	RecommendStrongHire   Recommendation = "strong_hire"
	RecommendHire         Recommendation = "hire"
	RecommendMaybe        Recommendation = "maybe"
	RecommendNoHire       Recommendation = "no_hire"
	RecommendStrongNoHire Recommendation = "strong_no_hire"
)

// InterviewFeedback holds one interviewer's assessment of one interview.
// The (interview, interviewer) pair is unique; a draft becomes immutable
// once submitted.
type InterviewFeedback struct {
	BaseModel

	InterviewID string     `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_interview_interviewer" json:"interview_id"`
	Interview   *Interview `json:"-"`

	InterviewerID string `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_interview_interviewer" json:"interviewer_id"`
	Interviewer   *User  `gorm:"foreignKey:InterviewerID" json:"interviewer,omitempty"`

	Recommendation Recommendation `gorm:"type:varchar(20)" json:"recommendation"`
	OverallRating  int            `json:"overall_rating"`

	TechnicalRating      *int `json:"technical_rating"`
	CommunicationRating  *int `json:"communication_rating"`
	ProblemSolvingRating *int `json:"problem_solving_rating"`
	CulturalFitRating    *int `json:"cultural_fit_rating"`

	Strengths           string         `json:"strengths"`
	AreasForImprovement string         `json:"areas_for_improvement"`
	QuestionsAsked      datatypes.JSON `json:"questions_asked"`
	DetailedNotes       string         `json:"detailed_notes"`
	RedFlags            datatypes.JSON `json:"red_flags"`

	IsSubmitted bool       `gorm:"default:false" json:"is_submitted"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// TemplateStatus is the publication state of a feedback template.
type TemplateStatus string

const (
	TemplateDraft     TemplateStatus = "draft"
	TemplatePublished TemplateStatus = "published"
)

// FeedbackTemplate defines reusable question sets for structuring feedback
// forms within an organization.
type FeedbackTemplate struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"-"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	Questions      datatypes.JSON `json:"questions"`
	Sections       datatypes.JSON `json:"sections"`
	RatingCriteria datatypes.JSON `json:"rating_criteria"`

	Status    TemplateStatus `gorm:"type:varchar(20);default:draft" json:"status"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`

	CreatedByID *string `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
