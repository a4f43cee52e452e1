package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobApplication links exactly one candidate to exactly one job. The pair is
// unique; the record is mutated only through explicit pipeline operations.
type JobApplication struct {
	BaseModel

	JobID string `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_candidate" json:"job_id"`
	Job   *Job   `json:"job,omitempty"`

	CandidateID string     `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_candidate" json:"candidate_id"`
	Candidate   *Candidate `json:"candidate,omitempty"`

	Stage  Stage             `gorm:"type:varchar(20);default:applied;index" json:"stage"`
	Status ApplicationStatus `gorm:"type:varchar(20);default:active;index" json:"status"`

	// Version is bumped by every stage-mutating operation; writers compare
	// and swap on it so at most one concurrent transition wins.
	Version int `gorm:"not null;default:0" json:"version"`

	OverallRating *float64 `json:"overall_rating"`
	AIScore       *int     `gorm:"column:ai_score" json:"ai_score"`

	ApplicationResponses datatypes.JSON `json:"application_responses"`

	AppliedAt       time.Time  `gorm:"autoCreateTime" json:"applied_at"`
	StageUpdatedAt  time.Time  `json:"stage_updated_at"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectionReason string     `json:"rejection_reason"`

	OfferExtendedAt *time.Time `json:"offer_extended_at"`
	OfferAmount     *float64   `json:"offer_amount"`
	OfferAcceptedAt *time.Time `json:"offer_accepted_at"`
	StartDate       *time.Time `json:"start_date"`

	Activities []ApplicationActivity `gorm:"foreignKey:ApplicationID" json:"activities,omitempty"`
	Interviews []Interview           `gorm:"foreignKey:ApplicationID" json:"interviews,omitempty"`
}

// IsTerminal reports whether the application reached a terminal stage.
func (a *JobApplication) IsTerminal() bool {
	return a.Stage.IsTerminal()
}
