package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityType classifies audit-trail entries on an application.
type ActivityType string

const (
	ActivityStageChange        ActivityType = "stage_change"
	ActivityNoteAdded          ActivityType = "note_added"
	ActivityEmailSent          ActivityType = "email_sent"
	ActivityInterviewScheduled ActivityType = "interview_scheduled"
	ActivityFeedbackSubmitted  ActivityType = "feedback_submitted"
	ActivityOfferExtended      ActivityType = "offer_extended"
	ActivityOfferAccepted      ActivityType = "offer_accepted"
	ActivityOfferRejected      ActivityType = "offer_rejected"
)

// ApplicationActivity is an immutable, append-only audit entry tied to one
// application. Corrections are modelled as new entries; no update or delete
// path exists anywhere in the codebase.
type ApplicationActivity struct {
	ID            string          `gorm:"primaryKey;type:uuid" json:"id"`
	ApplicationID string          `gorm:"type:uuid;not null;index" json:"application_id"`
	Application   *JobApplication `json:"-"`

	// UserID is null only for system-generated entries.
	UserID *string `gorm:"type:uuid" json:"user_id"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ActivityType ActivityType `gorm:"type:varchar(30);not null;index" json:"activity_type"`
	Description  string       `gorm:"not null" json:"description"`
	Metadata     string       `gorm:"type:json" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *ApplicationActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
