package models

import (
	"time"

	"gorm.io/datatypes"
)

// InterviewType enumerates interview formats.
type InterviewType string

const (
	InterviewPhoneScreen InterviewType = "phone_screen"
	InterviewTechnical   InterviewType = "technical"
	InterviewBehavioral  InterviewType = "behavioral"
	InterviewFinalRound  InterviewType = "final_round"
	InterviewCulturalFit InterviewType = "cultural_fit"
	InterviewPanel       InterviewType = "panel"
	InterviewOnsite      InterviewType = "onsite"
)

// InterviewStatus is the scheduling state of an interview.
type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "scheduled"
	InterviewConfirmed   InterviewStatus = "confirmed"
	InterviewInProgress  InterviewStatus = "in_progress"
	InterviewCompleted   InterviewStatus = "completed"
	InterviewCancelled   InterviewStatus = "cancelled"
	InterviewNoShow      InterviewStatus = "no_show"
	InterviewRescheduled InterviewStatus = "rescheduled"
)

// interviewTransitions gates each target status by the set of states it may
// be entered from. Cancellation is special-cased in CanTransition since it
// is allowed from everything except the two closed states.
var interviewTransitions = map[InterviewStatus][]InterviewStatus{
	InterviewConfirmed:   {InterviewScheduled},
	InterviewInProgress:  {InterviewConfirmed},
	InterviewCompleted:   {InterviewConfirmed, InterviewInProgress},
	InterviewNoShow:      {InterviewScheduled, InterviewConfirmed},
	InterviewRescheduled: {InterviewScheduled, InterviewConfirmed},
}

// CanTransition reports whether an interview in state from may enter state to.
func (from InterviewStatus) CanTransition(to InterviewStatus) bool {
	if to == InterviewCancelled {
		return from != InterviewCompleted && from != InterviewCancelled
	}
	for _, allowed := range interviewTransitions[to] {
		if from == allowed {
			return true
		}
	}
	return false
}

// Interview is a scheduling record attached to one application.
type Interview struct {
	BaseModel

	ApplicationID string          `gorm:"type:uuid;not null;index" json:"application_id"`
	Application   *JobApplication `json:"application,omitempty"`

	InterviewType InterviewType `gorm:"type:varchar(20);not null" json:"interview_type"`
	RoundNumber   int           `gorm:"default:1" json:"round_number"`

	ScheduledAt     time.Time `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	Location        string    `json:"location"`
	MeetingLink     string    `json:"meeting_link"`

	Interviewers      []User  `gorm:"many2many:interview_interviewers;" json:"interviewers,omitempty"`
	LeadInterviewerID *string `gorm:"type:uuid" json:"lead_interviewer_id"`
	LeadInterviewer   *User   `gorm:"foreignKey:LeadInterviewerID" json:"lead_interviewer,omitempty"`

	Status InterviewStatus `gorm:"type:varchar(20);default:scheduled;index" json:"status"`

	Instructions         string         `json:"instructions"`
	InternalNotes        string         `json:"internal_notes"`
	PreparationMaterials datatypes.JSON `json:"preparation_materials"`

	SendCalendarInvite    bool `gorm:"default:true" json:"send_calendar_invite"`
	SendConfirmationEmail bool `gorm:"default:true" json:"send_confirmation_email"`

	ConfirmedAt        *time.Time `json:"confirmed_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `json:"cancellation_reason"`

	CreatedByID *string `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	Feedbacks []InterviewFeedback `gorm:"foreignKey:InterviewID" json:"feedbacks,omitempty"`
}
