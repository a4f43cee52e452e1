package models

// NoteType classifies candidate timeline notes.
type NoteType string

const (
	NoteGeneral   NoteType = "general"
	NoteInterview NoteType = "interview"
	NotePhoneCall NoteType = "phone_call"
	NoteEmail     NoteType = "email"
	NoteFeedback  NoteType = "feedback"
	NoteReminder  NoteType = "reminder"
)

// CandidateNote is a free-form note on a candidate, optionally pinned to one
// of their applications.
type CandidateNote struct {
	BaseModel

	CandidateID string     `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Candidate   *Candidate `json:"-"`

	ApplicationID *string         `gorm:"type:uuid;index" json:"application_id"`
	Application   *JobApplication `json:"-"`

	NoteType NoteType `gorm:"type:varchar(20);default:general" json:"note_type"`
	Title    string   `json:"title"`
	Content  string   `gorm:"not null" json:"content"`

	CreatedByID *string `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	IsPrivate          bool `gorm:"default:false" json:"is_private"`
	VisibleToCandidate bool `gorm:"default:false" json:"visible_to_candidate"`
}
