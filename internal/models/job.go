package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobStatus is the lifecycle status of a posting.
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusOpen      JobStatus = "open"
	JobStatusOnHold    JobStatus = "on_hold"
	JobStatusClosed    JobStatus = "closed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobType enumerates employment arrangements.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

// WorkType enumerates work locations.
type WorkType string

const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeOnsite WorkType = "onsite"
	WorkTypeHybrid WorkType = "hybrid"
)

// ExperienceLevel enumerates seniority bands.
type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

// Urgency enumerates hiring priority.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Job is a posting owned by an organization and optionally a department.
type Job struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `json:"organization,omitempty"`

	DepartmentID *string     `gorm:"type:uuid" json:"department_id"`
	Department   *Department `json:"department,omitempty"`

	Title string `gorm:"not null" json:"title"`
	Slug  string `gorm:"index" json:"slug"`

	Description      string          `json:"description"`
	Requirements     string          `json:"requirements"`
	Responsibilities string          `json:"responsibilities"`
	JobType          JobType         `gorm:"type:varchar(20);default:full_time" json:"job_type"`
	ExperienceLevel  ExperienceLevel `gorm:"type:varchar(20);default:mid" json:"experience_level"`

	Location string   `json:"location"`
	WorkType WorkType `gorm:"type:varchar(20);default:onsite" json:"work_type"`

	SalaryMin      *float64 `json:"salary_min"`
	SalaryMax      *float64 `json:"salary_max"`
	SalaryCurrency string   `gorm:"type:varchar(3);default:USD" json:"salary_currency"`
	ShowSalary     bool     `gorm:"default:false" json:"show_salary"`

	RequiredSkills  datatypes.JSON `json:"required_skills"`
	PreferredSkills datatypes.JSON `json:"preferred_skills"`

	Status         JobStatus  `gorm:"type:varchar(20);default:draft;index" json:"status"`
	Urgency        Urgency    `gorm:"type:varchar(20);default:medium" json:"urgency"`
	Openings       int        `gorm:"default:1" json:"openings"`
	TargetHireDate *time.Time `json:"target_hire_date"`
	SLADays        int        `gorm:"column:sla_days;default:21" json:"sla_days"`

	HiringManagerID *string `gorm:"type:uuid" json:"hiring_manager_id"`
	HiringManager   *User   `gorm:"foreignKey:HiringManagerID" json:"hiring_manager,omitempty"`

	// PostedDate is set exactly once, at the transition into "open".
	PostedDate *time.Time `json:"posted_date"`
	ClosedDate *time.Time `json:"closed_date"`

	CreatedByID *string `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	AutoRejectAfterDays *int           `json:"auto_reject_after_days"`
	ScreeningQuestions  datatypes.JSON `json:"screening_questions"`

	FeedbackTemplateID *string           `gorm:"type:uuid" json:"feedback_template_id"`
	FeedbackTemplate   *FeedbackTemplate `json:"feedback_template,omitempty"`

	PublishInternal       bool `gorm:"default:true" json:"publish_internal"`
	PublishExternal       bool `gorm:"default:false" json:"publish_external"`
	PublishCompanyWebsite bool `gorm:"default:true" json:"publish_company_website"`

	Applications []JobApplication `gorm:"foreignKey:JobID" json:"applications,omitempty"`
}

// DaysOpen returns the whole days since the job was posted, zero if unposted.
func (j *Job) DaysOpen(now time.Time) int {
	if j.PostedDate == nil {
		return 0
	}
	days := int(now.Sub(*j.PostedDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue reports whether the job has been open longer than its SLA allows.
func (j *Job) IsOverdue(now time.Time) bool {
	return j.DaysOpen(now) > j.SLADays
}
