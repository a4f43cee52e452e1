package models

import "gorm.io/datatypes"

// Plan identifies the subscription tier of an organization.
type Plan string

const (
	PlanFree         Plan = "free"
	PlanStarter      Plan = "starter"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

// Organization is the tenant boundary. Every scoped entity carries exactly
// one organization reference; only platform admins live outside of it.
type Organization struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Website     string `json:"website"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Description string `json:"description"`

	Plan     Plan           `gorm:"type:varchar(20);default:free" json:"plan"`
	IsActive bool           `gorm:"default:true" json:"is_active"`
	MaxUsers int            `gorm:"default:5" json:"max_users"`
	MaxJobs  int            `gorm:"default:10" json:"max_jobs"`
	Features datatypes.JSON `json:"features"`

	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`

	Users []User `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Jobs  []Job  `gorm:"foreignKey:OrganizationID" json:"jobs,omitempty"`
}
