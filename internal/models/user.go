package models

import "time"

// Role is the closed enumeration of user roles. Roles determine visibility
// scope, not fine-grained capabilities: platform admins see every
// organization, everyone else only their own.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleAdmin         Role = "admin"
	RoleHRManager     Role = "hr_manager"
	RoleRecruiter     Role = "recruiter"
	RoleInterviewer   Role = "interviewer"
	RoleHiringManager Role = "hiring_manager"
)

// Valid reports whether the role is a member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleAdmin, RoleHRManager, RoleRecruiter, RoleInterviewer, RoleHiringManager:
		return true
	}
	return false
}

// User describes a platform user owned by at most one organization.
type User struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	Role     Role `gorm:"type:varchar(20);not null;default:recruiter" json:"role"`
	IsActive bool `gorm:"default:true" json:"is_active"`

	// OrganizationID is null only for platform admins.
	OrganizationID *string       `gorm:"type:uuid;index" json:"organization_id"`
	Organization   *Organization `json:"organization,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at"`
}

// FullName joins first and last name for display purposes.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// IsPlatformAdmin reports whether the user may bypass organization scoping.
func (u *User) IsPlatformAdmin() bool {
	return u.Role == RolePlatformAdmin
}
