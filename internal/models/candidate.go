package models

import "gorm.io/datatypes"

// Candidate is a person profile, unique per (organization, email).
type Candidate struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;uniqueIndex:idx_candidates_org_email" json:"organization_id"`
	Organization   *Organization `json:"organization,omitempty"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"not null;uniqueIndex:idx_candidates_org_email" json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`

	CurrentTitle      string   `json:"current_title"`
	CurrentCompany    string   `json:"current_company"`
	YearsOfExperience *int     `json:"years_of_experience"`
	LinkedInURL       string   `json:"linkedin_url"`
	PortfolioURL      string   `json:"portfolio_url"`
	CoverLetter       string   `json:"cover_letter"`
	ExpectedSalary    *float64 `json:"expected_salary"`
	NoticePeriodDays  *int     `json:"notice_period_days"`

	Skills datatypes.JSON `json:"skills"`
	Tags   datatypes.JSON `json:"tags"`

	Source     string  `json:"source"`
	ReferrerID *string `gorm:"type:uuid" json:"referrer_id"`
	Referrer   *User   `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	Notes      string  `json:"notes"`

	Applications []JobApplication `gorm:"foreignKey:CandidateID" json:"applications,omitempty"`
}

// FullName joins first and last name for display purposes.
func (c *Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}
