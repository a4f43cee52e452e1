package models

// Department groups jobs within an organization.
type Department struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;uniqueIndex:idx_departments_org_name" json:"organization_id"`
	Organization   *Organization `json:"organization,omitempty"`

	Name        string `gorm:"not null;uniqueIndex:idx_departments_org_name" json:"name"`
	Description string `json:"description"`

	ManagerID *string `gorm:"type:uuid" json:"manager_id"`
	Manager   *User   `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}
