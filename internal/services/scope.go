package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// AccessScope carries the authenticated actor's identity for authorization.
// It is passed into every service call; scoping is enforced once here, at
// the data-access boundary, rather than per call site.
type AccessScope struct {
	UserID         string
	OrganizationID string
	Role           models.Role
}

// IsPlatformAdmin reports whether the scope bypasses organization filtering.
func (s AccessScope) IsPlatformAdmin() bool {
	return s.Role == models.RolePlatformAdmin
}

// SystemScope is used by background jobs. It sees every organization and
// produces nil-actor activity entries.
func SystemScope() AccessScope {
	return AccessScope{Role: models.RolePlatformAdmin}
}

// actorID returns the scope's user id as a nullable reference, nil for
// system-generated entries.
func (s AccessScope) actorID() *string {
	id := strings.TrimSpace(s.UserID)
	if id == "" {
		return nil
	}
	return &id
}

// scopedByOrg restricts a query on a table carrying organization_id to the
// caller's organization. Records outside the scope are indistinguishable
// from absent ones.
func scopedByOrg(db *gorm.DB, scope AccessScope) *gorm.DB {
	if scope.IsPlatformAdmin() {
		return db
	}
	return db.Where("organization_id = ?", scope.OrganizationID)
}

// scopedApplications restricts a job_applications query to the caller's
// organization via the owning job.
func scopedApplications(db *gorm.DB, scope AccessScope) *gorm.DB {
	if scope.IsPlatformAdmin() {
		return db
	}
	return db.Where(
		"job_applications.job_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Job{}).
			Select("id").
			Where("organization_id = ?", scope.OrganizationID),
	)
}

// scopedInterviews restricts an interviews query to the caller's
// organization via application and job.
func scopedInterviews(db *gorm.DB, scope AccessScope) *gorm.DB {
	if scope.IsPlatformAdmin() {
		return db
	}
	return db.Where(
		"interviews.application_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Model(&models.JobApplication{}).
			Select("job_applications.id").
			Where("job_applications.job_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).
					Model(&models.Job{}).
					Select("id").
					Where("organization_id = ?", scope.OrganizationID)),
	)
}
