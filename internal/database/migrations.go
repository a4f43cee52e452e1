package database

import (
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Department{},
		&models.Job{},
		&models.Candidate{},
		&models.JobApplication{},
		&models.ApplicationActivity{},
		&models.CandidateNote{},
		&models.Interview{},
		&models.InterviewFeedback{},
		&models.FeedbackTemplate{},
	)
}
