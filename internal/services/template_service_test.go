package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
)

func TestTemplateServicePublishLifecycle(t *testing.T) {
	db := openTemplateTestDB(t)
	svc, err := NewTemplateService(db)
	require.NoError(t, err)
	scope := seedTemplateScope(t, db)

	ctx := context.Background()
	template, err := svc.Create(ctx, scope, CreateTemplateInput{
		Name: "Technical Loop",
		Questions: []TemplateQuestion{
			{Prompt: "Describe a system you designed.", Required: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.TemplateDraft, template.Status)

	template, err = svc.Publish(ctx, scope, template.ID)
	require.NoError(t, err)
	require.Equal(t, models.TemplatePublished, template.Status)

	_, err = svc.Publish(ctx, scope, template.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	// Published templates refuse structural edits.
	_, err = svc.Update(ctx, scope, template.ID, UpdateTemplateInput{
		Questions: []TemplateQuestion{{Prompt: "New question"}},
	})
	require.ErrorIs(t, err, ErrInvalidTransition)

	renamed := "Technical Loop v2"
	template, err = svc.Update(ctx, scope, template.ID, UpdateTemplateInput{Name: &renamed})
	require.NoError(t, err)
	require.Equal(t, renamed, template.Name)

	template, err = svc.Unpublish(ctx, scope, template.ID)
	require.NoError(t, err)
	require.Equal(t, models.TemplateDraft, template.Status)
}

func TestTemplateServiceSetDefault(t *testing.T) {
	db := openTemplateTestDB(t)
	svc, err := NewTemplateService(db)
	require.NoError(t, err)
	scope := seedTemplateScope(t, db)

	ctx := context.Background()
	first, err := svc.Create(ctx, scope, CreateTemplateInput{Name: "Loop A"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, scope, CreateTemplateInput{Name: "Loop B"})
	require.NoError(t, err)

	// Drafts cannot be the default.
	_, err = svc.SetDefault(ctx, scope, first.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Publish(ctx, scope, first.ID)
	require.NoError(t, err)
	_, err = svc.Publish(ctx, scope, second.ID)
	require.NoError(t, err)

	first, err = svc.SetDefault(ctx, scope, first.ID)
	require.NoError(t, err)
	require.True(t, first.IsDefault)

	second, err = svc.SetDefault(ctx, scope, second.ID)
	require.NoError(t, err)
	require.True(t, second.IsDefault)

	first, err = svc.GetByID(ctx, scope, first.ID)
	require.NoError(t, err)
	require.False(t, first.IsDefault)
}

func seedTemplateScope(t *testing.T, db *gorm.DB) AccessScope {
	t.Helper()

	org := models.Organization{Name: "Acme Hiring", Slug: "acme-hiring"}
	require.NoError(t, db.Create(&org).Error)
	return AccessScope{UserID: "user-a", OrganizationID: org.ID, Role: models.RoleHRManager}
}

func openTemplateTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.FeedbackTemplate{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
