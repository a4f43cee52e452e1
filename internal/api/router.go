package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/hirepath/hirepath/internal/auth"
	"github.com/hirepath/hirepath/internal/handlers"
	"github.com/hirepath/hirepath/internal/middleware"
	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/textgen"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, generator textgen.Generator) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", handlers.Health(db))

	authHandler, err := handlers.NewAuthHandler(db, jwt)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	requireAuth := middleware.Auth(jwt)
	manageOrg := middleware.RequireRole(models.RoleAdmin, models.RoleHRManager)
	managePipeline := middleware.RequireRole(models.RoleAdmin, models.RoleHRManager, models.RoleRecruiter)
	viewReports := middleware.RequireRole(models.RoleAdmin, models.RoleHRManager, models.RoleRecruiter, models.RoleHiringManager)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Authenticated auth routes
	api.GET("/auth/me", authHandler.Me)

	// Organizations
	orgHandler, err := handlers.NewOrganizationHandler(db)
	if err != nil {
		return nil, err
	}
	orgs := api.Group("/organizations")
	{
		orgs.POST("", middleware.RequireRole(models.RolePlatformAdmin), orgHandler.Create)
		orgs.GET("", orgHandler.List)
		orgs.GET("/:id", orgHandler.Get)
		orgs.PATCH("/:id", manageOrg, orgHandler.Update)
	}

	// Users
	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return nil, err
	}
	users := api.Group("/users")
	{
		users.POST("", manageOrg, userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PATCH("/:id", manageOrg, userHandler.Update)
	}
	api.POST("/users/me/password", userHandler.ChangePassword)

	// Departments
	deptHandler, err := handlers.NewDepartmentHandler(db)
	if err != nil {
		return nil, err
	}
	depts := api.Group("/departments")
	{
		depts.POST("", manageOrg, deptHandler.Create)
		depts.GET("", deptHandler.List)
		depts.GET("/:id", deptHandler.Get)
		depts.PATCH("/:id", manageOrg, deptHandler.Update)
		depts.DELETE("/:id", manageOrg, deptHandler.Delete)
	}

	// Jobs
	jobHandler, err := handlers.NewJobHandler(db, generator)
	if err != nil {
		return nil, err
	}
	jobs := api.Group("/jobs")
	{
		jobs.POST("", managePipeline, jobHandler.Create)
		jobs.GET("", jobHandler.List)
		jobs.GET("/:id", jobHandler.Get)
		jobs.PATCH("/:id", managePipeline, jobHandler.Update)
		jobs.POST("/:id/publish", managePipeline, jobHandler.Publish)
		jobs.POST("/:id/close", managePipeline, jobHandler.Close)
		jobs.POST("/generate-description", managePipeline, jobHandler.GenerateDescription)
	}

	// Candidates
	candidateHandler, err := handlers.NewCandidateHandler(db)
	if err != nil {
		return nil, err
	}
	candidates := api.Group("/candidates")
	{
		candidates.POST("", managePipeline, candidateHandler.Create)
		candidates.GET("", candidateHandler.List)
		candidates.GET("/:id", candidateHandler.Get)
		candidates.PATCH("/:id", managePipeline, candidateHandler.Update)
		candidates.POST("/:id/notes", candidateHandler.AddNote)
		candidates.GET("/:id/notes", candidateHandler.ListNotes)
		candidates.DELETE("/notes/:noteId", candidateHandler.DeleteNote)
		candidates.POST("/parse-document", managePipeline, candidateHandler.ParseDocument)
	}

	// Applications
	appHandler, err := handlers.NewApplicationHandler(db)
	if err != nil {
		return nil, err
	}
	apps := api.Group("/applications")
	{
		apps.POST("", managePipeline, appHandler.Submit)
		apps.GET("", appHandler.List)
		apps.GET("/:id", appHandler.Get)
		apps.GET("/:id/activities", appHandler.ListActivities)
		apps.POST("/:id/advance", managePipeline, appHandler.Advance)
		apps.POST("/:id/reject", managePipeline, appHandler.Reject)
		apps.POST("/:id/withdraw", managePipeline, appHandler.Withdraw)
		apps.POST("/:id/extend-offer", managePipeline, appHandler.ExtendOffer)
		apps.POST("/:id/hire", managePipeline, appHandler.Hire)
		apps.POST("/:id/hold", managePipeline, appHandler.Hold)
		apps.POST("/:id/resume", managePipeline, appHandler.Resume)
	}

	// Interviews
	interviewHandler, err := handlers.NewInterviewHandler(db)
	if err != nil {
		return nil, err
	}
	feedbackHandler, err := handlers.NewFeedbackHandler(db)
	if err != nil {
		return nil, err
	}
	interviews := api.Group("/interviews")
	{
		interviews.POST("", managePipeline, interviewHandler.Schedule)
		interviews.GET("", interviewHandler.List)
		interviews.GET("/:id", interviewHandler.Get)
		interviews.POST("/:id/confirm", interviewHandler.Confirm)
		interviews.POST("/:id/start", interviewHandler.Start)
		interviews.POST("/:id/complete", interviewHandler.Complete)
		interviews.POST("/:id/no-show", managePipeline, interviewHandler.MarkNoShow)
		interviews.POST("/:id/cancel", managePipeline, interviewHandler.Cancel)
		interviews.POST("/:id/reschedule", managePipeline, interviewHandler.Reschedule)

		// Feedback is written by assigned interviewers; the service enforces
		// the assignment so no role gate is needed here.
		interviews.POST("/:id/feedback", feedbackHandler.CreateDraft)
		interviews.GET("/:id/feedback", feedbackHandler.ListByInterview)
		interviews.GET("/:id/feedback/readiness", feedbackHandler.Readiness)
	}
	feedback := api.Group("/feedback")
	{
		feedback.GET("/:id", feedbackHandler.Get)
		feedback.PATCH("/:id", feedbackHandler.UpdateDraft)
		feedback.POST("/:id/submit", feedbackHandler.Submit)
	}

	// Feedback templates
	templateHandler, err := handlers.NewTemplateHandler(db)
	if err != nil {
		return nil, err
	}
	templates := api.Group("/templates")
	{
		templates.POST("", manageOrg, templateHandler.Create)
		templates.GET("", templateHandler.List)
		templates.GET("/:id", templateHandler.Get)
		templates.PATCH("/:id", manageOrg, templateHandler.Update)
		templates.POST("/:id/publish", manageOrg, templateHandler.Publish)
		templates.POST("/:id/unpublish", manageOrg, templateHandler.Unpublish)
		templates.POST("/:id/set-default", manageOrg, templateHandler.SetDefault)
	}

	// Analytics
	analyticsHandler, err := handlers.NewAnalyticsHandler(db)
	if err != nil {
		return nil, err
	}
	analytics := api.Group("/analytics")
	analytics.Use(viewReports)
	{
		analytics.GET("/dashboard", analyticsHandler.Dashboard)
		analytics.GET("/funnel", analyticsHandler.Funnel)
		analytics.GET("/conversion", analyticsHandler.ConversionRates)
		analytics.GET("/sources", analyticsHandler.Sources)
		analytics.GET("/jobs/:id", analyticsHandler.ForJob)
	}

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
