package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/internal/textgen"
	"github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
)

type JobHandler struct {
	svc       *services.JobService
	generator textgen.Generator
}

func NewJobHandler(db *gorm.DB, generator textgen.Generator) (*JobHandler, error) {
	svc, err := services.NewJobService(db)
	if err != nil {
		return nil, err
	}
	if generator == nil {
		generator = textgen.NewTemplateGenerator()
	}
	return &JobHandler{svc: svc, generator: generator}, nil
}

type createJobRequest struct {
	Title               string     `json:"title" validate:"required,min=2,max=256"`
	DepartmentID        string     `json:"department_id" validate:"omitempty,uuid"`
	Description         string     `json:"description"`
	Requirements        string     `json:"requirements"`
	Responsibilities    string     `json:"responsibilities"`
	JobType             string     `json:"job_type" validate:"omitempty,oneof=full_time part_time contract internship freelance"`
	ExperienceLevel     string     `json:"experience_level" validate:"omitempty,oneof=entry mid senior lead executive"`
	Location            string     `json:"location" validate:"omitempty,max=128"`
	WorkType            string     `json:"work_type" validate:"omitempty,oneof=remote onsite hybrid"`
	SalaryMin           *float64   `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax           *float64   `json:"salary_max" validate:"omitempty,gte=0"`
	SalaryCurrency      string     `json:"salary_currency" validate:"omitempty,len=3"`
	ShowSalary          bool       `json:"show_salary"`
	RequiredSkills      []string   `json:"required_skills"`
	PreferredSkills     []string   `json:"preferred_skills"`
	Urgency             string     `json:"urgency" validate:"omitempty,oneof=low medium high critical"`
	Openings            int        `json:"openings" validate:"omitempty,gte=1"`
	TargetHireDate      *time.Time `json:"target_hire_date"`
	SLADays             *int       `json:"sla_days" validate:"omitempty,gte=1"`
	HiringManagerID     string     `json:"hiring_manager_id" validate:"omitempty,uuid"`
	AutoRejectAfterDays *int       `json:"auto_reject_after_days" validate:"omitempty,gte=1"`
	FeedbackTemplateID  string     `json:"feedback_template_id" validate:"omitempty,uuid"`
}

type updateJobRequest struct {
	Title               *string    `json:"title" validate:"omitempty,min=2,max=256"`
	DepartmentID        *string    `json:"department_id"`
	Description         *string    `json:"description"`
	Requirements        *string    `json:"requirements"`
	Responsibilities    *string    `json:"responsibilities"`
	Location            *string    `json:"location" validate:"omitempty,max=128"`
	WorkType            *string    `json:"work_type" validate:"omitempty,oneof=remote onsite hybrid"`
	SalaryMin           *float64   `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax           *float64   `json:"salary_max" validate:"omitempty,gte=0"`
	ShowSalary          *bool      `json:"show_salary"`
	Urgency             *string    `json:"urgency" validate:"omitempty,oneof=low medium high critical"`
	Openings            *int       `json:"openings" validate:"omitempty,gte=1"`
	TargetHireDate      *time.Time `json:"target_hire_date"`
	SLADays             *int       `json:"sla_days" validate:"omitempty,gte=1"`
	HiringManagerID     *string    `json:"hiring_manager_id"`
	AutoRejectAfterDays *int       `json:"auto_reject_after_days" validate:"omitempty,gte=1"`
	FeedbackTemplateID  *string    `json:"feedback_template_id"`
}

type generateDescriptionRequest struct {
	Title           string   `json:"title" validate:"required,min=2,max=256"`
	Department      string   `json:"department" validate:"omitempty,max=128"`
	Location        string   `json:"location" validate:"omitempty,max=128"`
	WorkType        string   `json:"work_type" validate:"omitempty,oneof=remote onsite hybrid"`
	ExperienceLevel string   `json:"experience_level" validate:"omitempty,oneof=entry mid senior lead executive"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	Tone            string   `json:"tone" validate:"omitempty,max=64"`
}

// POST /api/jobs
func (h *JobHandler) Create(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body createJobRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.CreateJobInput{
		Title:               body.Title,
		Description:         body.Description,
		Requirements:        body.Requirements,
		Responsibilities:    body.Responsibilities,
		JobType:             models.JobType(body.JobType),
		ExperienceLevel:     models.ExperienceLevel(body.ExperienceLevel),
		Location:            body.Location,
		WorkType:            models.WorkType(body.WorkType),
		SalaryMin:           body.SalaryMin,
		SalaryMax:           body.SalaryMax,
		SalaryCurrency:      body.SalaryCurrency,
		ShowSalary:          body.ShowSalary,
		RequiredSkills:      body.RequiredSkills,
		PreferredSkills:     body.PreferredSkills,
		Urgency:             models.Urgency(body.Urgency),
		Openings:            body.Openings,
		TargetHireDate:      body.TargetHireDate,
		SLADays:             body.SLADays,
		AutoRejectAfterDays: body.AutoRejectAfterDays,
	}
	if body.DepartmentID != "" {
		input.DepartmentID = &body.DepartmentID
	}
	if body.HiringManagerID != "" {
		input.HiringManagerID = &body.HiringManagerID
	}
	if body.FeedbackTemplateID != "" {
		input.FeedbackTemplateID = &body.FeedbackTemplateID
	}

	job, err := h.svc.Create(requestContext(c), scope, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, job)
}

// GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	jobs, total, err := h.svc.List(requestContext(c), scope, services.JobListOptions{
		Page:     page,
		PageSize: perPage,
		Filters: services.JobFilters{
			Status:       models.JobStatus(c.Query("status")),
			DepartmentID: c.Query("department_id"),
			WorkType:     models.WorkType(c.Query("work_type")),
			Urgency:      models.Urgency(c.Query("urgency")),
			Search:       c.Query("search"),
			OverdueOnly:  c.Query("overdue") == "true",
		},
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, jobs, response.NewMeta(page, perPage, total))
}

// GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	job, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// PATCH /api/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body updateJobRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.UpdateJobInput{
		Title:               body.Title,
		DepartmentID:        body.DepartmentID,
		Description:         body.Description,
		Requirements:        body.Requirements,
		Responsibilities:    body.Responsibilities,
		Location:            body.Location,
		SalaryMin:           body.SalaryMin,
		SalaryMax:           body.SalaryMax,
		ShowSalary:          body.ShowSalary,
		Openings:            body.Openings,
		TargetHireDate:      body.TargetHireDate,
		SLADays:             body.SLADays,
		HiringManagerID:     body.HiringManagerID,
		AutoRejectAfterDays: body.AutoRejectAfterDays,
		FeedbackTemplateID:  body.FeedbackTemplateID,
	}
	if body.WorkType != nil {
		workType := models.WorkType(*body.WorkType)
		input.WorkType = &workType
	}
	if body.Urgency != nil {
		urgency := models.Urgency(*body.Urgency)
		input.Urgency = &urgency
	}

	job, err := h.svc.Update(requestContext(c), scope, c.Param("id"), input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// POST /api/jobs/:id/publish
func (h *JobHandler) Publish(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	job, err := h.svc.Publish(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// POST /api/jobs/:id/close
func (h *JobHandler) Close(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	job, err := h.svc.Close(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// POST /api/jobs/generate-description
func (h *JobHandler) GenerateDescription(c *gin.Context) {
	if _, ok := currentScope(c); !ok {
		return
	}

	var body generateDescriptionRequest
	if !bindAndValidate(c, &body) {
		return
	}

	jobCopy, err := h.generator.Generate(requestContext(c), textgen.JobPrompt{
		Title:           body.Title,
		Department:      body.Department,
		Location:        body.Location,
		WorkType:        models.WorkType(body.WorkType),
		ExperienceLevel: models.ExperienceLevel(body.ExperienceLevel),
		RequiredSkills:  body.RequiredSkills,
		PreferredSkills: body.PreferredSkills,
		Tone:            body.Tone,
	})
	if err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, jobCopy)
}
