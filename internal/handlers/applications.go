package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type ApplicationHandler struct {
	pipeline *services.PipelineService
	activity *services.ActivityService
}

func NewApplicationHandler(db *gorm.DB) (*ApplicationHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	pipeline, err := services.NewPipelineService(db, activity)
	if err != nil {
		return nil, err
	}
	return &ApplicationHandler{pipeline: pipeline, activity: activity}, nil
}

type submitApplicationRequest struct {
	JobID                string         `json:"job_id" validate:"required,uuid"`
	CandidateID          string         `json:"candidate_id" validate:"required,uuid"`
	ApplicationResponses map[string]any `json:"application_responses"`
}

// Transition bodies carry the version the client last read. Omitting it
// applies the transition against the current state.
type advanceRequest struct {
	Version *int `json:"version" validate:"omitempty,gte=0"`
}

type rejectRequest struct {
	Reason  string `json:"reason" validate:"required,max=1024"`
	Version *int   `json:"version" validate:"omitempty,gte=0"`
}

type withdrawRequest struct {
	Reason  string `json:"reason" validate:"omitempty,max=1024"`
	Version *int   `json:"version" validate:"omitempty,gte=0"`
}

type extendOfferRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Version *int    `json:"version" validate:"omitempty,gte=0"`
}

type hireRequest struct {
	StartDate *time.Time `json:"start_date"`
	Version   *int       `json:"version" validate:"omitempty,gte=0"`
}

// POST /api/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body submitApplicationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	app, err := h.pipeline.Submit(requestContext(c), scope, services.SubmitApplicationInput{
		JobID:                body.JobID,
		CandidateID:          body.CandidateID,
		ApplicationResponses: body.ApplicationResponses,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, app)
}

// GET /api/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	apps, total, err := h.pipeline.List(requestContext(c), scope, services.ApplicationListOptions{
		Page:     page,
		PageSize: perPage,
		Filters: services.ApplicationFilters{
			JobID:       c.Query("job_id"),
			CandidateID: c.Query("candidate_id"),
			Stage:       models.Stage(c.Query("stage")),
			Status:      models.ApplicationStatus(c.Query("status")),
		},
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, apps, response.NewMeta(page, perPage, total))
}

// GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	app, err := h.pipeline.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// POST /api/applications/:id/advance
func (h *ApplicationHandler) Advance(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body advanceRequest
	if !bindAndValidate(c, &body) {
		return
	}

	app, err := h.pipeline.Advance(requestContext(c), scope, c.Param("id"), body.Version)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// POST /api/applications/:id/reject
func (h *ApplicationHandler) Reject(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body rejectRequest
	if !bindAndValidate(c, &body) {
		return
	}

	app, err := h.pipeline.Reject(requestContext(c), scope, c.Param("id"), body.Reason, body.Version)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// POST /api/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body withdrawRequest
	if !bindAndValidate(c, &body) {
		return
	}

	app, err := h.pipeline.Withdraw(requestContext(c), scope, c.Param("id"), body.Reason, body.Version)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// POST /api/applications/:id/extend-offer
func (h *ApplicationHandler) ExtendOffer(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body extendOfferRequest
	if !bindAndValidate(c, &body) {
		return
	}

	app, err := h.pipeline.ExtendOffer(requestContext(c), scope, c.Param("id"), body.Amount, body.Version)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// POST /api/applications/:id/hire
func (h *ApplicationHandler) Hire(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body hireRequest
	if !bindAndValidate(c, &body) {
		return
	}

	app, err := h.pipeline.Hire(requestContext(c), scope, c.Param("id"), body.StartDate, body.Version)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// POST /api/applications/:id/hold
func (h *ApplicationHandler) Hold(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	app, err := h.pipeline.Hold(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// POST /api/applications/:id/resume
func (h *ApplicationHandler) Resume(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	app, err := h.pipeline.Resume(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// GET /api/applications/:id/activities
func (h *ApplicationHandler) ListActivities(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	// Resolve through the pipeline first so an out-of-scope id reads as 404
	// rather than an empty ledger.
	app, err := h.pipeline.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	entries, total, err := h.activity.List(requestContext(c), scope, services.ActivityListOptions{
		Page:     page,
		PageSize: perPage,
		Filters: services.ActivityFilters{
			ApplicationID: app.ID,
			Type:          models.ActivityType(c.Query("type")),
		},
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, entries, response.NewMeta(page, perPage, total))
}
