package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type InterviewHandler struct {
	svc *services.InterviewService
}

func NewInterviewHandler(db *gorm.DB) (*InterviewHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewInterviewService(db, activity)
	if err != nil {
		return nil, err
	}
	return &InterviewHandler{svc: svc}, nil
}

type scheduleInterviewRequest struct {
	ApplicationID         string    `json:"application_id" validate:"required,uuid"`
	InterviewType         string    `json:"interview_type" validate:"required,oneof=phone_screen technical behavioral final_round cultural_fit panel onsite"`
	RoundNumber           int       `json:"round_number" validate:"omitempty,gte=1"`
	ScheduledAt           time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes       int       `json:"duration_minutes" validate:"omitempty,gte=15,lte=480"`
	Location              string    `json:"location" validate:"omitempty,max=256"`
	MeetingLink           string    `json:"meeting_link" validate:"omitempty,url"`
	InterviewerIDs        []string  `json:"interviewer_ids" validate:"required,min=1,dive,uuid"`
	LeadInterviewerID     string    `json:"lead_interviewer_id" validate:"omitempty,uuid"`
	Instructions          string    `json:"instructions"`
	InternalNotes         string    `json:"internal_notes"`
	SendCalendarInvite    bool      `json:"send_calendar_invite"`
	SendConfirmationEmail bool      `json:"send_confirmation_email"`
}

type rescheduleInterviewRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gte=15,lte=480"`
	Location        *string   `json:"location" validate:"omitempty,max=256"`
	MeetingLink     *string   `json:"meeting_link" validate:"omitempty,url"`
}

type cancelInterviewRequest struct {
	Reason string `json:"reason" validate:"required,max=1024"`
}

// POST /api/interviews
func (h *InterviewHandler) Schedule(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body scheduleInterviewRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.ScheduleInterviewInput{
		ApplicationID:         body.ApplicationID,
		InterviewType:         models.InterviewType(body.InterviewType),
		RoundNumber:           body.RoundNumber,
		ScheduledAt:           body.ScheduledAt,
		DurationMinutes:       body.DurationMinutes,
		Location:              body.Location,
		MeetingLink:           body.MeetingLink,
		InterviewerIDs:        body.InterviewerIDs,
		Instructions:          body.Instructions,
		InternalNotes:         body.InternalNotes,
		SendCalendarInvite:    body.SendCalendarInvite,
		SendConfirmationEmail: body.SendConfirmationEmail,
	}
	if body.LeadInterviewerID != "" {
		input.LeadInterviewerID = &body.LeadInterviewerID
	}

	interview, err := h.svc.Schedule(requestContext(c), scope, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, interview)
}

// GET /api/interviews
func (h *InterviewHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	filters := services.InterviewFilters{
		ApplicationID: c.Query("application_id"),
		InterviewerID: c.Query("interviewer_id"),
		Status:        models.InterviewStatus(c.Query("status")),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filters.To = &to
	}

	interviews, total, err := h.svc.List(requestContext(c), scope, services.InterviewListOptions{
		Page:     page,
		PageSize: perPage,
		Filters:  filters,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, interviews, response.NewMeta(page, perPage, total))
}

// GET /api/interviews/:id
func (h *InterviewHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	interview, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, interview)
}

// POST /api/interviews/:id/confirm
func (h *InterviewHandler) Confirm(c *gin.Context) {
	h.applyStatusChange(c, h.svc.Confirm)
}

// POST /api/interviews/:id/start
func (h *InterviewHandler) Start(c *gin.Context) {
	h.applyStatusChange(c, h.svc.Start)
}

// POST /api/interviews/:id/complete
func (h *InterviewHandler) Complete(c *gin.Context) {
	h.applyStatusChange(c, h.svc.Complete)
}

// POST /api/interviews/:id/no-show
func (h *InterviewHandler) MarkNoShow(c *gin.Context) {
	h.applyStatusChange(c, h.svc.MarkNoShow)
}

// POST /api/interviews/:id/cancel
func (h *InterviewHandler) Cancel(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body cancelInterviewRequest
	if !bindAndValidate(c, &body) {
		return
	}

	interview, err := h.svc.Cancel(requestContext(c), scope, c.Param("id"), body.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, interview)
}

// POST /api/interviews/:id/reschedule
func (h *InterviewHandler) Reschedule(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body rescheduleInterviewRequest
	if !bindAndValidate(c, &body) {
		return
	}

	interview, err := h.svc.Reschedule(requestContext(c), scope, c.Param("id"), services.RescheduleInterviewInput{
		ScheduledAt:     body.ScheduledAt,
		DurationMinutes: body.DurationMinutes,
		Location:        body.Location,
		MeetingLink:     body.MeetingLink,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, interview)
}

type interviewStatusChange func(ctx context.Context, scope services.AccessScope, id string) (*models.Interview, error)

func (h *InterviewHandler) applyStatusChange(c *gin.Context, change interviewStatusChange) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	interview, err := change(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, interview)
}
