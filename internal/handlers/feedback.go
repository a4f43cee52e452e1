package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type FeedbackHandler struct {
	svc *services.FeedbackService
}

func NewFeedbackHandler(db *gorm.DB) (*FeedbackHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewFeedbackService(db, activity)
	if err != nil {
		return nil, err
	}
	return &FeedbackHandler{svc: svc}, nil
}

type feedbackRequest struct {
	Recommendation       string   `json:"recommendation" validate:"omitempty,oneof=strong_hire hire maybe no_hire strong_no_hire"`
	OverallRating        int      `json:"overall_rating" validate:"omitempty,gte=1,lte=5"`
	TechnicalRating      *int     `json:"technical_rating" validate:"omitempty,gte=1,lte=5"`
	CommunicationRating  *int     `json:"communication_rating" validate:"omitempty,gte=1,lte=5"`
	ProblemSolvingRating *int     `json:"problem_solving_rating" validate:"omitempty,gte=1,lte=5"`
	CulturalFitRating    *int     `json:"cultural_fit_rating" validate:"omitempty,gte=1,lte=5"`
	Strengths            string   `json:"strengths"`
	AreasForImprovement  string   `json:"areas_for_improvement"`
	QuestionsAsked       []string `json:"questions_asked"`
	DetailedNotes        string   `json:"detailed_notes"`
	RedFlags             []string `json:"red_flags"`
}

func (r feedbackRequest) toInput() services.FeedbackInput {
	return services.FeedbackInput{
		Recommendation:       models.Recommendation(r.Recommendation),
		OverallRating:        r.OverallRating,
		TechnicalRating:      r.TechnicalRating,
		CommunicationRating:  r.CommunicationRating,
		ProblemSolvingRating: r.ProblemSolvingRating,
		CulturalFitRating:    r.CulturalFitRating,
		Strengths:            r.Strengths,
		AreasForImprovement:  r.AreasForImprovement,
		QuestionsAsked:       r.QuestionsAsked,
		DetailedNotes:        r.DetailedNotes,
		RedFlags:             r.RedFlags,
	}
}

// POST /api/interviews/:id/feedback
func (h *FeedbackHandler) CreateDraft(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body feedbackRequest
	if !bindAndValidate(c, &body) {
		return
	}

	feedback, err := h.svc.CreateDraft(requestContext(c), scope, c.Param("id"), body.toInput())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, feedback)
}

// GET /api/interviews/:id/feedback
func (h *FeedbackHandler) ListByInterview(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	feedbacks, err := h.svc.ListByInterview(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, feedbacks)
}

// GET /api/interviews/:id/feedback/readiness
func (h *FeedbackHandler) Readiness(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	readiness, err := h.svc.Readiness(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, readiness)
}

// GET /api/feedback/:id
func (h *FeedbackHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	feedback, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, feedback)
}

// PATCH /api/feedback/:id
func (h *FeedbackHandler) UpdateDraft(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body feedbackRequest
	if !bindAndValidate(c, &body) {
		return
	}

	feedback, err := h.svc.UpdateDraft(requestContext(c), scope, c.Param("id"), body.toInput())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, feedback)
}

// POST /api/feedback/:id/submit
func (h *FeedbackHandler) Submit(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	feedback, err := h.svc.Submit(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, feedback)
}
