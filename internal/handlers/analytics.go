package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/response"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(db *gorm.DB) (*AnalyticsHandler, error) {
	svc, err := services.NewAnalyticsService(db)
	if err != nil {
		return nil, err
	}
	return &AnalyticsHandler{svc: svc}, nil
}

// GET /api/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	summary, err := h.svc.Dashboard(requestContext(c), scope)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// GET /api/analytics/funnel
//
// An optional job_id query restricts the funnel to one posting.
func (h *AnalyticsHandler) Funnel(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	funnel, err := h.svc.StageFunnel(requestContext(c), scope, c.Query("job_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, funnel)
}

// GET /api/analytics/conversion
func (h *AnalyticsHandler) ConversionRates(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	rates, err := h.svc.ConversionRates(requestContext(c), scope, c.Query("job_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rates)
}

// GET /api/analytics/sources
func (h *AnalyticsHandler) Sources(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	stats, err := h.svc.SourcePerformance(requestContext(c), scope)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GET /api/analytics/jobs/:id
func (h *AnalyticsHandler) ForJob(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	analytics, err := h.svc.ForJob(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, analytics)
}
