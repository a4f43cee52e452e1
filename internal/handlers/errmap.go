package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hirepath/hirepath/internal/services"
	appErrors "github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
)

// writeServiceError maps service-layer sentinels onto API error codes and
// writes the response. Unknown errors become a 500 with the cause kept
// internal.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDepartmentNotFound),
		errors.Is(err, services.ErrJobNotFound),
		errors.Is(err, services.ErrCandidateNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrInterviewNotFound),
		errors.Is(err, services.ErrFeedbackNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrNoteNotFound):
		response.Error(c, appErrors.ErrNotFound)

	case errors.Is(err, services.ErrInvalidTransition):
		response.Error(c, appErrors.ErrInvalidTransition)

	case errors.Is(err, services.ErrAlreadyTerminal):
		response.Error(c, appErrors.ErrAlreadyTerminal)

	case errors.Is(err, services.ErrAlreadySubmitted):
		response.Error(c, appErrors.ErrAlreadySubmitted)

	case errors.Is(err, services.ErrInvalidFeedback):
		response.Error(c, appErrors.NewBadRequest(err.Error()))

	case errors.Is(err, services.ErrConcurrentModification):
		response.Error(c, appErrors.ErrConcurrentModification)

	case errors.Is(err, services.ErrPlanLimitReached):
		response.Error(c, appErrors.ErrPlanLimit)

	case errors.Is(err, services.ErrDuplicateCandidate),
		errors.Is(err, services.ErrDuplicateApplication),
		errors.Is(err, services.ErrDuplicateFeedback):
		response.Error(c, appErrors.ErrConflict)

	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(c, appErrors.ErrInvalidCredentials)

	default:
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
	}
}
