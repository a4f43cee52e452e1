package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
	appValidator "github.com/hirepath/hirepath/pkg/validator"
)

// bindAndValidate decodes the JSON body into dest and applies its struct
// rules. On failure the error response is written and false returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	var failures appValidator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return "invalid request payload"
	}

	messages := make([]string, len(failures))
	for i, failure := range failures {
		messages[i] = describeFailure(failure)
	}
	return strings.Join(messages, "; ")
}

func describeFailure(failure appValidator.ValidationError) string {
	field := strings.ToLower(strings.ReplaceAll(failure.Field, "_", " "))
	if field == "" {
		field = "field"
	}

	switch failure.Tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "uuid":
		return field + " must be a valid identifier"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, failure.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, failure.Param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, failure.Param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, failure.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, failure.Param)
	}

	if failure.Param != "" {
		return fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param)
	}
	return fmt.Sprintf("%s failed validation: %s", field, failure.Tag)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
