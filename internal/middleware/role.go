package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
)

// RequireRole restricts a route to the listed roles. Platform admins pass
// every role gate.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		scope, ok := ScopeFrom(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}
		if scope.IsPlatformAdmin() {
			c.Next()
			return
		}
		if _, ok := allowed[scope.Role]; !ok {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
