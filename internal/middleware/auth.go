package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/hirepath/hirepath/internal/auth"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxScopeKey  = "accessScope"
)

// Auth enforces JWT authentication and places the caller's access scope in
// the request context for the service layer.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxScopeKey, services.AccessScope{
			UserID:         claims.UserID,
			OrganizationID: claims.OrganizationID,
			Role:           claims.Role,
		})

		c.Next()
	}
}

// ScopeFrom extracts the access scope placed by Auth. The boolean is false
// on unauthenticated routes.
func ScopeFrom(c *gin.Context) (services.AccessScope, bool) {
	value, ok := c.Get(CtxScopeKey)
	if !ok {
		return services.AccessScope{}, false
	}
	scope, ok := value.(services.AccessScope)
	return scope, ok
}
