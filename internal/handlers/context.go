package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hirepath/hirepath/internal/middleware"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentScope extracts the authenticated access scope. It writes a 401 and
// returns false when the route was wired without the auth middleware.
func currentScope(c *gin.Context) (services.AccessScope, bool) {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return services.AccessScope{}, false
	}
	return scope, true
}
