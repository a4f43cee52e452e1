package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/hirepath/hirepath/internal/auth"
	"github.com/hirepath/hirepath/internal/models"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *iauth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/protected", Auth(jwt), func(c *gin.Context) {
		scope, ok := ScopeFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"org": scope.OrganizationID, "role": scope.Role})
	})
	router.GET("/admin", Auth(jwt), RequireRole(models.RoleAdmin, models.RoleHRManager), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, jwt
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Token abcdef")
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router, jwt := newAuthTestRouter(t)

	token, err := jwt.GenerateAccessToken(iauth.AccessTokenInput{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Role:           models.RoleRecruiter,
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	router, jwt := newAuthTestRouter(t)

	token, err := jwt.GenerateAccessToken(iauth.AccessTokenInput{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Role:           models.RoleInterviewer,
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequireRolePlatformAdminBypass(t *testing.T) {
	router, jwt := newAuthTestRouter(t)

	token, err := jwt.GenerateAccessToken(iauth.AccessTokenInput{
		UserID: "admin-1",
		Role:   models.RolePlatformAdmin,
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
}
