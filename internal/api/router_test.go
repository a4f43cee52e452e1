package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	iauth "github.com/hirepath/hirepath/internal/auth"
	"github.com/hirepath/hirepath/internal/database"
	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/pkg/crypto"
)

func openRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

func seedRouterFixtures(t *testing.T, db *gorm.DB) (*models.Organization, *models.User) {
	t.Helper()

	org := &models.Organization{
		Name:     "Lumon Talent",
		Slug:     "lumon-talent",
		Plan:     models.PlanProfessional,
		MaxUsers: 50,
		MaxJobs:  100,
		IsActive: true,
	}
	require.NoError(t, db.Create(org).Error)

	hashed, err := crypto.HashPassword("s3cure-pass")
	require.NoError(t, err)

	user := &models.User{
		Email:          "mark@lumon-talent.test",
		Password:       hashed,
		FirstName:      "Mark",
		LastName:       "Scout",
		Role:           models.RoleHRManager,
		IsActive:       true,
		OrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(user).Error)

	return org, user
}

func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "router-test-secret", Issuer: "test"})
	require.NoError(t, err)

	router, err := NewRouter(db, jwtSvc, nil)
	require.NoError(t, err)
	return router
}

func doJSON(router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		encoded, _ := json.Marshal(payload)
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	rec := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	require.NotEmpty(t, parsed.Data.Token)
	return parsed.Data.Token
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	db := openRouterTestDB(t)
	seedRouterFixtures(t, db)
	router := newTestRouter(t, db)

	rec := doJSON(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/does-not-exist", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterLoginAndPipelineFlow(t *testing.T) {
	db := openRouterTestDB(t)
	_, user := seedRouterFixtures(t, db)
	router := newTestRouter(t, db)

	token := login(t, router, user.Email, "s3cure-pass")

	rec := doJSON(router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), user.Email)

	// Create and publish a job.
	rec = doJSON(router, http.MethodPost, "/api/jobs", token, gin.H{
		"title":    "Platform Engineer",
		"location": "Berlin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	jobID := extractID(t, rec)

	rec = doJSON(router, http.MethodPost, "/api/jobs/"+jobID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Register a candidate and submit an application.
	rec = doJSON(router, http.MethodPost, "/api/candidates", token, gin.H{
		"first_name": "Helly",
		"last_name":  "Riggs",
		"email":      "helly@example.test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	candidateID := extractID(t, rec)

	rec = doJSON(router, http.MethodPost, "/api/applications", token, gin.H{
		"job_id":       jobID,
		"candidate_id": candidateID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appID := extractID(t, rec)

	// Advance once, then verify a stale version is refused.
	rec = doJSON(router, http.MethodPost, "/api/applications/"+appID+"/advance", token, gin.H{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stale := 0
	rec = doJSON(router, http.MethodPost, "/api/applications/"+appID+"/advance", token, gin.H{"version": stale})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// The ledger records the accepted transition.
	rec = doJSON(router, http.MethodGet, "/api/applications/"+appID+"/activities", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Advanced to screening stage")
}

func TestRouterRoleGates(t *testing.T) {
	db := openRouterTestDB(t)
	org, _ := seedRouterFixtures(t, db)
	router := newTestRouter(t, db)

	hashed, err := crypto.HashPassword("interview-pass")
	require.NoError(t, err)
	interviewer := &models.User{
		Email:          "irving@lumon-talent.test",
		Password:       hashed,
		FirstName:      "Irving",
		LastName:       "Bailiff",
		Role:           models.RoleInterviewer,
		IsActive:       true,
		OrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(interviewer).Error)

	token := login(t, router, interviewer.Email, "interview-pass")

	// Interviewers can read jobs but not create them.
	rec := doJSON(router, http.MethodGet, "/api/jobs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodPost, "/api/jobs", token, gin.H{"title": "Forbidden Role"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	db := openRouterTestDB(t)
	router := newTestRouter(t, db)

	rec := doJSON(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "hirepath_api_latency_seconds"),
		"metrics output missing latency series")
}

func extractID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	require.NotEmpty(t, parsed.Data.ID)
	return parsed.Data.ID
}
