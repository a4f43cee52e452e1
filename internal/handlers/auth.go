package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/hirepath/hirepath/internal/auth"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
)

type AuthHandler struct {
	users *services.UserService
	jwt   *iauth.JWTService
}

func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService) (*AuthHandler, error) {
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{users: users, jwt: jwt}, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), body.Email, body.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	orgID := ""
	if user.OrganizationID != nil {
		orgID = *user.OrganizationID
	}

	token, err := h.jwt.GenerateAccessToken(iauth.AccessTokenInput{
		UserID:         user.ID,
		OrganizationID: orgID,
		Role:           user.Role,
	})
	if err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusOK, loginResponse{Token: token, User: user})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(requestContext(c), scope, scope.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
