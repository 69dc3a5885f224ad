package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/lofohq/lofo-server/internal/auth"
	"github.com/lofohq/lofo-server/internal/models"
	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

// AuthHandler manages account registration and login.
type AuthHandler struct {
	users *services.UserService
	jwt   *iauth.JWTService
}

func NewAuthHandler(users *services.UserService, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type registerRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FathersName string `json:"fathers_name" validate:"max=120"`
	Age         string `json:"age" validate:"max=8"`
	City        string `json:"city" validate:"max=64"`
	Phone       string `json:"phone" validate:"max=32"`
	Avatar      string `json:"avatar"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Register(requestContext(c), services.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		FathersName: req.FathersName,
		Age:         req.Age,
		City:        req.City,
		Phone:       req.Phone,
		Avatar:      req.Avatar,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(iauth.AccessTokenInput{
		UserID:  user.ID,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, loginPayload(user, token))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(iauth.AccessTokenInput{
		UserID:  user.ID,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, loginPayload(user, token))
}

func loginPayload(user *models.User, token string) gin.H {
	return gin.H{
		"token": token,
		"user":  user,
	}
}
