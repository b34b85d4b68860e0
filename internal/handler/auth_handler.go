package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/middleware"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/response"
	"github.com/stemsi/classroom-backend/internal/service"
	"github.com/stemsi/classroom-backend/internal/validator"
)

// AuthHandler handles console authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password for an active staff account and returns a JWT.
// Logging in again replaces the previous session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the current console session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetSession(c.Request.Context(), claims.UserID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated user and the permissions carried by the token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":        user,
		"permissions": claims.Permissions,
	})
}
