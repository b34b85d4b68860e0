package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/middleware"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/response"
	"github.com/stemsi/classroom-backend/internal/service"
	"github.com/stemsi/classroom-backend/internal/validator"
)

// UserHandler handles console user management.
type UserHandler struct {
	userService *service.UserService
	audit       *Auditor
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, audit *Auditor) *UserHandler {
	return &UserHandler{userService: userService, audit: audit}
}

// ListUsers godoc
// GET /api/v1/admin/users?q=&o=&page=&per_page=&class_id=&role=&is_staff=&include_deleted=
func (h *UserHandler) ListUsers(c *gin.Context) {
	var f repository.UserFilter
	var ok bool

	if f.ClassID, ok = queryInt(c, "class_id"); !ok {
		return
	}
	if f.IsStaff, ok = queryBool(c, "is_staff"); !ok {
		return
	}
	includeDeleted, ok := queryBool(c, "include_deleted")
	if !ok {
		return
	}
	f.IncludeDeleted = includeDeleted != nil && *includeDeleted

	if raw := c.Query("role"); raw != "" {
		role, err := model.ParseRole(raw)
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"role": "must be one of ADMIN, STUDENT, INSTRUCTOR"})
			return
		}
		f.Role = role
	}

	users, pagination, err := h.userService.List(c.Request.Context(), f, listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"users": users}, pagination)
}

// GetUser godoc
// GET /api/v1/admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// CreateUser godoc
// POST /api/v1/admin/users
// Mirrors the add form: email, password1, password2 and class_id.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionAddition, adminsite.ModelUsers, user.ID, user, "Added.")
	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// UpdateUser godoc
// PUT /api/v1/admin/users/:id
// Changes to role, class or flags end the user's session.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	user, changed, err := h.userService.Update(c.Request.Context(), claims.UserID, &model.User{
		ID:          id,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		ClassID:     req.ClassID,
		Role:        req.Role,
		IsActive:    req.IsActive,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionChange, adminsite.ModelUsers, user.ID, user, changeMessage(changed))
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// ChangePassword godoc
// POST /api/v1/admin/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.ChangePassword(c.Request.Context(), id, req.Password1)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionChange, adminsite.ModelUsers, user.ID, user, "Changed password.")
	response.Success(c, http.StatusOK, gin.H{"message": "password changed successfully"})
}

// DeactivateUser godoc
// POST /api/v1/admin/users/:id/deactivate
// Marks the user deleted and inactive; the row and its records stay.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	user, err := h.userService.Deactivate(c.Request.Context(), claims.UserID, id)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionChange, adminsite.ModelUsers, user.ID, user, "Deactivated.")
	if h.audit != nil {
		h.audit.site.InvalidateCounts(context.WithoutCancel(c.Request.Context()), adminsite.ModelUsers)
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// DeleteUser godoc
// DELETE /api/v1/admin/users/:id
// Hard delete. Assignments and submissions the user authored go with it.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	user, err := h.userService.Delete(c.Request.Context(), claims.UserID, id)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionDeletion, adminsite.ModelUsers, user.ID, user, "Deleted.")
	response.Success(c, http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// ResetUserSession godoc
// POST /api/v1/admin/users/:id/reset-session
// Forces the user to log in again.
func (h *UserHandler) ResetUserSession(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.ResetSession(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "session reset successfully"})
}
