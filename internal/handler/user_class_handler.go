package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/response"
	"github.com/stemsi/classroom-backend/internal/service"
	"github.com/stemsi/classroom-backend/internal/validator"
)

// UserClassHandler handles console class management (CRUD).
type UserClassHandler struct {
	classService *service.UserClassService
	audit        *Auditor
}

// NewUserClassHandler creates a new UserClassHandler.
func NewUserClassHandler(classService *service.UserClassService, audit *Auditor) *UserClassHandler {
	return &UserClassHandler{classService: classService, audit: audit}
}

// ListClasses godoc
// GET /api/v1/admin/classes?q=&o=&page=&per_page=
func (h *UserClassHandler) ListClasses(c *gin.Context) {
	classes, pagination, err := h.classService.List(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"classes": classes}, pagination)
}

// GetClass godoc
// GET /api/v1/admin/classes/:id
func (h *UserClassHandler) GetClass(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/v1/admin/classes
func (h *UserClassHandler) CreateClass(c *gin.Context) {
	var req model.UserClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := &model.UserClass{Name: req.Name}
	if err := h.classService.Create(c.Request.Context(), class); err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionAddition, adminsite.ModelUserClasses, class.ID, class, "Added.")
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/v1/admin/classes/:id
func (h *UserClassHandler) UpdateClass(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UserClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := &model.UserClass{ID: id, Name: req.Name}
	if err := h.classService.Update(c.Request.Context(), class); err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionChange, adminsite.ModelUserClasses, class.ID, class, "Changed name.")
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/v1/admin/classes/:id
// Deletes a class along with its users, assignments and submissions.
func (h *UserClassHandler) DeleteClass(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	class, err := h.classService.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionDeletion, adminsite.ModelUserClasses, class.ID, class, "Deleted.")
	response.Success(c, http.StatusOK, gin.H{"message": "class deleted successfully"})
}
