package handler

import (
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

// AssignmentHandler handles console assignment management.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	audit             *Auditor
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService, audit *Auditor) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService, audit: audit}
}

// ListAssignments godoc
// GET /api/v1/admin/assignments?q=&o=&page=&per_page=&class_id=&author_id=&status=
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var f repository.AssignmentFilter
	var ok bool

	if f.ClassID, ok = queryInt(c, "class_id"); !ok {
		return
	}
	if f.AuthorID, ok = queryInt(c, "author_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		f.Status = model.AssignmentStatus(raw)
		if !f.Status.Valid() {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"status": "must be one of DRAFT, PUBLISHED, CLOSED"})
			return
		}
	}

	assignments, pagination, err := h.assignmentService.List(c.Request.Context(), middleware.GetClaims(c), f, listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"assignments": assignments}, pagination)
}

// GetAssignment godoc
// GET /api/v1/admin/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetByID(c.Request.Context(), middleware.GetClaims(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// CreateAssignment godoc
// POST /api/v1/admin/assignments
// The author defaults to the caller and must belong to the assignment's class.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req model.AssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment := assignmentFromRequest(&req)
	if err := h.assignmentService.Create(c.Request.Context(), middleware.GetClaims(c), assignment); err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionAddition, adminsite.ModelAssignments, assignment.ID, assignment, "Added.")
	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// UpdateAssignment godoc
// PUT /api/v1/admin/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.AssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment := assignmentFromRequest(&req)
	assignment.ID = id
	changed, err := h.assignmentService.Update(c.Request.Context(), middleware.GetClaims(c), assignment)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionChange, adminsite.ModelAssignments, assignment.ID, assignment, changeMessage(changed))
	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// DeleteAssignment godoc
// DELETE /api/v1/admin/assignments/:id
// Deletes the assignment and its submissions.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Delete(c.Request.Context(), middleware.GetClaims(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionDeletion, adminsite.ModelAssignments, assignment.ID, assignment, "Deleted.")
	response.Success(c, http.StatusOK, gin.H{"message": "assignment deleted successfully"})
}

func assignmentFromRequest(req *model.AssignmentRequest) *model.Assignment {
	return &model.Assignment{
		Title:      req.Title,
		Course:     req.Course,
		CourseCode: req.CourseCode,
		AuthorID:   req.AuthorID,
		ClassID:    req.ClassID,
		Duration:   req.Duration,
		Status:     req.Status,
		Marks:      *req.Marks,
	}
}
