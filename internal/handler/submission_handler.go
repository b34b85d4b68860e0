package handler

import (
	"fmt"
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

// SubmissionHandler handles console submission management and grading.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	audit             *Auditor
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, audit *Auditor) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, audit: audit}
}

// ListSubmissions godoc
// GET /api/v1/admin/submissions?q=&o=&page=&per_page=&assignment_id=&author_id=&class_id=&status=
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var f repository.SubmissionFilter
	var ok bool

	if f.AssignmentID, ok = queryInt(c, "assignment_id"); !ok {
		return
	}
	if f.AuthorID, ok = queryInt(c, "author_id"); !ok {
		return
	}
	if f.ClassID, ok = queryInt(c, "class_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		f.Status = model.SubmissionStatus(raw)
		if !f.Status.Valid() {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"status": "must be one of DRAFT, SUBMITTED, GRADED, RETURNED"})
			return
		}
	}

	submissions, pagination, err := h.submissionService.List(c.Request.Context(), middleware.GetClaims(c), f, listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"submissions": submissions}, pagination)
}

// GetSubmission godoc
// GET /api/v1/admin/submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.GetByID(c.Request.Context(), middleware.GetClaims(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}

// CreateSubmission godoc
// POST /api/v1/admin/submissions
// The assignment must be published or closed; class_id defaults to the assignment's.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req model.SubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission := submissionFromRequest(&req)
	if err := h.submissionService.Create(c.Request.Context(), middleware.GetClaims(c), submission); err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionAddition, adminsite.ModelSubmissions, submission.ID, submission, "Added.")
	response.Success(c, http.StatusCreated, gin.H{"submission": submission})
}

// UpdateSubmission godoc
// PUT /api/v1/admin/submissions/:id
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.SubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission := submissionFromRequest(&req)
	submission.ID = id
	changed, err := h.submissionService.Update(c.Request.Context(), middleware.GetClaims(c), submission, req.Score)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionChange, adminsite.ModelSubmissions, submission.ID, submission, changeMessage(changed))
	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}

// GradeSubmission godoc
// POST /api/v1/admin/submissions/:id/grade
// Sets the score (0..marks) and moves the submission to GRADED.
func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission, err := h.submissionService.Grade(c.Request.Context(), id, *req.Score)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionChange, adminsite.ModelSubmissions, submission.ID, submission,
		fmt.Sprintf("Graded %g.", submission.Score))
	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}

// DeleteSubmission godoc
// DELETE /api/v1/admin/submissions/:id
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.Delete(c.Request.Context(), middleware.GetClaims(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.record(c, model.ActionDeletion, adminsite.ModelSubmissions, submission.ID, submission, "Deleted.")
	response.Success(c, http.StatusOK, gin.H{"message": "submission deleted successfully"})
}

func submissionFromRequest(req *model.SubmissionRequest) *model.Submission {
	return &model.Submission{
		AssignmentID: req.AssignmentID,
		AuthorID:     req.AuthorID,
		ClassID:      req.ClassID,
		Title:        req.Title,
		Content:      req.Content,
		Status:       req.Status,
	}
}
