package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/middleware"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/response"
	"github.com/stemsi/classroom-backend/internal/service"
)

// parseID reads the :id path parameter. On failure it has already
// written a 400 response.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// listQuery reads the shared listing parameters: q, o, page and per_page.
func listQuery(c *gin.Context) service.ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return service.ListQuery{
		Search:   c.Query("q"),
		Ordering: c.Query("o"),
		Page:     page,
		PerPage:  perPage,
	}
}

// queryInt reads an optional positive integer filter. ok is false when
// the parameter is present but malformed; a 400 has then been written.
func queryInt(c *gin.Context, key string) (v *int, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{key: "must be a positive integer"})
		return nil, false
	}
	return &n, true
}

// queryBool reads an optional boolean filter.
func queryBool(c *gin.Context, key string) (v *bool, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{key: "must be true or false"})
		return nil, false
	}
	return &b, true
}

// fail maps a service or repository error onto the response envelope.
// Anything unrecognised is attached to the context for the request
// logger and reported as a 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, adminsite.ErrNotRegistered):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.FailWithFields(c, http.StatusConflict, response.ErrConflict,
			map[string]string{"email": "a user with this email already exists"})
	case errors.Is(err, repository.ErrDuplicateClassName):
		response.FailWithFields(c, http.StatusConflict, response.ErrConflict,
			map[string]string{"name": "a class with this name already exists"})
	case errors.Is(err, repository.ErrInvalidReference):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidReference)
	case errors.Is(err, repository.ErrConstraint):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrValidation)
	case errors.Is(err, adminsite.ErrUnknownField):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"o": err.Error()})
	case errors.Is(err, service.ErrInvalidRole):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"role": err.Error()})
	case errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrClassRequired),
		errors.Is(err, service.ErrSuperuserStaff),
		errors.Is(err, service.ErrSuperuserFlag):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrClassMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrClassMismatch)
	case errors.Is(err, service.ErrScoreOutOfRange):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrScoreOutOfRange)
	case errors.Is(err, service.ErrInvalidTransition):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidStatus)
	case errors.Is(err, service.ErrAssignmentNotOpen):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrAssignmentNotOpen)
	case errors.Is(err, service.ErrDeadlinePassed):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrDeadlinePassed)
	case errors.Is(err, service.ErrNotAuthor):
		response.Fail(c, http.StatusForbidden, response.ErrNotAuthor)
	case errors.Is(err, service.ErrSelfAction):
		response.Fail(c, http.StatusConflict, response.ErrSelfAction)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAccountDisabled):
		response.Fail(c, http.StatusForbidden, response.ErrAccountDisabled)
	case errors.Is(err, service.ErrNotStaff):
		response.Fail(c, http.StatusForbidden, response.ErrStaffAccessOnly)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Auditor writes admin log entries for console changes and keeps the
// index counts fresh.
type Auditor struct {
	actionLogs *service.ActionLogService
	site       *service.SiteService
}

// NewAuditor creates a new Auditor.
func NewAuditor(actionLogs *service.ActionLogService, site *service.SiteService) *Auditor {
	return &Auditor{actionLogs: actionLogs, site: site}
}

// record logs a change made by the authenticated user. The request's
// cancellation is dropped so a disconnecting client cannot lose the entry.
func (a *Auditor) record(c *gin.Context, action model.ActionFlag, objectType string, id int, obj fmt.Stringer, message string) {
	claims := middleware.GetClaims(c)
	if claims == nil || a == nil {
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())

	a.actionLogs.Record(ctx, service.NewEntry(claims.UserID, action, objectType, id, obj, message))

	switch {
	case action == model.ActionDeletion && objectType != adminsite.ModelSubmissions:
		// Classes, users and assignments cascade.
		a.site.InvalidateCounts(ctx)
	case action != model.ActionChange:
		a.site.InvalidateCounts(ctx, objectType)
	}
}

// changeMessage renders a change log line such as "Changed title, marks.".
func changeMessage(fields []string) string {
	if len(fields) == 0 {
		return "No fields changed."
	}
	return "Changed " + strings.Join(fields, ", ") + "."
}
