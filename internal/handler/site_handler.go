package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/middleware"
	"github.com/stemsi/classroom-backend/internal/response"
	"github.com/stemsi/classroom-backend/internal/service"
)

// SiteHandler serves the admin index and model descriptors.
type SiteHandler struct {
	siteService *service.SiteService
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(siteService *service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// Index godoc
// GET /api/v1/admin/site
// Lists registered models with record counts and the caller's recent actions.
func (h *SiteHandler) Index(c *gin.Context) {
	claims := middleware.GetClaims(c)

	idx, err := h.siteService.Index(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, idx)
}

// GetModel godoc
// GET /api/v1/admin/site/:model
// Returns fieldsets, list columns, search fields and ordering for one model.
func (h *SiteHandler) GetModel(c *gin.Context) {
	ma, err := h.siteService.Model(c.Param("model"))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"model": ma})
}
