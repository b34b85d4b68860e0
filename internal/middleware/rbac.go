package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/response"
)

// RequirePermission checks that the console JWT carries the permission.
func RequirePermission(p model.Permission) gin.HandlerFunc {
	return RequireAnyPermission(p)
}

// RequireAnyPermission checks that the console JWT carries at least one of the permissions.
func RequireAnyPermission(perms ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, p := range perms {
			if claims.Has(p) {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}
