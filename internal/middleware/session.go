package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/response"
)

// SessionValidator checks a token's JTI against the live session.
// *service.AuthService satisfies it.
type SessionValidator interface {
	ValidateSession(ctx context.Context, userID int, jti string) error
}

// CheckSingleSession rejects tokens whose JTI no longer matches the user's
// session in Redis: a newer login, a logout or an admin reset ended it.
func CheckSingleSession(sv SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := sv.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
