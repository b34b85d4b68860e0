package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/response"
	"github.com/stemsi/classroom-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

var errTokenMissing = errors.New("authorization header required")

// TokenValidator parses console tokens. *service.AuthService satisfies it.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*service.Claims, error)
}

// RequireStaffJWT validates a console JWT from the Authorization header.
// Tokens are only ever issued to staff accounts.
func RequireStaffJWT(tv TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := bearerToken(c)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := tv.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireWSAuth validates a console JWT from the query param ?token=...
// Used for WebSocket upgrade requests, which cannot carry headers from a browser.
func RequireWSAuth(tv TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := tv.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) (string, error) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errTokenMissing
	}
	return strings.TrimSpace(parts[1]), nil
}
