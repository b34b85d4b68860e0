package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/service"
)

type stubAuth struct {
	claims *service.Claims
}

func (s stubAuth) ValidateToken(token string) (*service.Claims, error) {
	if token != "valid" {
		return nil, errors.New("invalid")
	}
	return s.claims, nil
}

func (s stubAuth) ValidateSession(_ context.Context, _ int, jti string) error {
	if jti != s.claims.ID {
		return service.ErrSessionInvalidated
	}
	return nil
}

func newTestRouter(t *testing.T, perms ...model.Permission) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	claims := &service.Claims{UserID: 1, Permissions: codes}
	claims.ID = "live"

	cfg := &config.Config{GinMode: gin.TestMode, LoginRateLimit: 30}
	// Handlers are never reached by the cases below; every request stops in a guard.
	return SetupRouter(ctx, stubAuth{claims}, &Handlers{}, cfg, zerolog.Nop())
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/v1/admin/site", "/api/v1/admin/users", "/api/v1/admin/actions"} {
		if w := do(r, http.MethodGet, path, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: %d", path, w.Code)
		}
		if w := do(r, http.MethodGet, path, "forged"); w.Code != http.StatusUnauthorized {
			t.Errorf("%s with bad token: %d", path, w.Code)
		}
	}
}

func TestAdminRoutesCheckPermissions(t *testing.T) {
	r := newTestRouter(t, model.PermissionAssignmentsRead)

	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/admin/users"},
		{http.MethodPost, "/api/v1/admin/classes"},
		{http.MethodDelete, "/api/v1/admin/assignments/1"},
		{http.MethodPost, "/api/v1/admin/submissions/1/grade"},
		{http.MethodPost, "/api/v1/admin/users/1/reset-session"},
	}
	for _, tc := range cases {
		if w := do(r, tc.method, tc.path, "valid"); w.Code != http.StatusForbidden {
			t.Errorf("%s %s: %d, want 403", tc.method, tc.path, w.Code)
		}
	}
}

func TestAdminResponsesAreNotCached(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/admin/users", "valid")
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("Cache-Control = %q", w.Header().Get("Cache-Control"))
	}
}

func TestWebSocketRequiresQueryToken(t *testing.T) {
	r := newTestRouter(t, model.PermissionActionsRead)

	if w := do(r, http.MethodGet, "/ws/v1/admin/actions/stream", "valid"); w.Code != http.StatusUnauthorized {
		t.Fatalf("header token should not authenticate a WebSocket: %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/ws/v1/admin/actions/stream?token=forged", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad query token: %d", w.Code)
	}
}
