package service

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/model"
)

func newTestAuthService(secret string, expiry time.Duration) *AuthService {
	cfg := &config.Config{JWTSecret: secret, JWTExpiry: expiry}
	return NewAuthService(cfg, nil, nil, nil, zerolog.Nop())
}

func TestSignAndValidateToken(t *testing.T) {
	s := newTestAuthService("test-secret", time.Hour)
	user := &model.User{ID: 7, ClassID: 2, Role: model.RoleInstructor}
	perms := model.PermissionsFor(user)

	token, err := s.signToken(user, perms, "jti-1", time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.ClassID != 2 || claims.Role != model.RoleInstructor {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID != "jti-1" || claims.Subject != "7" {
		t.Errorf("unexpected registered claims: id=%q sub=%q", claims.ID, claims.Subject)
	}
	if !claims.Has(model.PermissionAssignmentsWriteOwn) {
		t.Error("instructor should hold assignments:write_own")
	}
	if claims.Has(model.PermissionAssignmentsWriteAll) {
		t.Error("instructor should not hold assignments:write_all")
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	signer := newTestAuthService("one", time.Hour)
	verifier := newTestAuthService("two", time.Hour)

	token, err := signer.signToken(&model.User{ID: 1, Role: model.RoleAdmin}, nil, "x", time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := newTestAuthService("secret", time.Minute)

	token, err := s.signToken(&model.User{ID: 1, Role: model.RoleAdmin}, nil, "x", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = s.ValidateToken(token)
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestSuperuserClaimsHoldEveryPermission(t *testing.T) {
	s := newTestAuthService("secret", time.Hour)
	user := &model.User{ID: 1, Role: model.RoleStudent, IsSuperuser: true}

	token, err := s.signToken(user, model.PermissionsFor(user), "x", time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, p := range model.AllPermissions {
		if !claims.Has(p) {
			t.Errorf("superuser missing %s", p)
		}
	}
}
