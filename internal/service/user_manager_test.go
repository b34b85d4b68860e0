package service

import (
	"errors"
	"testing"

	"github.com/stemsi/classroom-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  Alice@Example.COM ": "Alice@example.com",
		"bob@school.ID":        "bob@school.id",
		"no-at-sign":           "no-at-sign",
		"":                     "",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildRequiresEmailPasswordAndClass(t *testing.T) {
	m := NewUserManager(nil, bcrypt.MinCost)

	cases := []struct {
		name string
		p    CreateUserParams
		want error
	}{
		{"email", CreateUserParams{Password: "pw", ClassID: 1}, ErrEmailRequired},
		{"password", CreateUserParams{Email: "a@b.c", ClassID: 1}, ErrPasswordRequired},
		{"class", CreateUserParams{Email: "a@b.c", Password: "pw"}, ErrClassRequired},
		{"role", CreateUserParams{Email: "a@b.c", Password: "pw", ClassID: 1, Role: "TEACHER"}, ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.build(tc.p, false); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildRegularUser(t *testing.T) {
	m := NewUserManager(nil, bcrypt.MinCost)

	u, err := m.build(CreateUserParams{
		Email:    "Student@School.ID",
		Password: "secret123",
		ClassID:  3,
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.Email != "Student@school.id" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Role != model.RoleStudent {
		t.Errorf("expected default role STUDENT, got %s", u.Role)
	}
	if !u.IsActive || u.IsStaff || u.IsSuperuser {
		t.Errorf("unexpected flags: active=%v staff=%v superuser=%v", u.IsActive, u.IsStaff, u.IsSuperuser)
	}
	if u.PasswordHash == "secret123" {
		t.Fatal("password stored in plain text")
	}
	if err := m.CheckPassword(u.PasswordHash, "secret123"); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if err := m.CheckPassword(u.PasswordHash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBuildSuperuser(t *testing.T) {
	m := NewUserManager(nil, bcrypt.MinCost)
	base := CreateUserParams{Email: "root@school.id", Password: "pw", ClassID: 1, Role: model.RoleStudent}

	u, err := m.build(base, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.IsStaff || !u.IsSuperuser || !u.IsActive || u.Role != model.RoleAdmin {
		t.Errorf("superuser flags not forced: %+v", u)
	}

	no := false
	withStaff := base
	withStaff.IsStaff = &no
	if _, err := m.build(withStaff, true); !errors.Is(err, ErrSuperuserStaff) {
		t.Errorf("expected ErrSuperuserStaff, got %v", err)
	}

	withSuper := base
	withSuper.IsSuperuser = &no
	if _, err := m.build(withSuper, true); !errors.Is(err, ErrSuperuserFlag) {
		t.Errorf("expected ErrSuperuserFlag, got %v", err)
	}
}

func TestNewUserManagerClampsCost(t *testing.T) {
	if m := NewUserManager(nil, 99); m.bcryptCost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", m.bcryptCost)
	}
}
