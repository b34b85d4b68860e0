package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the category a user belongs to.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
)

// DefaultRole is assigned when an account is created without one.
const DefaultRole = RoleStudent

// Roles lists every accepted role, in display order.
var Roles = []Role{RoleAdmin, RoleStudent, RoleInstructor}

// Valid reports whether r is one of the accepted roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleInstructor:
		return true
	}
	return false
}

// Label returns the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleStudent:
		return "Student"
	case RoleInstructor:
		return "Instructor"
	}
	return string(r)
}

// ParseRole accepts a role code in any letter case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is an authenticable principal. Email is the login key.
type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	ClassID      int        `json:"class_id"`
	ClassName    string     `json:"class_name,omitempty"`
	Role         Role       `json:"role"`
	IsStaff      bool       `json:"is_staff"`
	IsActive     bool       `json:"is_active"`
	IsDeleted    bool       `json:"is_deleted"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u User) String() string {
	return u.Email
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// CanLogin reports whether the account may open a console session.
func (u User) CanLogin() bool {
	return u.IsActive && !u.IsDeleted && u.IsStaff
}

// LoginRequest is the payload for console authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is returned after a successful console login.
type LoginResponse struct {
	Token       string   `json:"token"`
	User        User     `json:"user"`
	Permissions []string `json:"permissions"`
}

// CreateUserRequest mirrors the add form: email, password twice, and class.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password1   string `json:"password1" binding:"required,min=8,max=128"`
	Password2   string `json:"password2" binding:"required,eqfield=Password1"`
	ClassID     int    `json:"class_id" binding:"required,min=1"`
	FirstName   string `json:"first_name" binding:"max=50"`
	LastName    string `json:"last_name" binding:"max=50"`
	Role        Role   `json:"role" binding:"omitempty,role"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UpdateUserRequest is the change form. Passwords are changed separately.
type UpdateUserRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	FirstName   string `json:"first_name" binding:"max=50"`
	LastName    string `json:"last_name" binding:"max=50"`
	ClassID     int    `json:"class_id" binding:"required,min=1"`
	Role        Role   `json:"role" binding:"required,role"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// ChangePasswordRequest sets a new password for a user.
type ChangePasswordRequest struct {
	Password1 string `json:"password1" binding:"required,min=8,max=128"`
	Password2 string `json:"password2" binding:"required,eqfield=Password1"`
}
