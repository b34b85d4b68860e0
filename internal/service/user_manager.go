package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserManager errors.
var (
	ErrEmailRequired    = errors.New("the email must be set")
	ErrPasswordRequired = errors.New("the password must be set")
	ErrClassRequired    = errors.New("the class must be set")
	ErrSuperuserStaff   = errors.New("superuser must have is_staff=true")
	ErrSuperuserFlag    = errors.New("superuser must have is_superuser=true")
)

// CreateUserParams are the inputs accepted by UserManager. A nil flag
// takes the default for the kind of account being created.
type CreateUserParams struct {
	Email       string
	Password    string
	ClassID     int
	FirstName   string
	LastName    string
	Role        model.Role
	IsStaff     *bool
	IsSuperuser *bool
}

// UserManager builds user records: it normalizes the login email and
// stores only a bcrypt hash of the password.
type UserManager struct {
	userRepo   *repository.UserRepository
	bcryptCost int
}

// NewUserManager creates a new UserManager.
func NewUserManager(userRepo *repository.UserRepository, bcryptCost int) *UserManager {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserManager{userRepo: userRepo, bcryptCost: bcryptCost}
}

// NormalizeEmail trims the address and lower-cases the domain part.
// The local part is left alone; some mail hosts treat it case-sensitively.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// HashPassword hashes a password with the configured bcrypt cost.
func (m *UserManager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (m *UserManager) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// CreateUser creates a regular account. The role defaults to STUDENT.
func (m *UserManager) CreateUser(ctx context.Context, p CreateUserParams) (*model.User, error) {
	u, err := m.build(p, false)
	if err != nil {
		return nil, err
	}
	if err := m.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateSuperuser creates an ADMIN account with staff and superuser set.
// Explicitly passing either flag as false is rejected.
func (m *UserManager) CreateSuperuser(ctx context.Context, p CreateUserParams) (*model.User, error) {
	u, err := m.build(p, true)
	if err != nil {
		return nil, err
	}
	if err := m.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces a user's password.
func (m *UserManager) SetPassword(ctx context.Context, userID int, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	hash, err := m.HashPassword(password)
	if err != nil {
		return err
	}
	return m.userRepo.UpdatePassword(ctx, userID, hash)
}

// build validates params and produces an unsaved user.
func (m *UserManager) build(p CreateUserParams, superuser bool) (*model.User, error) {
	email := NormalizeEmail(p.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if p.Password == "" {
		return nil, ErrPasswordRequired
	}
	if p.ClassID <= 0 {
		return nil, ErrClassRequired
	}

	u := &model.User{
		Email:     email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		ClassID:   p.ClassID,
		Role:      p.Role,
		IsActive:  true,
	}
	if u.Role == "" {
		u.Role = model.DefaultRole
	}
	if !u.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if superuser {
		if p.IsStaff != nil && !*p.IsStaff {
			return nil, ErrSuperuserStaff
		}
		if p.IsSuperuser != nil && !*p.IsSuperuser {
			return nil, ErrSuperuserFlag
		}
		u.IsStaff = true
		u.IsSuperuser = true
		u.Role = model.RoleAdmin
	} else {
		u.IsStaff = p.IsStaff != nil && *p.IsStaff
		u.IsSuperuser = p.IsSuperuser != nil && *p.IsSuperuser
	}

	hash, err := m.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	return u, nil
}
