package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/response"
)

// UserService handles user account management from the console.
type UserService struct {
	userRepo    *repository.UserRepository
	manager     *UserManager
	authService *AuthService
	log         zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo *repository.UserRepository,
	manager *UserManager,
	authService *AuthService,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		manager:     manager,
		authService: authService,
		log:         log.With().Str("component", "user_service").Logger(),
	}
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List retrieves users matching the console query and filter.
func (s *UserService) List(ctx context.Context, f repository.UserFilter, q ListQuery) ([]model.User, *response.Pagination, error) {
	params, q, err := listParams(adminsite.Default.MustGet(adminsite.ModelUsers), q)
	if err != nil {
		return nil, nil, err
	}

	users, total, err := s.userRepo.List(ctx, f, params)
	if err != nil {
		return nil, nil, err
	}
	return users, response.NewPagination(q.Page, q.PerPage, total), nil
}

// Create adds an account through the UserManager.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	u, err := s.manager.CreateUser(ctx, CreateUserParams{
		Email:       req.Email,
		Password:    req.Password1,
		ClassID:     req.ClassID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        req.Role,
		IsStaff:     &req.IsStaff,
		IsSuperuser: &req.IsSuperuser,
	})
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, u.ID)
}

// Update modifies a user's profile and flags and reports which fields
// changed. When anything baked into console tokens changes, the user's
// session is revoked.
func (s *UserService) Update(ctx context.Context, actorID int, u *model.User) (*model.User, []string, error) {
	if !u.Role.Valid() {
		return nil, nil, ErrInvalidRole
	}

	existing, err := s.userRepo.GetByID(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	if actorID == u.ID && (!u.IsActive || !u.IsStaff) {
		return nil, nil, ErrSelfAction
	}
	if u.ClassID != existing.ClassID {
		authored, err := s.userRepo.HasAuthoredWork(ctx, u.ID)
		if err != nil {
			return nil, nil, err
		}
		if err := checkClassMove(existing.ClassID, u.ClassID, authored); err != nil {
			return nil, nil, err
		}
	}

	u.Email = NormalizeEmail(u.Email)
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, nil, err
	}

	if tokenFieldsChanged(existing, u) {
		s.resetSession(ctx, u.ID)
	}
	updated, err := s.userRepo.GetByID(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return updated, userChanges(existing, updated), nil
}

// userChanges lists the form fields that differ, in form order.
func userChanges(before, after *model.User) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("email", before.Email != after.Email)
	add("first_name", before.FirstName != after.FirstName)
	add("last_name", before.LastName != after.LastName)
	add("is_active", before.IsActive != after.IsActive)
	add("is_staff", before.IsStaff != after.IsStaff)
	add("is_superuser", before.IsSuperuser != after.IsSuperuser)
	add("role", before.Role != after.Role)
	add("class_id", before.ClassID != after.ClassID)
	return changed
}

func tokenFieldsChanged(before, after *model.User) bool {
	return before.Role != after.Role ||
		before.ClassID != after.ClassID ||
		before.IsActive != after.IsActive ||
		before.IsStaff != after.IsStaff ||
		before.IsSuperuser != after.IsSuperuser
}

// ChangePassword sets a new password and ends the user's session.
func (s *UserService) ChangePassword(ctx context.Context, id int, password string) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.manager.SetPassword(ctx, id, password); err != nil {
		return nil, err
	}
	s.resetSession(ctx, id)
	return u, nil
}

// Deactivate marks the user deleted and inactive without removing rows.
func (s *UserService) Deactivate(ctx context.Context, actorID, id int) (*model.User, error) {
	if actorID == id {
		return nil, ErrSelfAction
	}
	if err := s.userRepo.MarkDeleted(ctx, id); err != nil {
		return nil, err
	}
	s.resetSession(ctx, id)
	return s.userRepo.GetByID(ctx, id)
}

// Delete removes the user and everything they authored.
func (s *UserService) Delete(ctx context.Context, actorID, id int) (*model.User, error) {
	if actorID == id {
		return nil, ErrSelfAction
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.resetSession(ctx, id)
	return u, nil
}

// ResetSession ends a user's console session.
func (s *UserService) ResetSession(ctx context.Context, id int) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.authService.ResetSession(ctx, id)
}

func (s *UserService) resetSession(ctx context.Context, id int) {
	if err := s.authService.ResetSession(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("user_id", id).Msg("failed to reset session")
	}
}
