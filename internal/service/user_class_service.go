package service

import (
	"context"
	"strings"

	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/response"
)

// UserClassService handles class business logic.
type UserClassService struct {
	classRepo *repository.UserClassRepository
}

// NewUserClassService creates a new UserClassService.
func NewUserClassService(classRepo *repository.UserClassRepository) *UserClassService {
	return &UserClassService{classRepo: classRepo}
}

// GetByID retrieves a class by its ID.
func (s *UserClassService) GetByID(ctx context.Context, id int) (*model.UserClass, error) {
	return s.classRepo.GetByID(ctx, id)
}

// List retrieves classes matching the console query.
func (s *UserClassService) List(ctx context.Context, q ListQuery) ([]model.UserClass, *response.Pagination, error) {
	params, q, err := listParams(adminsite.Default.MustGet(adminsite.ModelUserClasses), q)
	if err != nil {
		return nil, nil, err
	}

	classes, total, err := s.classRepo.List(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	return classes, response.NewPagination(q.Page, q.PerPage, total), nil
}

// Create creates a new class. Names are stored trimmed.
func (s *UserClassService) Create(ctx context.Context, class *model.UserClass) error {
	class.Name = strings.TrimSpace(class.Name)
	return s.classRepo.Create(ctx, class)
}

// Update renames a class.
func (s *UserClassService) Update(ctx context.Context, class *model.UserClass) error {
	class.Name = strings.TrimSpace(class.Name)
	return s.classRepo.Update(ctx, class)
}

// Delete removes a class together with every user, assignment and
// submission scoped to it.
func (s *UserClassService) Delete(ctx context.Context, id int) (*model.UserClass, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return class, nil
}
