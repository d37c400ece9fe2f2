package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/repositories"
)

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	ChangeRole(ctx context.Context, actor *models.User, targetID int, role models.UserRole) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ChangeRole promotes or demotes another account. Admins cannot change
// their own role, so a deployment always keeps at least one admin.
func (s *userService) ChangeRole(ctx context.Context, actor *models.User, targetID int, role models.UserRole) (*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}
	if actor.ID == targetID {
		return nil, fmt.Errorf("%w: cannot change own role", ErrValidationFailed)
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
