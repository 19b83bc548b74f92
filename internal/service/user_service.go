package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// MaxUsers caps GET /admin/users.
const MaxUsers = 1000

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new admin user service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// List returns users newest first.
func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx, MaxUsers)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update changes a user's name and/or role.
func (s *userService) Update(ctx context.Context, id string, req *model.UserUpdateRequest) (*model.User, error) {
	userID, err := parseID(id, model.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, model.NewValidationError("Name must not be empty")
		}
		name = &trimmed
	}
	if req.Role != nil && !req.Role.Valid() {
		return nil, model.NewValidationError("Role must be user or admin")
	}

	var user *model.User
	if name == nil && req.Role == nil {
		user, err = s.userRepo.GetByID(ctx, userID)
	} else {
		user, err = s.userRepo.Update(ctx, userID, name, req.Role)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to update user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	if req.Role != nil {
		s.logger.Info().Str("user_id", id).Str("role", string(user.Role)).Msg("user role changed")
	}

	return user, nil
}

// Delete removes a user and their cart. Orders stay, detached from the owner.
func (s *userService) Delete(ctx context.Context, actor *model.User, id string) error {
	userID, err := parseID(id, model.ErrUserNotFound)
	if err != nil {
		return err
	}
	if actor != nil && actor.ID == userID {
		return model.ErrSelfDelete
	}

	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return model.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
