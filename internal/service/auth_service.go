package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// AuthOptions configures admin address handling.
type AuthOptions struct {
	// AdminEmail is registered as admin. Compared case-insensitively.
	AdminEmail string
	// AutoPromote promotes an existing AdminEmail account at login.
	AutoPromote bool
}

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	opts     AuthOptions
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	opts AuthOptions,
	logger zerolog.Logger,
) AuthService {
	opts.AdminEmail = normalizeEmail(opts.AdminEmail)
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		opts:     opts,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) isAdminEmail(email string) bool {
	return s.opts.AdminEmail != "" && email == s.opts.AdminEmail
}

// Register creates a user account and signs a session token for it.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, model.NewValidationError("Name, email, and password are required")
	}
	if utf8.RuneCountInString(req.Password) < auth.MinPasswordLength {
		return nil, model.NewValidationError(fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength))
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, model.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to look up email")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("email", email).Msg("email already registered")
		return nil, model.ErrEmailInUse
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	role := model.RoleUser
	if s.isAdminEmail(email) {
		role = model.RoleAdmin
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailInUse) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user registered")

	return s.respond(user)
}

// Login checks credentials and signs a session token. Unknown emails and
// wrong passwords fail with the same error.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, model.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil {
		auth.BurnPasswordCheck(req.Password)
		s.logger.Debug().Str("email", email).Msg("login for unknown email")
		return nil, model.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Debug().Str("user_id", user.ID.String()).Msg("login with wrong password")
		return nil, model.ErrInvalidCredentials
	}

	if s.opts.AutoPromote && s.isAdminEmail(user.Email) && !user.IsAdmin() {
		role := model.RoleAdmin
		promoted, err := s.userRepo.Update(ctx, user.ID, nil, &role)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to promote admin")
			return nil, fmt.Errorf("failed to log in: %w", err)
		}
		if promoted != nil {
			user = promoted
		}
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("configured admin email promoted to admin")
	}

	return s.respond(user)
}

// Authenticate resolves the user named by a session token.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.ErrAuthRequired
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token rejected")
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load token user")
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if user == nil {
		s.logger.Debug().Str("user_id", userID.String()).Msg("token names a deleted user")
		return nil, model.ErrInvalidToken
	}

	return user, nil
}

func (s *authService) respond(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.AuthResponse{User: user.Sanitize(), Token: token}, nil
}
