// Package auth provides the application layer for authentication:
// registration, login, token refresh, and logout.
package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mealsync/api/internal/domain/user"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements authentication use cases
type Service struct {
	userRepo outbound.UserRepository
	tokens   *TokenService
	logger   *zap.Logger
}

// NewService creates a new auth service
func NewService(userRepo outbound.UserRepository, tokens *TokenService, logger *zap.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.Named("auth-service"),
	}
}

// RegisterCommand contains user registration data
type RegisterCommand struct {
	Email    string
	Username string
	Password string
	FullName string
}

// LoginCommand contains user login data
type LoginCommand struct {
	Email    string
	Password string
}

// AuthResponse contains authentication response data
type AuthResponse struct {
	User         *user.User `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int        `json:"expires_in"`
}

// Register creates a new user account and issues a token pair.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewEmailExists(email)
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewUsernameExists(cmd.Username)
	}

	newUser, err := user.New(email, cmd.Username, cmd.Password)
	if err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	newUser.FullName = strings.TrimSpace(cmd.FullName)

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", newUser.ID.String()),
		zap.String("email", newUser.Email),
	)

	return s.respondWithTokens(newUser)
}

// Login authenticates a user and issues a token pair.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// Not-found collapses into invalid credentials so the response
		// doesn't leak which emails exist.
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}

	if err := u.CheckPassword(cmd.Password); err != nil {
		s.logger.Warn("invalid password attempt", zap.String("email", email))
		return nil, apperrors.NewInvalidCredentials()
	}

	if !u.IsActive {
		return nil, apperrors.NewForbidden("Account is deactivated")
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID.String()))
	return s.respondWithTokens(u)
}

// Refresh validates a refresh token and issues a fresh pair. The old
// refresh token is revoked so it cannot be replayed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.Validate(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewUnauthorized("Account no longer exists")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, apperrors.NewForbidden("Account is deactivated")
	}

	if err := s.tokens.Revoke(ctx, claims); err != nil {
		s.logger.Warn("failed to revoke refresh token", zap.Error(err))
	}

	return s.respondWithTokens(u)
}

// Logout revokes the presented access token.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.Validate(ctx, accessToken, TokenTypeAccess)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return apperrors.NewInternal("failed to revoke token").WithCause(err)
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID.String()))
	return nil
}

// Authenticate validates an access token and returns its claims. Used by
// the HTTP auth middleware.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Claims, error) {
	return s.tokens.Validate(ctx, accessToken, TokenTypeAccess)
}

func (s *Service) respondWithTokens(u *user.User) (*AuthResponse, error) {
	access, refresh, err := s.tokens.GeneratePair(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:         u,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessExpiration().Seconds()),
	}, nil
}
