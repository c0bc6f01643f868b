// Package user provides the application layer for user management
package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealsync/api/internal/domain/user"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements user management use cases
type Service struct {
	userRepo outbound.UserRepository
	logger   *zap.Logger
}

// NewService creates a new user service
func NewService(userRepo outbound.UserRepository, logger *zap.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   logger.Named("user-service"),
	}
}

// UpdateProfileCommand contains profile fields to change. Nil pointers
// leave the current value untouched.
type UpdateProfileCommand struct {
	FullName           *string
	DietaryPreferences *string
	Allergies          *string
}

// GetByID returns a user by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateProfile applies partial profile changes to the user.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, cmd UpdateProfileCommand) (*user.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cmd.FullName != nil {
		u.FullName = strings.TrimSpace(*cmd.FullName)
	}
	if cmd.DietaryPreferences != nil {
		u.DietaryPreferences = strings.TrimSpace(*cmd.DietaryPreferences)
	}
	if cmd.Allergies != nil {
		u.Allergies = strings.TrimSpace(*cmd.Allergies)
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user profile updated", zap.String("user_id", userID.String()))
	return u, nil
}

// ChangePassword verifies the current password and sets a new one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := u.CheckPassword(currentPassword); err != nil {
		return apperrors.NewBadRequest("Current password is incorrect")
	}
	if err := u.SetPassword(newPassword); err != nil {
		return apperrors.NewValidation(err.Error())
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.Info("user password changed", zap.String("user_id", userID.String()))
	return nil
}

// Deactivate marks the account inactive. The user's data stays in place
// so household history keeps its references.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	u.Deactivate()
	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.Info("user deactivated", zap.String("user_id", userID.String()))
	return nil
}

// GetVisible returns another user's profile, but only when the caller
// shares a household with them.
func (s *Service) GetVisible(ctx context.Context, callerID, targetID uuid.UUID) (*user.User, error) {
	if callerID == targetID {
		return s.userRepo.FindByID(ctx, targetID)
	}

	peers, _, err := s.userRepo.FindSharingHousehold(ctx, callerID, 0, 100)
	if err != nil {
		return nil, err
	}
	for _, p := range peers {
		if p.ID == targetID {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFound("user")
}

// ListPeers returns users sharing at least one household with the caller.
func (s *Service) ListPeers(ctx context.Context, callerID uuid.UUID, offset, limit int) ([]*user.User, int, error) {
	return s.userRepo.FindSharingHousehold(ctx, callerID, offset, limit)
}
