// Package household provides the application layer for household
// management and membership.
package household

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealsync/api/internal/domain/household"
	"github.com/mealsync/api/internal/domain/user"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements household use cases
type Service struct {
	householdRepo outbound.HouseholdRepository
	logger        *zap.Logger
}

// NewService creates a new household service
func NewService(householdRepo outbound.HouseholdRepository, logger *zap.Logger) *Service {
	return &Service{
		householdRepo: householdRepo,
		logger:        logger.Named("household-service"),
	}
}

// Create creates a household and enrolls the creator as its first member.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name, description string) (*household.Household, error) {
	h, err := household.New(name, description, userID)
	if err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}

	if err := s.householdRepo.Create(ctx, h); err != nil {
		return nil, err
	}
	if err := s.householdRepo.AddMember(ctx, h.ID, userID); err != nil {
		return nil, err
	}

	s.logger.Info("household created",
		zap.String("household_id", h.ID.String()),
		zap.String("created_by", userID.String()),
	)
	return s.householdRepo.FindByID(ctx, h.ID)
}

// Get returns a household the user belongs to.
func (s *Service) Get(ctx context.Context, userID, householdID uuid.UUID) (*household.Household, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	return s.householdRepo.FindByID(ctx, householdID)
}

// List returns every household the user belongs to.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*household.Household, error) {
	return s.householdRepo.FindByMember(ctx, userID)
}

// Update renames a household. Only the owner may do this.
func (s *Service) Update(ctx context.Context, userID, householdID uuid.UUID, name, description string) (*household.Household, error) {
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !h.IsOwner(userID) {
		return nil, apperrors.NewForbidden("Only the household owner can update it")
	}

	if err := h.Rename(name, description); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.householdRepo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes a household. Only the owner may do this.
func (s *Service) Delete(ctx context.Context, userID, householdID uuid.UUID) error {
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return err
	}
	if !h.IsOwner(userID) {
		return apperrors.NewForbidden("Only the household owner can delete it")
	}

	if err := s.householdRepo.Delete(ctx, householdID); err != nil {
		return err
	}
	s.logger.Info("household deleted", zap.String("household_id", householdID.String()))
	return nil
}

// Join adds the user to the household matching the invite code.
func (s *Service) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*household.Household, error) {
	h, err := s.householdRepo.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	isMember, err := s.householdRepo.IsMember(ctx, h.ID, userID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, apperrors.NewConflict("You are already a member of this household")
	}

	if err := s.householdRepo.AddMember(ctx, h.ID, userID); err != nil {
		return nil, err
	}

	s.logger.Info("user joined household",
		zap.String("household_id", h.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return s.householdRepo.FindByID(ctx, h.ID)
}

// Leave removes the user from the household. The owner cannot leave;
// they must delete the household instead.
func (s *Service) Leave(ctx context.Context, userID, householdID uuid.UUID) error {
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return err
	}
	if h.IsOwner(userID) {
		return apperrors.NewBadRequest("The household owner cannot leave; delete the household instead")
	}

	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return err
	}
	return s.householdRepo.RemoveMember(ctx, householdID, userID)
}

// Members lists the household's members for any member.
func (s *Service) Members(ctx context.Context, userID, householdID uuid.UUID) ([]*user.User, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	return s.householdRepo.Members(ctx, householdID)
}

// RemoveMember kicks a member out. Only the owner may do this, and the
// owner cannot remove themselves.
func (s *Service) RemoveMember(ctx context.Context, callerID, householdID, memberID uuid.UUID) error {
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return err
	}
	if !h.IsOwner(callerID) {
		return apperrors.NewForbidden("Only the household owner can remove members")
	}
	if memberID == callerID {
		return apperrors.NewBadRequest("The owner cannot remove themselves")
	}
	return s.householdRepo.RemoveMember(ctx, householdID, memberID)
}

// RotateInviteCode replaces the invite code, invalidating the old one.
// Only the owner may do this.
func (s *Service) RotateInviteCode(ctx context.Context, userID, householdID uuid.UUID) (*household.Household, error) {
	h, err := s.householdRepo.FindByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !h.IsOwner(userID) {
		return nil, apperrors.NewForbidden("Only the household owner can rotate the invite code")
	}

	h.RotateInviteCode()
	if err := s.householdRepo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// RequireMember returns a forbidden error when the user does not belong
// to the household. Other services use it as their authorization gate.
func (s *Service) RequireMember(ctx context.Context, householdID, userID uuid.UUID) error {
	isMember, err := s.householdRepo.IsMember(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.NewNotHouseholdMember()
	}
	return nil
}
