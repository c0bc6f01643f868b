package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/household"
	"github.com/mealsync/api/internal/domain/user"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// HouseholdRepository implements the household repository interface using GORM
type HouseholdRepository struct {
	db *gorm.DB
}

// NewHouseholdRepository creates a new household repository
func NewHouseholdRepository(db *gorm.DB) outbound.HouseholdRepository {
	return &HouseholdRepository{db: db}
}

// Create creates a new household
func (r *HouseholdRepository) Create(ctx context.Context, h *household.Household) error {
	if err := dbFromContext(ctx, r.db).Create(h).Error; err != nil {
		return apperrors.NewDatabase("create household", err)
	}
	return nil
}

// Update saves all fields of an existing household
func (r *HouseholdRepository) Update(ctx context.Context, h *household.Household) error {
	// Omit Members so Save never rewrites the join table.
	result := dbFromContext(ctx, r.db).Omit("Members").Save(h)
	if result.Error != nil {
		return apperrors.NewDatabase("update household", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("household")
	}
	return nil
}

// Delete removes a household by ID
func (r *HouseholdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Exec("DELETE FROM user_households WHERE household_id = ?", id).Error; err != nil {
		return apperrors.NewDatabase("clear household members", err)
	}

	result := db.Delete(&household.Household{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabase("delete household", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("household")
	}
	return nil
}

// FindByID finds a household by ID with members preloaded
func (r *HouseholdRepository) FindByID(ctx context.Context, id uuid.UUID) (*household.Household, error) {
	var h household.Household
	err := dbFromContext(ctx, r.db).
		Preload("Members").
		First(&h, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("household")
		}
		return nil, apperrors.NewDatabase("find household", err)
	}
	return &h, nil
}

// FindByInviteCode finds a household by its invite code
func (r *HouseholdRepository) FindByInviteCode(ctx context.Context, code string) (*household.Household, error) {
	var h household.Household
	err := dbFromContext(ctx, r.db).
		Preload("Members").
		First(&h, "invite_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewInvalidInviteCode()
		}
		return nil, apperrors.NewDatabase("find household by invite code", err)
	}
	return &h, nil
}

// FindByMember returns every household the user belongs to
func (r *HouseholdRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*household.Household, error) {
	var households []*household.Household
	err := dbFromContext(ctx, r.db).
		Joins("JOIN user_households uh ON uh.household_id = households.id").
		Where("uh.user_id = ?", userID).
		Order("households.created_at ASC").
		Find(&households).Error
	if err != nil {
		return nil, apperrors.NewDatabase("list households by member", err)
	}
	return households, nil
}

// AddMember inserts a membership row
func (r *HouseholdRepository) AddMember(ctx context.Context, householdID, userID uuid.UUID) error {
	err := dbFromContext(ctx, r.db).
		Exec("INSERT INTO user_households (household_id, user_id) VALUES (?, ?)", householdID, userID).Error
	if err != nil {
		return apperrors.NewDatabase("add household member", err)
	}
	return nil
}

// RemoveMember deletes a membership row
func (r *HouseholdRepository) RemoveMember(ctx context.Context, householdID, userID uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Exec("DELETE FROM user_households WHERE household_id = ? AND user_id = ?", householdID, userID)
	if result.Error != nil {
		return apperrors.NewDatabase("remove household member", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("household member")
	}
	return nil
}

// IsMember reports whether the user belongs to the household
func (r *HouseholdRepository) IsMember(ctx context.Context, householdID, userID uuid.UUID) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).
		Table("user_households").
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabase("check household membership", err)
	}
	return count > 0, nil
}

// Members returns the household's members
func (r *HouseholdRepository) Members(ctx context.Context, householdID uuid.UUID) ([]*user.User, error) {
	var users []*user.User
	err := dbFromContext(ctx, r.db).
		Joins("JOIN user_households uh ON uh.user_id = users.id").
		Where("uh.household_id = ?", householdID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.NewDatabase("list household members", err)
	}
	return users, nil
}
