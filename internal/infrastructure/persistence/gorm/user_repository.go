package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/user"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := dbFromContext(ctx, r.db).Create(u).Error; err != nil {
		return apperrors.NewDatabase("create user", err)
	}
	return nil
}

// Update saves all fields of an existing user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	result := dbFromContext(ctx, r.db).Save(u)
	if result.Error != nil {
		return apperrors.NewDatabase("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("user")
	}
	return nil
}

// Delete removes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&user.User{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabase("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("user")
	}
	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	err := dbFromContext(ctx, r.db).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewDatabase("find user", err)
	}
	return &u, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := dbFromContext(ctx, r.db).First(&u, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewDatabase("find user by email", err)
	}
	return &u, nil
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := dbFromContext(ctx, r.db).First(&u, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewDatabase("find user by username", err)
	}
	return &u, nil
}

// ExistsByEmail reports whether a user with the email exists
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&user.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabase("count users by email", err)
	}
	return count > 0, nil
}

// ExistsByUsername reports whether a user with the username exists
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&user.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabase("count users by username", err)
	}
	return count > 0, nil
}

// FindSharingHousehold returns users who share at least one household
// with the given user, excluding the user themselves.
func (r *UserRepository) FindSharingHousehold(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*user.User, int, error) {
	db := dbFromContext(ctx, r.db)

	sub := db.Table("user_households").
		Select("user_id").
		Where("household_id IN (?)",
			db.Table("user_households").
				Select("household_id").
				Where("user_id = ?", userID),
		)

	var total int64
	if err := db.Model(&user.User{}).
		Where("id IN (?) AND id <> ?", sub, userID).
		Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("count household peers", err)
	}

	var users []*user.User
	err := db.
		Where("id IN (?) AND id <> ?", sub, userID).
		Order("username ASC").
		Scopes(paginate(offset, limit)).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabase("list household peers", err)
	}
	return users, int(total), nil
}
