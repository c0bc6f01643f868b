package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// IngredientRepository implements the ingredient repository interface using GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create creates a new ingredient
func (r *IngredientRepository) Create(ctx context.Context, i *ingredient.Ingredient) error {
	if err := dbFromContext(ctx, r.db).Create(i).Error; err != nil {
		return apperrors.NewDatabase("create ingredient", err)
	}
	return nil
}

// Update saves all fields of an existing ingredient
func (r *IngredientRepository) Update(ctx context.Context, i *ingredient.Ingredient) error {
	result := dbFromContext(ctx, r.db).Save(i)
	if result.Error != nil {
		return apperrors.NewDatabase("update ingredient", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("ingredient")
	}
	return nil
}

// Delete removes an ingredient by ID
func (r *IngredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&ingredient.Ingredient{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabase("delete ingredient", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("ingredient")
	}
	return nil
}

// FindByID finds an ingredient by ID
func (r *IngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*ingredient.Ingredient, error) {
	var i ingredient.Ingredient
	err := dbFromContext(ctx, r.db).First(&i, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("ingredient")
		}
		return nil, apperrors.NewDatabase("find ingredient", err)
	}
	return &i, nil
}

// FindByHousehold returns a filtered, paginated page of the household inventory
func (r *IngredientRepository) FindByHousehold(ctx context.Context, householdID uuid.UUID, filter outbound.IngredientFilter) ([]*ingredient.Ingredient, int, error) {
	db := dbFromContext(ctx, r.db).
		Model(&ingredient.Ingredient{}).
		Where("household_id = ?", householdID)

	if filter.Query != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("count ingredients", err)
	}

	var items []*ingredient.Ingredient
	err := db.
		Order("name ASC").
		Scopes(paginate(filter.Offset, filter.Limit)).
		Find(&items).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabase("list ingredients", err)
	}
	return items, int(total), nil
}

// FindAllByHousehold returns the full inventory without paging
func (r *IngredientRepository) FindAllByHousehold(ctx context.Context, householdID uuid.UUID) ([]*ingredient.Ingredient, error) {
	var items []*ingredient.Ingredient
	err := dbFromContext(ctx, r.db).
		Where("household_id = ?", householdID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperrors.NewDatabase("list ingredients", err)
	}
	return items, nil
}
