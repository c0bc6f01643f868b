package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/meal"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// MealRepository implements the meal repository interface using GORM
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *gorm.DB) outbound.MealRepository {
	return &MealRepository{db: db}
}

// Create creates a new meal
func (r *MealRepository) Create(ctx context.Context, m *meal.Meal) error {
	if err := dbFromContext(ctx, r.db).Create(m).Error; err != nil {
		return apperrors.NewDatabase("create meal", err)
	}
	return nil
}

// Update saves all fields of an existing meal
func (r *MealRepository) Update(ctx context.Context, m *meal.Meal) error {
	result := dbFromContext(ctx, r.db).
		Omit("Recipe", "AssignedTo").
		Save(m)
	if result.Error != nil {
		return apperrors.NewDatabase("update meal", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("meal")
	}
	return nil
}

// Delete removes a meal by ID
func (r *MealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&meal.Meal{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabase("delete meal", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("meal")
	}
	return nil
}

// FindByID finds a meal by ID with recipe and assignee preloaded
func (r *MealRepository) FindByID(ctx context.Context, id uuid.UUID) (*meal.Meal, error) {
	var m meal.Meal
	err := dbFromContext(ctx, r.db).
		Preload("Recipe").
		Preload("AssignedTo").
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("meal")
		}
		return nil, apperrors.NewDatabase("find meal", err)
	}
	return &m, nil
}

// FindByHousehold returns a filtered, paginated page of household meals
func (r *MealRepository) FindByHousehold(ctx context.Context, householdID uuid.UUID, filter outbound.MealFilter) ([]*meal.Meal, int, error) {
	db := dbFromContext(ctx, r.db).
		Model(&meal.Meal{}).
		Where("household_id = ?", householdID)

	if filter.From != nil {
		db = db.Where("meal_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("meal_date <= ?", *filter.To)
	}
	if filter.MealType != nil {
		db = db.Where("meal_type = ?", *filter.MealType)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.AssignedToID != nil {
		db = db.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("count meals", err)
	}

	var meals []*meal.Meal
	err := db.
		Preload("Recipe").
		Preload("AssignedTo").
		Order("meal_date ASC, meal_type ASC").
		Scopes(paginate(filter.Offset, filter.Limit)).
		Find(&meals).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabase("list meals", err)
	}
	return meals, int(total), nil
}

// FindByDateRange returns meals in [start, end] with recipes preloaded
func (r *MealRepository) FindByDateRange(ctx context.Context, householdID uuid.UUID, start, end time.Time) ([]*meal.Meal, error) {
	var meals []*meal.Meal
	err := dbFromContext(ctx, r.db).
		Preload("Recipe").
		Preload("Recipe.Ingredients").
		Preload("Recipe.Ingredients.Ingredient").
		Preload("AssignedTo").
		Where("household_id = ? AND meal_date >= ? AND meal_date <= ?", householdID, start, end).
		Order("meal_date ASC, meal_type ASC").
		Find(&meals).Error
	if err != nil {
		return nil, apperrors.NewDatabase("list meals by date range", err)
	}
	return meals, nil
}

// FindRecentCompleted returns completed meals since the given time,
// newest first.
func (r *MealRepository) FindRecentCompleted(ctx context.Context, householdID uuid.UUID, since time.Time, limit int) ([]*meal.Meal, error) {
	if limit <= 0 {
		limit = 20
	}
	var meals []*meal.Meal
	err := dbFromContext(ctx, r.db).
		Where("household_id = ? AND status = ? AND meal_date >= ?", householdID, meal.StatusCompleted, since).
		Order("meal_date DESC").
		Limit(limit).
		Find(&meals).Error
	if err != nil {
		return nil, apperrors.NewDatabase("list recent meals", err)
	}
	return meals, nil
}
