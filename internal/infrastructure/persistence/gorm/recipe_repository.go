package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/recipe"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe with its ingredient links
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	if err := dbFromContext(ctx, r.db).Create(rec).Error; err != nil {
		return apperrors.NewDatabase("create recipe", err)
	}
	return nil
}

// Update saves all scalar fields of an existing recipe. Ingredient links
// are managed through ReplaceIngredients.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	result := dbFromContext(ctx, r.db).Omit("Ingredients").Save(rec)
	if result.Error != nil {
		return apperrors.NewDatabase("update recipe", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("recipe")
	}
	return nil
}

// Delete removes a recipe and its ingredient links
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Delete(&recipe.RecipeIngredient{}, "recipe_id = ?", id).Error; err != nil {
		return apperrors.NewDatabase("delete recipe ingredients", err)
	}

	result := db.Delete(&recipe.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabase("delete recipe", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("recipe")
	}
	return nil
}

// FindByID finds a recipe by ID with ingredients preloaded
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	err := dbFromContext(ctx, r.db).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position ASC")
		}).
		Preload("Ingredients.Ingredient").
		First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("recipe")
		}
		return nil, apperrors.NewDatabase("find recipe", err)
	}
	return &rec, nil
}

// FindVisible returns recipes the user may see: their own, their
// households', and public ones, filtered by the search criteria.
func (r *RecipeRepository) FindVisible(ctx context.Context, userID uuid.UUID, householdIDs []uuid.UUID, criteria outbound.RecipeSearchCriteria) ([]*recipe.Recipe, int, error) {
	db := dbFromContext(ctx, r.db).Model(&recipe.Recipe{})

	if len(householdIDs) > 0 {
		db = db.Where("created_by_id = ? OR is_public = ? OR household_id IN ?", userID, true, householdIDs)
	} else {
		db = db.Where("created_by_id = ? OR is_public = ?", userID, true)
	}

	if criteria.Query != "" {
		q := "%" + strings.ToLower(criteria.Query) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", q, q)
	}
	if criteria.Cuisine != nil {
		db = db.Where("cuisine = ?", *criteria.Cuisine)
	}
	if criteria.Difficulty != nil {
		db = db.Where("difficulty = ?", *criteria.Difficulty)
	}
	if criteria.MaxTotalMin != nil {
		// NULL time columns count as zero so untimed recipes stay visible.
		db = db.Where("COALESCE(prep_time_minutes, 0) + COALESCE(cook_time_minutes, 0) <= ?", *criteria.MaxTotalMin)
	}
	for _, tag := range criteria.Tags {
		db = db.Where("LOWER(tags) LIKE ?", "%"+strings.ToLower(tag)+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("count recipes", err)
	}

	var recipes []*recipe.Recipe
	err := db.
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Order(orderClause(criteria.OrderBy, criteria.OrderDir)).
		Scopes(paginate(criteria.Offset, criteria.Limit)).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabase("list recipes", err)
	}
	return recipes, int(total), nil
}

// FindByHousehold returns all recipes belonging to a household
func (r *RecipeRepository) FindByHousehold(ctx context.Context, householdID uuid.UUID) ([]*recipe.Recipe, error) {
	var recipes []*recipe.Recipe
	err := dbFromContext(ctx, r.db).
		Where("household_id = ?", householdID).
		Order("name ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, apperrors.NewDatabase("list household recipes", err)
	}
	return recipes, nil
}

// ReplaceIngredients swaps a recipe's ingredient links. Callers run this
// inside a transaction when paired with a recipe update.
func (r *RecipeRepository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, items []recipe.RecipeIngredient) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Delete(&recipe.RecipeIngredient{}, "recipe_id = ?", recipeID).Error; err != nil {
		return apperrors.NewDatabase("clear recipe ingredients", err)
	}

	for i := range items {
		items[i].RecipeID = recipeID
		items[i].Position = i
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return apperrors.NewDatabase("create recipe ingredients", err)
		}
	}
	return nil
}

// orderClause whitelists sortable columns to keep user input out of SQL.
func orderClause(orderBy, orderDir string) string {
	col := "created_at"
	switch orderBy {
	case "name":
		col = "name"
	case "created_at", "":
	default:
	}
	dir := "DESC"
	if strings.EqualFold(orderDir, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}
