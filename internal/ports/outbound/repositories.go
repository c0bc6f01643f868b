// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealsync/api/internal/domain/grocery"
	"github.com/mealsync/api/internal/domain/household"
	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/domain/meal"
	"github.com/mealsync/api/internal/domain/recipe"
	"github.com/mealsync/api/internal/domain/user"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// FindSharingHousehold returns users who share at least one household
	// with the given user.
	FindSharingHousehold(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*user.User, int, error)
}

// HouseholdRepository defines the interface for household persistence
type HouseholdRepository interface {
	Create(ctx context.Context, h *household.Household) error
	Update(ctx context.Context, h *household.Household) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*household.Household, error)
	FindByInviteCode(ctx context.Context, code string) (*household.Household, error)
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*household.Household, error)

	// Membership management over the join table.
	AddMember(ctx context.Context, householdID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, householdID, userID uuid.UUID) error
	IsMember(ctx context.Context, householdID, userID uuid.UUID) (bool, error)
	Members(ctx context.Context, householdID uuid.UUID) ([]*user.User, error)
}

// IngredientRepository defines the interface for ingredient persistence
type IngredientRepository interface {
	Create(ctx context.Context, i *ingredient.Ingredient) error
	Update(ctx context.Context, i *ingredient.Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*ingredient.Ingredient, error)
	FindByHousehold(ctx context.Context, householdID uuid.UUID, filter IngredientFilter) ([]*ingredient.Ingredient, int, error)

	// FindAllByHousehold returns the full inventory without paging, used
	// by fuzzy matching which needs every candidate.
	FindAllByHousehold(ctx context.Context, householdID uuid.UUID) ([]*ingredient.Ingredient, error)
}

// IngredientFilter narrows ingredient listings
type IngredientFilter struct {
	Query    string
	Category *ingredient.Category
	Offset   int
	Limit    int
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// FindVisible returns recipes the user may see: their own, their
	// households', and public ones.
	FindVisible(ctx context.Context, userID uuid.UUID, householdIDs []uuid.UUID, criteria RecipeSearchCriteria) ([]*recipe.Recipe, int, error)
	FindByHousehold(ctx context.Context, householdID uuid.UUID) ([]*recipe.Recipe, error)

	// ReplaceIngredients swaps a recipe's ingredient links atomically.
	ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, items []recipe.RecipeIngredient) error
}

// RecipeSearchCriteria defines search parameters for recipes
type RecipeSearchCriteria struct {
	Query       string
	Cuisine     *recipe.Cuisine
	Difficulty  *recipe.Difficulty
	MaxTotalMin *int
	Tags        []string
	Offset      int
	Limit       int
	OrderBy     string
	OrderDir    string
}

// MealRepository defines the interface for meal persistence
type MealRepository interface {
	Create(ctx context.Context, m *meal.Meal) error
	Update(ctx context.Context, m *meal.Meal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*meal.Meal, error)
	FindByHousehold(ctx context.Context, householdID uuid.UUID, filter MealFilter) ([]*meal.Meal, int, error)

	// FindByDateRange returns meals in [start, end] ordered by date then
	// meal type, with recipes preloaded.
	FindByDateRange(ctx context.Context, householdID uuid.UUID, start, end time.Time) ([]*meal.Meal, error)

	// FindRecentCompleted returns completed meals since the given time,
	// newest first, for AI meal-plan context.
	FindRecentCompleted(ctx context.Context, householdID uuid.UUID, since time.Time, limit int) ([]*meal.Meal, error)
}

// MealFilter narrows meal listings
type MealFilter struct {
	From         *time.Time
	To           *time.Time
	MealType     *meal.Type
	Status       *meal.Status
	AssignedToID *uuid.UUID
	Offset       int
	Limit        int
}

// GroceryListRepository defines the interface for grocery list persistence
type GroceryListRepository interface {
	Create(ctx context.Context, l *grocery.GroceryList) error
	Update(ctx context.Context, l *grocery.GroceryList) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*grocery.GroceryList, error)
	FindByHousehold(ctx context.Context, householdID uuid.UUID, offset, limit int) ([]*grocery.GroceryList, int, error)

	// FindRecentByHousehold returns the newest lists with items preloaded,
	// used to derive the household's available (purchased) ingredients.
	FindRecentByHousehold(ctx context.Context, householdID uuid.UUID, limit int) ([]*grocery.GroceryList, error)

	CreateItem(ctx context.Context, item *grocery.GroceryItem) error
	UpdateItem(ctx context.Context, item *grocery.GroceryItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*grocery.GroceryItem, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
}

// Transactor runs a function inside a single database transaction.
// Repository calls made with the context it passes join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
