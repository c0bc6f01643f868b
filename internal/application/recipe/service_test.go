package recipe

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	householdapp "github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/domain/household"
	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/domain/recipe"
	"github.com/mealsync/api/internal/domain/user"
	gormrepo "github.com/mealsync/api/internal/infrastructure/persistence/gorm"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

type recipeFixture struct {
	svc         *Service
	households  *householdapp.Service
	ingredients outbound.IngredientRepository
	owner       *user.User
	member      *user.User
	outsider    *user.User
	household   *household.Household
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(
		sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, gormrepo.AutoMigrate(db))

	userRepo := gormrepo.NewUserRepository(db)
	newUser := func(email, name string) *user.User {
		u, err := user.New(email, name, "password123")
		require.NoError(t, err)
		require.NoError(t, userRepo.Create(ctx, u))
		return u
	}

	f := &recipeFixture{
		owner:       newUser("owner@example.com", "owner"),
		member:      newUser("member@example.com", "member"),
		outsider:    newUser("stranger@example.com", "stranger"),
		ingredients: gormrepo.NewIngredientRepository(db),
	}

	f.households = householdapp.NewService(gormrepo.NewHouseholdRepository(db), zap.NewNop())
	f.household, err = f.households.Create(ctx, f.owner.ID, "Test Kitchen", "")
	require.NoError(t, err)
	_, err = f.households.Join(ctx, f.member.ID, f.household.InviteCode)
	require.NoError(t, err)

	f.svc = NewService(
		gormrepo.NewRecipeRepository(db),
		f.ingredients,
		f.households,
		gormrepo.NewTransactor(db),
		zap.NewNop(),
	)
	return f
}

func (f *recipeFixture) seedIngredient(t *testing.T, name string, householdID uuid.UUID) *ingredient.Ingredient {
	t.Helper()
	ing := &ingredient.Ingredient{
		ID:          uuid.New(),
		Name:        name,
		Category:    ingredient.CategoryOther,
		HouseholdID: householdID,
	}
	require.NoError(t, f.ingredients.Create(context.Background(), ing))
	return ing
}

func TestCreateWithIngredientLinks(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	flour := f.seedIngredient(t, "flour", f.household.ID)
	hhID := f.household.ID

	rec, err := f.svc.Create(ctx, f.owner.ID, CreateCommand{
		Name:         "Pancakes",
		Instructions: "Mix and fry.",
		Servings:     4,
		HouseholdID:  &hhID,
		Ingredients: []IngredientInput{
			{IngredientID: flour.ID, Quantity: 200, Unit: "gram"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rec.Ingredients, 1)
	assert.Equal(t, flour.ID, rec.Ingredients[0].IngredientID)
	assert.Equal(t, ingredient.UnitGram, rec.Ingredients[0].Unit)

	t.Run("ForeignIngredientRejected", func(t *testing.T) {
		other, err := f.households.Create(ctx, f.outsider.ID, "Other Kitchen", "")
		require.NoError(t, err)
		foreign := f.seedIngredient(t, "secret spice", other.ID)

		_, err = f.svc.Create(ctx, f.owner.ID, CreateCommand{
			Name:         "Stolen",
			Instructions: "n/a",
			Servings:     1,
			HouseholdID:  &hhID,
			Ingredients:  []IngredientInput{{IngredientID: foreign.ID, Quantity: 1, Unit: "piece"}},
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	hhID := f.household.ID

	private, err := f.svc.Create(ctx, f.owner.ID, CreateCommand{
		Name:         "Family Secret",
		Instructions: "Don't tell.",
		Servings:     2,
		HouseholdID:  &hhID,
	})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.member.ID, private.ID)
	assert.NoError(t, err, "household members see household recipes")

	_, err = f.svc.Get(ctx, f.outsider.ID, private.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound), "outsiders get a 404, not a 403")

	public, err := f.svc.Create(ctx, f.owner.ID, CreateCommand{
		Name:         "Shared Bread",
		Instructions: "Bake.",
		Servings:     2,
		IsPublic:     true,
	})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.outsider.ID, public.ID)
	assert.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	flour := f.seedIngredient(t, "flour", f.household.ID)
	milk := f.seedIngredient(t, "milk", f.household.ID)
	hhID := f.household.ID

	rec, err := f.svc.Create(ctx, f.owner.ID, CreateCommand{
		Name:         "Pancakes",
		Instructions: "Mix and fry.",
		Servings:     4,
		HouseholdID:  &hhID,
		Ingredients:  []IngredientInput{{IngredientID: flour.ID, Quantity: 200, Unit: "gram"}},
	})
	require.NoError(t, err)

	t.Run("OnlyCreatorEdits", func(t *testing.T) {
		name := "Hijacked"
		_, err := f.svc.Update(ctx, f.member.ID, rec.ID, UpdateCommand{Name: &name})
		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	})

	t.Run("NilIngredientsKeepLinks", func(t *testing.T) {
		name := "Fluffy Pancakes"
		updated, err := f.svc.Update(ctx, f.owner.ID, rec.ID, UpdateCommand{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Fluffy Pancakes", updated.Name)
		assert.Len(t, updated.Ingredients, 1, "links survive a scalar-only update")
	})

	t.Run("NonNilIngredientsReplaceLinks", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, f.owner.ID, rec.ID, UpdateCommand{
			Ingredients: []IngredientInput{
				{IngredientID: flour.ID, Quantity: 250, Unit: "gram"},
				{IngredientID: milk.ID, Quantity: 300, Unit: "milliliter"},
			},
		})
		require.NoError(t, err)
		require.Len(t, updated.Ingredients, 2)
		assert.InDelta(t, 250, updated.Ingredients[0].Quantity, 0.001)
		assert.Equal(t, milk.ID, updated.Ingredients[1].IngredientID)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	hhID := f.household.ID

	mk := func(name, cuisine string, public bool) {
		c := cuisine
		cmd := CreateCommand{
			Name:         name,
			Instructions: "Cook.",
			Servings:     2,
			IsPublic:     public,
			HouseholdID:  &hhID,
		}
		if cuisine != "" {
			cmd.Cuisine = &c
		}
		_, err := f.svc.Create(ctx, f.owner.ID, cmd)
		require.NoError(t, err)
	}
	mk("Pad Thai", "thai", false)
	mk("Green Curry", "thai", false)
	mk("Carbonara", "italian", true)

	t.Run("MemberSeesHouseholdRecipes", func(t *testing.T) {
		_, total, err := f.svc.Search(ctx, f.member.ID, outbound.RecipeSearchCriteria{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("OutsiderSeesOnlyPublic", func(t *testing.T) {
		results, total, err := f.svc.Search(ctx, f.outsider.ID, outbound.RecipeSearchCriteria{})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		assert.Equal(t, "Carbonara", results[0].Name)
	})

	t.Run("CuisineFilter", func(t *testing.T) {
		thai := recipe.CuisineThai
		_, total, err := f.svc.Search(ctx, f.owner.ID, outbound.RecipeSearchCriteria{Cuisine: &thai})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("NameQuery", func(t *testing.T) {
		results, total, err := f.svc.Search(ctx, f.owner.ID, outbound.RecipeSearchCriteria{Query: "curry"})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		assert.Equal(t, "Green Curry", results[0].Name)
	})

	t.Run("MaxTimeFilterKeepsUntimedRecipes", func(t *testing.T) {
		prep, cook := 20, 25
		_, err := f.svc.Create(ctx, f.owner.ID, CreateCommand{
			Name:            "Slow Ragu",
			Instructions:    "Simmer.",
			Servings:        4,
			HouseholdID:     &hhID,
			PrepTimeMinutes: &prep,
			CookTimeMinutes: &cook,
		})
		require.NoError(t, err)

		// The three seeded recipes have NULL time columns and must not
		// be excluded by the time bound.
		maxMinutes := 30
		_, total, err := f.svc.Search(ctx, f.owner.ID, outbound.RecipeSearchCriteria{MaxTotalMin: &maxMinutes})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})
}
