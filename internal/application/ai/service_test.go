package ai

import (
	"context"
	"testing"
	"time"

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
	"github.com/mealsync/api/internal/domain/meal"
	"github.com/mealsync/api/internal/domain/recipe"
	"github.com/mealsync/api/internal/domain/user"
	"github.com/mealsync/api/internal/infrastructure/ai/mock"
	"github.com/mealsync/api/internal/infrastructure/config"
	gormrepo "github.com/mealsync/api/internal/infrastructure/persistence/gorm"
	"github.com/mealsync/api/internal/infrastructure/persistence/memory"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

type aiFixture struct {
	svc         *Service
	client      *mock.Client
	ingredients outbound.IngredientRepository
	recipes     outbound.RecipeRepository
	meals       outbound.MealRepository
	user        *user.User
	household   *household.Household
	outsider    *user.User
}

func newAIFixture(t *testing.T, responses ...string) *aiFixture {
	return newAIFixtureWithCache(t, false, responses...)
}

func newAIFixtureWithCache(t *testing.T, cacheEnabled bool, responses ...string) *aiFixture {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(
		sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, gormrepo.AutoMigrate(db))

	userRepo := gormrepo.NewUserRepository(db)
	owner, err := user.New("cook@example.com", "cook", "password123")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, owner))

	outsider, err := user.New("stranger@example.com", "stranger", "password123")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, outsider))

	households := householdapp.NewService(gormrepo.NewHouseholdRepository(db), zap.NewNop())
	hh, err := households.Create(ctx, owner.ID, "Test Kitchen", "")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.AI.Model = "test-model"
	cfg.AI.MealPlanModel = "test-plan-model"
	cfg.AI.CacheEnabled = cacheEnabled
	cfg.AI.CacheTTL = time.Hour

	f := &aiFixture{
		client:      mock.NewClient(responses...),
		ingredients: gormrepo.NewIngredientRepository(db),
		recipes:     gormrepo.NewRecipeRepository(db),
		meals:       gormrepo.NewMealRepository(db),
		user:        owner,
		household:   hh,
		outsider:    outsider,
	}
	f.svc = NewService(
		f.client,
		f.ingredients,
		f.recipes,
		f.meals,
		gormrepo.NewGroceryListRepository(db),
		households,
		gormrepo.NewTransactor(db),
		memory.NewCacheRepository(),
		cfg,
		zap.NewNop(),
	)
	return f
}

func (f *aiFixture) seedIngredient(t *testing.T, name string, category ingredient.Category) *ingredient.Ingredient {
	t.Helper()
	ing := &ingredient.Ingredient{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		HouseholdID: f.household.ID,
	}
	require.NoError(t, f.ingredients.Create(context.Background(), ing))
	return ing
}

func (f *aiFixture) seedRecipe(t *testing.T, name string) *recipe.Recipe {
	t.Helper()
	hhID := f.household.ID
	rec := &recipe.Recipe{
		ID:           uuid.New(),
		Name:         name,
		Instructions: "Cook it.",
		Servings:     2,
		HouseholdID:  &hhID,
		CreatedByID:  f.user.ID,
	}
	require.NoError(t, f.recipes.Create(context.Background(), rec))
	return rec
}

const ingredientsResponse = "Here you go:\n```json\n" + `{
  "ingredients": [
    {"name": "chicken breast", "quantity": 500, "unit": "gram", "category": "meat"},
    {"name": "soy sauce", "quantity": 2, "unit": "tablespoon", "category": "condiments"}
  ]
}` + "\n```"

func TestGenerateIngredients(t *testing.T) {
	ctx := context.Background()

	t.Run("MatchesInventoryAndFlagsNew", func(t *testing.T) {
		f := newAIFixture(t, ingredientsResponse)
		chicken := f.seedIngredient(t, "Chicken Breast", ingredient.CategoryMeat)

		resp, err := f.svc.GenerateIngredients(ctx, f.user.ID, GenerateIngredientsCommand{
			MealName:    "stir fry",
			HouseholdID: f.household.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.TotalIngredients)
		assert.Equal(t, 1, resp.MatchedIngredientsCount)
		assert.Equal(t, 1, resp.NewIngredientsCount)

		matched := resp.Ingredients[0]
		require.NotNil(t, matched.ExistingIngredientID)
		assert.Equal(t, chicken.ID, *matched.ExistingIngredientID)
		assert.False(t, matched.IsNew)

		assert.True(t, resp.Ingredients[1].IsNew)
		assert.Nil(t, resp.Ingredients[1].ExistingIngredientID)
	})

	t.Run("RejectsNonMember", func(t *testing.T) {
		f := newAIFixture(t, ingredientsResponse)
		_, err := f.svc.GenerateIngredients(ctx, f.outsider.ID, GenerateIngredientsCommand{
			MealName:    "stir fry",
			HouseholdID: f.household.ID,
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeNotHouseholdMember))
		assert.Equal(t, 0, f.client.CallCount(), "membership is checked before calling the model")
	})

	t.Run("EmptyModelOutput", func(t *testing.T) {
		f := newAIFixture(t, `{"ingredients": []}`)
		_, err := f.svc.GenerateIngredients(ctx, f.user.ID, GenerateIngredientsCommand{
			MealName:    "mystery",
			HouseholdID: f.household.ID,
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})
}

func TestGenerateResponseCache(t *testing.T) {
	ctx := context.Background()

	t.Run("RepeatPromptSkipsTheModel", func(t *testing.T) {
		f := newAIFixtureWithCache(t, true, ingredientsResponse)
		cmd := GenerateIngredientsCommand{MealName: "stir fry", HouseholdID: f.household.ID}

		first, err := f.svc.GenerateIngredients(ctx, f.user.ID, cmd)
		require.NoError(t, err)
		second, err := f.svc.GenerateIngredients(ctx, f.user.ID, cmd)
		require.NoError(t, err)

		assert.Equal(t, 1, f.client.CallCount())
		assert.Equal(t, first.TotalIngredients, second.TotalIngredients)
	})

	t.Run("DifferentPromptCallsTheModel", func(t *testing.T) {
		f := newAIFixtureWithCache(t, true, ingredientsResponse)

		_, err := f.svc.GenerateIngredients(ctx, f.user.ID, GenerateIngredientsCommand{
			MealName: "stir fry", HouseholdID: f.household.ID,
		})
		require.NoError(t, err)
		_, err = f.svc.GenerateIngredients(ctx, f.user.ID, GenerateIngredientsCommand{
			MealName: "ramen", HouseholdID: f.household.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, f.client.CallCount())
	})

	t.Run("DisabledFlagAlwaysCallsTheModel", func(t *testing.T) {
		f := newAIFixture(t, ingredientsResponse)
		cmd := GenerateIngredientsCommand{MealName: "stir fry", HouseholdID: f.household.ID}

		_, err := f.svc.GenerateIngredients(ctx, f.user.ID, cmd)
		require.NoError(t, err)
		_, err = f.svc.GenerateIngredients(ctx, f.user.ID, cmd)
		require.NoError(t, err)

		assert.Equal(t, 2, f.client.CallCount())
	})
}

func TestSaveRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("AutoCreatesMissingIngredients", func(t *testing.T) {
		f := newAIFixture(t)
		chicken := f.seedIngredient(t, "chicken breast", ingredient.CategoryMeat)
		chickenID := chicken.ID

		result, err := f.svc.SaveRecipe(ctx, f.user.ID, SaveRecipeCommand{
			HouseholdID:  f.household.ID,
			Name:         "Teriyaki Chicken",
			Instructions: "Marinate, sear, glaze.",
			Servings:     4,
			Difficulty:   "easy",
			CuisineType:  "japanese",
			Ingredients: []SaveRecipeIngredientInput{
				{IngredientID: &chickenID, Quantity: 500, Unit: "gram"},
				{IngredientName: "teriyaki sauce", Category: "condiments", Quantity: 100, Unit: "milliliter"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.IngredientsCreated)
		assert.Equal(t, []string{"teriyaki sauce"}, result.IngredientsCreatedList)

		rec := result.Recipe
		require.NotNil(t, rec)
		assert.True(t, rec.AIGenerated)
		assert.Equal(t, "test-model", rec.AIModel)
		require.Len(t, rec.Ingredients, 2)
		assert.Equal(t, chickenID, rec.Ingredients[0].IngredientID)

		inventory, err := f.ingredients.FindAllByHousehold(ctx, f.household.ID)
		require.NoError(t, err)
		assert.Len(t, inventory, 2)
	})

	t.Run("UnnamedIngredientFailsAndRollsBack", func(t *testing.T) {
		f := newAIFixture(t)

		_, err := f.svc.SaveRecipe(ctx, f.user.ID, SaveRecipeCommand{
			HouseholdID:  f.household.ID,
			Name:         "Broken",
			Instructions: "n/a",
			Servings:     2,
			Ingredients: []SaveRecipeIngredientInput{
				{IngredientName: "flour", Category: "baking", Quantity: 200, Unit: "gram"},
				{Quantity: 1, Unit: "piece"},
			},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

		inventory, err := f.ingredients.FindAllByHousehold(ctx, f.household.ID)
		require.NoError(t, err)
		assert.Empty(t, inventory, "the auto-created flour is rolled back")
	})
}

func TestSaveMealPlan(t *testing.T) {
	ctx := context.Background()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("AutoMatchAndAutoCreate", func(t *testing.T) {
		f := newAIFixture(t)
		padThai := f.seedRecipe(t, "Pad Thai")
		f.seedIngredient(t, "rice noodles", ingredient.CategoryPantry)

		result, err := f.svc.SaveMealPlan(ctx, f.user.ID, SaveMealPlanCommand{
			HouseholdID:           f.household.ID,
			AutoCreateIngredients: true,
			AutoMatchRecipes:      true,
			Meals: []SaveMealInput{
				{
					MealName:                    "pad thai",
					MealType:                    "dinner",
					MealDate:                    monday,
					Servings:                    2,
					AdditionalIngredientsNeeded: []string{"tamarind paste", "rice noodles"},
				},
				{
					MealName: "Oatmeal",
					MealType: "breakfast",
					MealDate: monday.AddDate(0, 0, 1),
				},
			},
		})
		require.NoError(t, err)

		require.Len(t, result.Meals, 2)
		assert.Equal(t, meal.StatusPlanned, result.Meals[0].Status)
		require.NotNil(t, result.Meals[0].RecipeID)
		assert.Equal(t, padThai.ID, *result.Meals[0].RecipeID)
		assert.Nil(t, result.Meals[1].RecipeID)
		assert.Equal(t, 1, result.Meals[1].Servings, "servings default to 1")

		assert.Equal(t, 1, result.RecipesMatched)
		require.Len(t, result.RecipesMatchedDetails, 1)
		assert.Equal(t, "Pad Thai", result.RecipesMatchedDetails[0].RecipeName)

		// rice noodles already exist, only tamarind paste is created
		assert.Equal(t, 1, result.IngredientsCreated)
		assert.Equal(t, []string{"tamarind paste"}, result.IngredientsCreatedList)
	})

	t.Run("NonMemberAssigneeRollsBackEverything", func(t *testing.T) {
		f := newAIFixture(t)
		outsiderID := f.outsider.ID

		_, err := f.svc.SaveMealPlan(ctx, f.user.ID, SaveMealPlanCommand{
			HouseholdID:           f.household.ID,
			AutoCreateIngredients: true,
			Meals: []SaveMealInput{
				{
					MealName:                    "Lentil Soup",
					MealType:                    "lunch",
					MealDate:                    monday,
					AdditionalIngredientsNeeded: []string{"red lentils"},
				},
				{
					MealName:     "Tacos",
					MealType:     "dinner",
					MealDate:     monday,
					AssignedToID: &outsiderID,
				},
			},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

		meals, _, err := f.meals.FindByHousehold(ctx, f.household.ID, outbound.MealFilter{})
		require.NoError(t, err)
		assert.Empty(t, meals, "no meal from the plan survives")

		inventory, err := f.ingredients.FindAllByHousehold(ctx, f.household.ID)
		require.NoError(t, err)
		assert.Empty(t, inventory, "auto-created ingredients are rolled back with the plan")
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		f := newAIFixture(t)
		_, err := f.svc.SaveMealPlan(ctx, f.user.ID, SaveMealPlanCommand{HouseholdID: f.household.ID})
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})
}
