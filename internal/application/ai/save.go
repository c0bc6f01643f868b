package ai

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/domain/meal"
	"github.com/mealsync/api/internal/domain/recipe"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// SaveRecipeIngredientInput is one ingredient line on a save-recipe
// command. A nil IngredientID means the ingredient does not exist yet
// and will be auto-created from the name and category.
type SaveRecipeIngredientInput struct {
	IngredientID   *uuid.UUID
	IngredientName string
	Category       string
	Quantity       float64
	Unit           string
	Notes          string
	IsOptional     bool
}

// SaveRecipeCommand persists an approved generated recipe, possibly
// edited by the user.
type SaveRecipeCommand struct {
	HouseholdID        uuid.UUID
	Name               string
	Description        string
	Instructions       string
	PrepTimeMinutes    *int
	CookTimeMinutes    *int
	Servings           int
	Difficulty         string
	CuisineType        string
	Tags               string
	CaloriesPerServing *int
	IsPublic           bool
	Ingredients        []SaveRecipeIngredientInput
}

// SaveRecipeResult reports the created recipe and what was auto-created.
type SaveRecipeResult struct {
	Recipe                 *recipe.Recipe `json:"recipe"`
	IngredientsCreated     int            `json:"ingredients_created"`
	IngredientsCreatedList []string       `json:"ingredients_created_list"`
}

// SaveRecipe saves a generated recipe, auto-creating any ingredients
// that don't exist yet. Everything runs in one transaction: a failure
// anywhere rolls back both the recipe and the created ingredients.
func (s *Service) SaveRecipe(ctx context.Context, userID uuid.UUID, cmd SaveRecipeCommand) (*SaveRecipeResult, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}
	if cmd.Servings <= 0 {
		cmd.Servings = 1
	}

	result := &SaveRecipeResult{}
	var recipeID uuid.UUID

	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		householdID := cmd.HouseholdID
		rec := &recipe.Recipe{
			ID:                 uuid.New(),
			Name:               strings.TrimSpace(cmd.Name),
			Description:        strings.TrimSpace(cmd.Description),
			Instructions:       cmd.Instructions,
			PrepTimeMinutes:    cmd.PrepTimeMinutes,
			CookTimeMinutes:    cmd.CookTimeMinutes,
			Servings:           cmd.Servings,
			Tags:               cmd.Tags,
			CaloriesPerServing: cmd.CaloriesPerServing,
			IsPublic:           cmd.IsPublic,
			AIGenerated:        true,
			AIModel:            s.defaultModel,
			HouseholdID:        &householdID,
			CreatedByID:        userID,
		}
		if cmd.Difficulty != "" {
			d := recipe.Difficulty(cmd.Difficulty)
			rec.Difficulty = &d
		}
		if cmd.CuisineType != "" {
			c := recipe.ParseCuisine(cmd.CuisineType)
			rec.Cuisine = &c
		}

		for i, in := range cmd.Ingredients {
			ingredientID := in.IngredientID

			if ingredientID == nil {
				if in.IngredientName == "" {
					return apperrors.NewBadRequest(
						"Ingredients without IDs must provide a name for auto-creation",
					)
				}
				created, err := s.createIngredient(txCtx, cmd.HouseholdID, in.IngredientName, in.Category)
				if err != nil {
					return err
				}
				ingredientID = &created.ID
				result.IngredientsCreated++
				result.IngredientsCreatedList = append(result.IngredientsCreatedList, created.Name)
			}

			rec.Ingredients = append(rec.Ingredients, recipe.RecipeIngredient{
				ID:           uuid.New(),
				RecipeID:     rec.ID,
				IngredientID: *ingredientID,
				Quantity:     in.Quantity,
				Unit:         ingredient.ParseUnit(in.Unit),
				Notes:        in.Notes,
				IsOptional:   in.IsOptional,
				Position:     i,
			})
		}

		if err := rec.Validate(); err != nil {
			return apperrors.NewValidation(err.Error())
		}
		if err := s.recipeRepo.Create(txCtx, rec); err != nil {
			return err
		}
		recipeID = rec.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	result.Recipe = rec

	s.logger.Info("ai recipe saved",
		zap.String("recipe_id", recipeID.String()),
		zap.Int("ingredients_created", result.IngredientsCreated),
	)
	return result, nil
}

// SaveMealInput is one meal slot on a save-meal-plan command.
type SaveMealInput struct {
	MealName                    string
	MealType                    string
	MealDate                    time.Time
	Description                 string
	Servings                    int
	RecipeID                    *uuid.UUID
	AssignedToID                *uuid.UUID
	AdditionalIngredientsNeeded []string
}

// SaveMealPlanCommand persists approved meal plan suggestions as
// scheduled meals.
type SaveMealPlanCommand struct {
	HouseholdID           uuid.UUID
	AutoCreateIngredients bool
	AutoMatchRecipes      bool
	Meals                 []SaveMealInput
}

// RecipeMatch records an auto-matched recipe for the save metadata.
type RecipeMatch struct {
	MealName   string    `json:"meal_name"`
	RecipeID   uuid.UUID `json:"recipe_id"`
	RecipeName string    `json:"recipe_name"`
}

// SaveMealPlanResult reports the created meals and the side effects of
// auto-creation and auto-matching.
type SaveMealPlanResult struct {
	Meals                  []*meal.Meal  `json:"meals"`
	IngredientsCreated     int           `json:"ingredients_created"`
	IngredientsCreatedList []string      `json:"ingredients_created_list"`
	RecipesMatched         int           `json:"recipes_matched"`
	RecipesMatchedDetails  []RecipeMatch `json:"recipes_matched_details"`
}

// SaveMealPlan saves a generated plan as scheduled meals. Optionally
// auto-creates missing ingredients and fuzzy-matches meal names to
// existing household recipes. Everything runs in one transaction: a
// failure on any meal rolls the whole plan back.
func (s *Service) SaveMealPlan(ctx context.Context, userID uuid.UUID, cmd SaveMealPlanCommand) (*SaveMealPlanResult, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}
	if len(cmd.Meals) == 0 {
		return nil, apperrors.NewBadRequest("Meal plan has no meals to save")
	}

	result := &SaveMealPlanResult{}
	var mealIDs []uuid.UUID

	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		if cmd.AutoCreateIngredients {
			if err := s.autoCreateIngredients(txCtx, cmd, result); err != nil {
				return err
			}
		}

		var householdRecipes []*recipe.Recipe
		if cmd.AutoMatchRecipes {
			var err error
			householdRecipes, err = s.recipeRepo.FindByHousehold(txCtx, cmd.HouseholdID)
			if err != nil {
				return err
			}
		}

		for _, in := range cmd.Meals {
			recipeID := in.RecipeID
			if recipeID == nil && cmd.AutoMatchRecipes {
				if matched := matchRecipe(in.MealName, householdRecipes); matched != nil {
					recipeID = &matched.ID
					result.RecipesMatched++
					result.RecipesMatchedDetails = append(result.RecipesMatchedDetails, RecipeMatch{
						MealName:   in.MealName,
						RecipeID:   matched.ID,
						RecipeName: matched.Name,
					})
				}
			}

			servings := in.Servings
			if servings <= 0 {
				servings = 1
			}
			if in.AssignedToID != nil {
				if err := s.households.RequireMember(txCtx, cmd.HouseholdID, *in.AssignedToID); err != nil {
					return apperrors.NewBadRequest("Assignee must be a household member")
				}
			}

			m := &meal.Meal{
				ID:           uuid.New(),
				Name:         strings.TrimSpace(in.MealName),
				Notes:        strings.TrimSpace(in.Description),
				MealDate:     in.MealDate,
				MealType:     meal.ParseType(in.MealType),
				Status:       meal.StatusPlanned,
				Servings:     servings,
				HouseholdID:  cmd.HouseholdID,
				CreatedByID:  userID,
				RecipeID:     recipeID,
				AssignedToID: in.AssignedToID,
			}
			if err := m.Validate(); err != nil {
				return apperrors.NewValidation(err.Error())
			}
			if err := s.mealRepo.Create(txCtx, m); err != nil {
				return err
			}
			mealIDs = append(mealIDs, m.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range mealIDs {
		m, err := s.mealRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Meals = append(result.Meals, m)
	}

	s.logger.Info("ai meal plan saved",
		zap.String("household_id", cmd.HouseholdID.String()),
		zap.Int("meals", len(result.Meals)),
		zap.Int("ingredients_created", result.IngredientsCreated),
		zap.Int("recipes_matched", result.RecipesMatched),
	)
	return result, nil
}

// autoCreateIngredients creates every additional ingredient the plan
// needs that doesn't already exist. The stricter dedup threshold avoids
// creating near-duplicates of inventory entries.
func (s *Service) autoCreateIngredients(ctx context.Context, cmd SaveMealPlanCommand, result *SaveMealPlanResult) error {
	needed := make(map[string]bool)
	var order []string
	for _, m := range cmd.Meals {
		for _, name := range m.AdditionalIngredientsNeeded {
			name = strings.TrimSpace(name)
			if name == "" || needed[strings.ToLower(name)] {
				continue
			}
			needed[strings.ToLower(name)] = true
			order = append(order, name)
		}
	}

	inventory, err := s.ingredientRepo.FindAllByHousehold(ctx, cmd.HouseholdID)
	if err != nil {
		return err
	}

	for _, name := range order {
		if id, confidence := matchIngredient(name, inventory, nil); id != uuid.Nil && confidence > dedupThreshold {
			continue
		}

		created, err := s.createIngredient(ctx, cmd.HouseholdID, name, string(ingredient.CategoryOther))
		if err != nil {
			return err
		}
		inventory = append(inventory, created)
		result.IngredientsCreated++
		result.IngredientsCreatedList = append(result.IngredientsCreatedList, created.Name)
	}
	return nil
}

func (s *Service) createIngredient(ctx context.Context, householdID uuid.UUID, name, category string) (*ingredient.Ingredient, error) {
	ing := &ingredient.Ingredient{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Category:    ingredient.ParseCategory(category),
		Description: "Auto-created from AI recipe",
		HouseholdID: householdID,
	}
	if err := ing.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.ingredientRepo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}
