// Package ai provides the application layer for LLM-backed generation:
// ingredient lists, recipes, and meal plans, plus the save flows that
// fuzzy-match the output against household records.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	householdapp "github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/infrastructure/config"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements AI generation use cases
type Service struct {
	client         outbound.AIClient
	ingredientRepo outbound.IngredientRepository
	recipeRepo     outbound.RecipeRepository
	mealRepo       outbound.MealRepository
	groceryRepo    outbound.GroceryListRepository
	households     *householdapp.Service
	transactor     outbound.Transactor
	cache          outbound.CacheRepository
	cacheEnabled   bool
	cacheTTL       time.Duration
	mealPlanModel  string
	defaultModel   string
	logger         *zap.Logger
}

// NewService creates a new AI service
func NewService(
	client outbound.AIClient,
	ingredientRepo outbound.IngredientRepository,
	recipeRepo outbound.RecipeRepository,
	mealRepo outbound.MealRepository,
	groceryRepo outbound.GroceryListRepository,
	households *householdapp.Service,
	transactor outbound.Transactor,
	cache outbound.CacheRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		client:         client,
		ingredientRepo: ingredientRepo,
		recipeRepo:     recipeRepo,
		mealRepo:       mealRepo,
		groceryRepo:    groceryRepo,
		households:     households,
		transactor:     transactor,
		cache:          cache,
		cacheEnabled:   cfg.AI.CacheEnabled,
		cacheTTL:       cfg.AI.CacheTTL,
		mealPlanModel:  cfg.AI.MealPlanModel,
		defaultModel:   cfg.AI.Model,
		logger:         logger.Named("ai-service"),
	}
}

// generate runs the prompt through the model, consulting the response
// cache first when it is enabled. Keys hash the model name and prompt.
func (s *Service) generate(ctx context.Context, prompt string, opts outbound.GenerateOptions) (string, error) {
	if !s.cacheEnabled || s.cache == nil {
		return s.client.GenerateText(ctx, prompt, opts)
	}

	model := opts.Model
	if model == "" {
		model = s.defaultModel
	}
	sum := sha256.Sum256([]byte(model + "\n" + prompt))
	key := "ai:response:" + hex.EncodeToString(sum[:])

	if cached, err := s.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		s.logger.Debug("ai response cache hit", zap.String("key", key))
		return string(cached), nil
	}

	text, err := s.client.GenerateText(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, key, []byte(text), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache ai response", zap.Error(err))
	}
	return text, nil
}

// GeneratedIngredient is one ingredient suggestion, matched against the
// household inventory.
type GeneratedIngredient struct {
	Name                 string              `json:"name"`
	Quantity             float64             `json:"quantity"`
	Unit                 ingredient.Unit     `json:"unit"`
	Category             ingredient.Category `json:"category"`
	Notes                string              `json:"notes,omitempty"`
	ExistingIngredientID *uuid.UUID          `json:"existing_ingredient_id,omitempty"`
	IsNew                bool                `json:"is_new"`
	ConfidenceScore      float64             `json:"confidence_score"`
}

// GenerateIngredientsResponse is the result of ingredient generation.
type GenerateIngredientsResponse struct {
	MealName                string                `json:"meal_name"`
	HouseholdID             uuid.UUID             `json:"household_id"`
	Ingredients             []GeneratedIngredient `json:"ingredients"`
	TotalIngredients        int                   `json:"total_ingredients"`
	NewIngredientsCount     int                   `json:"new_ingredients_count"`
	MatchedIngredientsCount int                   `json:"matched_ingredients_count"`
}

// GenerateIngredientsCommand contains ingredient generation parameters.
type GenerateIngredientsCommand struct {
	MealName            string
	HouseholdID         uuid.UUID
	Servings            int
	DietaryRestrictions []string
}

// wire format for the ingredients prompt response
type ingredientsPayload struct {
	Ingredients []struct {
		Name     string      `json:"name"`
		Quantity json.Number `json:"quantity"`
		Unit     string      `json:"unit"`
		Category string      `json:"category"`
		Notes    string      `json:"notes"`
	} `json:"ingredients"`
}

// GenerateIngredients asks the model for an ingredient list and matches
// each suggestion against the household inventory.
func (s *Service) GenerateIngredients(ctx context.Context, userID uuid.UUID, cmd GenerateIngredientsCommand) (*GenerateIngredientsResponse, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}
	if cmd.Servings <= 0 {
		cmd.Servings = 4
	}

	text, err := s.generate(ctx,
		ingredientsPrompt(cmd.MealName, cmd.Servings, cmd.DietaryRestrictions),
		outbound.GenerateOptions{Temperature: 0.7},
	)
	if err != nil {
		return nil, err
	}

	var payload ingredientsPayload
	if err := extractJSON(text, &payload); err != nil {
		return nil, err
	}
	if len(payload.Ingredients) == 0 {
		return nil, apperrors.NewBadRequest(
			"The AI couldn't generate a valid ingredient list. " +
				"Please try again with a more specific meal name or simpler requirements.",
		)
	}

	inventory, err := s.ingredientRepo.FindAllByHousehold(ctx, cmd.HouseholdID)
	if err != nil {
		return nil, err
	}

	resp := &GenerateIngredientsResponse{
		MealName:    cmd.MealName,
		HouseholdID: cmd.HouseholdID,
	}
	for _, ing := range payload.Ingredients {
		category := ingredient.ParseCategory(ing.Category)
		matchedID, confidence := matchIngredient(ing.Name, inventory, &category)

		qty, _ := ing.Quantity.Float64()
		gen := GeneratedIngredient{
			Name:            ing.Name,
			Quantity:        qty,
			Unit:            ingredient.ParseUnit(ing.Unit),
			Category:        category,
			Notes:           ing.Notes,
			ConfidenceScore: confidence,
			IsNew:           matchedID == uuid.Nil,
		}
		if matchedID != uuid.Nil {
			id := matchedID
			gen.ExistingIngredientID = &id
			resp.MatchedIngredientsCount++
		} else {
			resp.NewIngredientsCount++
		}
		resp.Ingredients = append(resp.Ingredients, gen)
	}
	resp.TotalIngredients = len(resp.Ingredients)

	s.logger.Info("ingredients generated",
		zap.String("meal_name", cmd.MealName),
		zap.Int("total", resp.TotalIngredients),
		zap.Int("matched", resp.MatchedIngredientsCount),
	)
	return resp, nil
}

// GeneratedRecipeIngredient is one ingredient line on a generated
// recipe, matched against the household inventory.
type GeneratedRecipeIngredient struct {
	IngredientID   *uuid.UUID          `json:"ingredient_id,omitempty"`
	IngredientName string              `json:"ingredient_name"`
	Quantity       float64             `json:"quantity"`
	Unit           ingredient.Unit     `json:"unit"`
	Category       ingredient.Category `json:"category"`
	Notes          string              `json:"notes,omitempty"`
	IsOptional     bool                `json:"is_optional"`
	IsNew          bool                `json:"is_new"`
	IsUserProvided bool                `json:"is_user_provided"`
}

// GenerateRecipeResponse is a generated recipe awaiting user approval.
type GenerateRecipeResponse struct {
	Name               string                      `json:"name"`
	Description        string                      `json:"description,omitempty"`
	Instructions       string                      `json:"instructions"`
	PrepTimeMinutes    *int                        `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes    *int                        `json:"cook_time_minutes,omitempty"`
	Servings           int                         `json:"servings"`
	Difficulty         string                      `json:"difficulty,omitempty"`
	CuisineType        string                      `json:"cuisine_type,omitempty"`
	Tags               string                      `json:"tags,omitempty"`
	CaloriesPerServing *int                        `json:"calories_per_serving,omitempty"`
	Ingredients        []GeneratedRecipeIngredient `json:"ingredients"`
	HouseholdID        uuid.UUID                   `json:"household_id"`
}

// GenerateRecipeCommand contains recipe generation parameters.
type GenerateRecipeCommand struct {
	MealName            string
	HouseholdID         uuid.UUID
	IngredientIDs       []uuid.UUID
	Servings            int
	Difficulty          string
	MaxPrepTimeMinutes  *int
	CuisineType         string
	DietaryRestrictions []string
}

// wire format for the recipe prompt response
type recipePayload struct {
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Instructions       string      `json:"instructions"`
	PrepTimeMinutes    *int        `json:"prep_time_minutes"`
	CookTimeMinutes    *int        `json:"cook_time_minutes"`
	Difficulty         string      `json:"difficulty"`
	CuisineType        string      `json:"cuisine_type"`
	Tags               string      `json:"tags"`
	CaloriesPerServing *int        `json:"calories_per_serving"`
	Ingredients        []struct {
		IngredientName string      `json:"ingredient_name"`
		Quantity       json.Number `json:"quantity"`
		Unit           string      `json:"unit"`
		Category       string      `json:"category"`
		Notes          string      `json:"notes"`
		IsOptional     bool        `json:"is_optional"`
		IsUserProvided bool        `json:"is_user_provided"`
	} `json:"ingredients"`
}

// GenerateRecipe asks the model for a complete recipe, optionally built
// around household ingredients the user picked.
func (s *Service) GenerateRecipe(ctx context.Context, userID uuid.UUID, cmd GenerateRecipeCommand) (*GenerateRecipeResponse, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}
	if cmd.Servings <= 0 {
		cmd.Servings = 4
	}

	var ingredientNames []string
	for _, id := range cmd.IngredientIDs {
		ing, err := s.ingredientRepo.FindByID(ctx, id)
		if err != nil {
			return nil, apperrors.NewBadRequest("Ingredient " + id.String() + " not found")
		}
		if ing.HouseholdID != cmd.HouseholdID {
			return nil, apperrors.NewBadRequest("Ingredient " + ing.Name + " doesn't belong to this household")
		}
		ingredientNames = append(ingredientNames, ing.Name)
	}

	text, err := s.generate(ctx,
		recipePrompt(cmd.MealName, ingredientNames, cmd.Servings, cmd.Difficulty, cmd.CuisineType, cmd.MaxPrepTimeMinutes, cmd.DietaryRestrictions),
		outbound.GenerateOptions{Temperature: 0.8},
	)
	if err != nil {
		return nil, err
	}

	var payload recipePayload
	if err := extractJSON(text, &payload); err != nil {
		return nil, err
	}
	if payload.Instructions == "" {
		return nil, apperrors.NewBadRequest(
			"The AI couldn't generate a valid recipe. Please try again with a more specific meal name.",
		)
	}

	inventory, err := s.ingredientRepo.FindAllByHousehold(ctx, cmd.HouseholdID)
	if err != nil {
		return nil, err
	}

	resp := &GenerateRecipeResponse{
		Name:               payload.Name,
		Description:        payload.Description,
		Instructions:       payload.Instructions,
		PrepTimeMinutes:    payload.PrepTimeMinutes,
		CookTimeMinutes:    payload.CookTimeMinutes,
		Servings:           cmd.Servings,
		Difficulty:         payload.Difficulty,
		CuisineType:        payload.CuisineType,
		Tags:               payload.Tags,
		CaloriesPerServing: payload.CaloriesPerServing,
		HouseholdID:        cmd.HouseholdID,
	}
	if resp.Name == "" {
		resp.Name = cmd.MealName
	}

	for _, ing := range payload.Ingredients {
		category := ingredient.ParseCategory(ing.Category)
		matchedID, _ := matchIngredient(ing.IngredientName, inventory, &category)

		qty, _ := ing.Quantity.Float64()
		gen := GeneratedRecipeIngredient{
			IngredientName: ing.IngredientName,
			Quantity:       qty,
			Unit:           ingredient.ParseUnit(ing.Unit),
			Category:       category,
			Notes:          ing.Notes,
			IsOptional:     ing.IsOptional,
			IsUserProvided: ing.IsUserProvided,
			IsNew:          matchedID == uuid.Nil,
		}
		if matchedID != uuid.Nil {
			id := matchedID
			gen.IngredientID = &id
		}
		resp.Ingredients = append(resp.Ingredients, gen)
	}

	s.logger.Info("recipe generated",
		zap.String("meal_name", cmd.MealName),
		zap.Int("ingredients", len(resp.Ingredients)),
	)
	return resp, nil
}

// GeneratedMealSuggestion is one meal slot in a generated plan.
type GeneratedMealSuggestion struct {
	Day                         int         `json:"day"`
	MealDate                    time.Time   `json:"meal_date"`
	MealType                    string      `json:"meal_type"`
	MealName                    string      `json:"meal_name"`
	Description                 string      `json:"description,omitempty"`
	IngredientsUsed             []string    `json:"ingredients_used"`
	AdditionalIngredientsNeeded []string    `json:"additional_ingredients_needed"`
	EstimatedPrepTimeMinutes    *int        `json:"estimated_prep_time_minutes,omitempty"`
	EstimatedCalories           *int        `json:"estimated_calories,omitempty"`
	MatchedIngredientIDs        []uuid.UUID `json:"matched_ingredient_ids"`
	RequiresShopping            bool        `json:"requires_shopping"`
}

// GenerateMealPlanResponse is a generated plan awaiting user approval.
type GenerateMealPlanResponse struct {
	HouseholdID               uuid.UUID                 `json:"household_id"`
	StartDate                 time.Time                 `json:"start_date"`
	EndDate                   time.Time                 `json:"end_date"`
	TotalDays                 int                       `json:"total_days"`
	MealSuggestions           []GeneratedMealSuggestion `json:"meal_suggestions"`
	TotalMeals                int                       `json:"total_meals"`
	AvailableIngredientsCount int                       `json:"available_ingredients_count"`
	MealsWithAllIngredients   int                       `json:"meals_with_all_ingredients"`
	MealsRequiringShopping    int                       `json:"meals_requiring_shopping"`
}

// GenerateMealPlanCommand contains meal plan generation parameters.
type GenerateMealPlanCommand struct {
	HouseholdID        uuid.UUID
	Days               int
	MealsPerDay        int
	StartDate          *time.Time
	DietaryPreferences []string
	UseAvailableOnly   bool
	PreferredMealTypes []string
}

// wire format for the meal plan prompt response
type mealPlanPayload struct {
	MealPlan []struct {
		Day                         int         `json:"day"`
		MealType                    string      `json:"meal_type"`
		MealName                    string      `json:"meal_name"`
		Description                 string      `json:"description"`
		IngredientsUsed             []string    `json:"ingredients_used"`
		AdditionalIngredientsNeeded []string    `json:"additional_ingredients_needed"`
		EstimatedPrepTimeMinutes    *int        `json:"estimated_prep_time_minutes"`
		EstimatedCalories           *int        `json:"estimated_calories"`
	} `json:"meal_plan"`
}

// GenerateMealPlan asks the stronger model for a multi-day plan built
// from the household's available ingredients, with recent meal history
// as variety context.
func (s *Service) GenerateMealPlan(ctx context.Context, userID uuid.UUID, cmd GenerateMealPlanCommand) (*GenerateMealPlanResponse, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}
	if cmd.Days <= 0 {
		cmd.Days = 7
	}
	if cmd.MealsPerDay <= 0 {
		cmd.MealsPerDay = 3
	}

	available, err := s.availableIngredients(ctx, cmd.HouseholdID)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 && cmd.UseAvailableOnly {
		return nil, apperrors.NewBadRequest(
			"No available ingredients found in your household inventory. " +
				"Mark items as purchased in your grocery lists, or disable the 'use available only' constraint.",
		)
	}

	startDate := time.Now().Truncate(24 * time.Hour)
	if cmd.StartDate != nil {
		startDate = *cmd.StartDate
	}
	endDate := startDate.AddDate(0, 0, cmd.Days-1)

	// Past 30 days of meals give the model variety context; only the
	// most recent 20 go into the prompt.
	pastMeals, err := s.mealRepo.FindByDateRange(ctx, cmd.HouseholdID, startDate.AddDate(0, 0, -30), startDate.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	if len(pastMeals) > 20 {
		pastMeals = pastMeals[len(pastMeals)-20:]
	}
	pastMealLines := make([]string, 0, len(pastMeals))
	for _, m := range pastMeals {
		pastMealLines = append(pastMealLines, "- "+m.DisplayName()+" ("+string(m.MealType)+", "+m.MealDate.Format("2006-01-02")+")")
	}

	availableNames := make([]string, 0, len(available))
	for _, ing := range available {
		availableNames = append(availableNames, ing.Name)
	}

	text, err := s.generate(ctx,
		mealPlanPrompt(cmd.Days, cmd.MealsPerDay, availableNames, pastMealLines, cmd.DietaryPreferences, cmd.PreferredMealTypes, cmd.UseAvailableOnly),
		outbound.GenerateOptions{Temperature: 0.6, Model: s.mealPlanModel},
	)
	if err != nil {
		return nil, err
	}

	var payload mealPlanPayload
	if err := extractJSON(text, &payload); err != nil {
		return nil, err
	}
	if len(payload.MealPlan) == 0 {
		return nil, apperrors.NewBadRequest(
			"The AI couldn't generate a valid meal plan. " +
				"Please try again with fewer dietary restrictions or fewer days.",
		)
	}

	resp := &GenerateMealPlanResponse{
		HouseholdID:               cmd.HouseholdID,
		StartDate:                 startDate,
		EndDate:                   endDate,
		TotalDays:                 cmd.Days,
		AvailableIngredientsCount: len(available),
	}

	for _, m := range payload.MealPlan {
		day := m.Day
		if day < 1 {
			day = 1
		}

		var matchedIDs []uuid.UUID
		for _, name := range m.IngredientsUsed {
			if id, _ := matchIngredient(name, available, nil); id != uuid.Nil {
				matchedIDs = append(matchedIDs, id)
			}
		}

		requiresShopping := len(m.AdditionalIngredientsNeeded) > 0
		if requiresShopping {
			resp.MealsRequiringShopping++
		} else {
			resp.MealsWithAllIngredients++
		}

		resp.MealSuggestions = append(resp.MealSuggestions, GeneratedMealSuggestion{
			Day:                         day,
			MealDate:                    startDate.AddDate(0, 0, day-1),
			MealType:                    m.MealType,
			MealName:                    m.MealName,
			Description:                 m.Description,
			IngredientsUsed:             m.IngredientsUsed,
			AdditionalIngredientsNeeded: m.AdditionalIngredientsNeeded,
			EstimatedPrepTimeMinutes:    m.EstimatedPrepTimeMinutes,
			EstimatedCalories:           m.EstimatedCalories,
			MatchedIngredientIDs:        matchedIDs,
			RequiresShopping:            requiresShopping,
		})
	}
	resp.TotalMeals = len(resp.MealSuggestions)

	s.logger.Info("meal plan generated",
		zap.String("household_id", cmd.HouseholdID.String()),
		zap.Int("total_meals", resp.TotalMeals),
	)
	return resp, nil
}

// availableIngredients returns ingredients the household has on hand:
// purchased grocery items from the 10 newest lists, deduplicated.
func (s *Service) availableIngredients(ctx context.Context, householdID uuid.UUID) ([]*ingredient.Ingredient, error) {
	lists, err := s.groceryRepo.FindRecentByHousehold(ctx, householdID, 10)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	var available []*ingredient.Ingredient
	for _, l := range lists {
		for i := range l.Items {
			item := &l.Items[i]
			if !item.IsPurchased || item.IngredientID == nil || seen[*item.IngredientID] {
				continue
			}
			ing, err := s.ingredientRepo.FindByID(ctx, *item.IngredientID)
			if err != nil {
				continue
			}
			seen[*item.IngredientID] = true
			available = append(available, ing)
		}
	}
	return available, nil
}
