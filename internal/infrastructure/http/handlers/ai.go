package handlers

import (
	"time"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appai "github.com/mealsync/api/internal/application/ai"
	"github.com/mealsync/api/internal/infrastructure/http/response"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// AIHandlers handles AI generation and save API requests
type AIHandlers struct {
	aiService *appai.Service
	logger    *zap.Logger
}

// NewAIHandlers creates a new AI handlers instance
func NewAIHandlers(aiService *appai.Service, logger *zap.Logger) *AIHandlers {
	return &AIHandlers{aiService: aiService, logger: logger}
}

// GenerateIngredientsRequest asks the model for an ingredient list
type GenerateIngredientsRequest struct {
	HouseholdID         uuid.UUID `json:"household_id" binding:"required"`
	MealName            string    `json:"meal_name" binding:"required,min=1,max=200"`
	Servings            int       `json:"servings" binding:"omitempty,gt=0"`
	DietaryRestrictions []string  `json:"dietary_restrictions"`
}

// GenerateRecipeRequest asks the model for a full recipe
type GenerateRecipeRequest struct {
	HouseholdID         uuid.UUID   `json:"household_id" binding:"required"`
	MealName            string      `json:"meal_name" binding:"required,min=1,max=200"`
	IngredientIDs       []uuid.UUID `json:"ingredient_ids"`
	Servings            int         `json:"servings" binding:"omitempty,gt=0"`
	Difficulty          string      `json:"difficulty"`
	MaxPrepTimeMinutes  *int        `json:"max_prep_time_minutes" binding:"omitempty,gte=0"`
	CuisineType         string      `json:"cuisine_type"`
	DietaryRestrictions []string    `json:"dietary_restrictions"`
}

// GenerateMealPlanRequest asks the model for a multi-day plan
type GenerateMealPlanRequest struct {
	HouseholdID        uuid.UUID `json:"household_id" binding:"required"`
	Days               int       `json:"days" binding:"omitempty,gt=0,lte=14"`
	MealsPerDay        int       `json:"meals_per_day" binding:"omitempty,gt=0,lte=6"`
	StartDate          *string   `json:"start_date"`
	DietaryPreferences []string  `json:"dietary_preferences"`
	UseAvailableOnly   bool      `json:"use_available_only"`
	PreferredMealTypes []string  `json:"preferred_meal_types"`
}

// SaveRecipeIngredientRequest is one ingredient line on a save-recipe
// request. Omit ingredient_id to auto-create the ingredient by name.
type SaveRecipeIngredientRequest struct {
	IngredientID   *uuid.UUID `json:"ingredient_id"`
	IngredientName string     `json:"ingredient_name"`
	Category       string     `json:"category"`
	Quantity       float64    `json:"quantity" binding:"required,gt=0"`
	Unit           string     `json:"unit" binding:"required"`
	Notes          string     `json:"notes"`
	IsOptional     bool       `json:"is_optional"`
}

// SaveRecipeRequest persists an approved generated recipe
type SaveRecipeRequest struct {
	HouseholdID        uuid.UUID                     `json:"household_id" binding:"required"`
	Name               string                        `json:"name" binding:"required,min=1,max=200"`
	Description        string                        `json:"description"`
	Instructions       string                        `json:"instructions" binding:"required"`
	PrepTimeMinutes    *int                          `json:"prep_time_minutes" binding:"omitempty,gte=0"`
	CookTimeMinutes    *int                          `json:"cook_time_minutes" binding:"omitempty,gte=0"`
	Servings           int                           `json:"servings" binding:"omitempty,gt=0"`
	Difficulty         string                        `json:"difficulty"`
	CuisineType        string                        `json:"cuisine_type"`
	Tags               string                        `json:"tags"`
	CaloriesPerServing *int                          `json:"calories_per_serving" binding:"omitempty,gte=0"`
	IsPublic           bool                          `json:"is_public"`
	Ingredients        []SaveRecipeIngredientRequest `json:"ingredients" binding:"required,min=1"`
}

// SaveMealRequest is one meal slot on a save-meal-plan request
type SaveMealRequest struct {
	MealName                    string     `json:"meal_name" binding:"required,min=1,max=200"`
	MealType                    string     `json:"meal_type"`
	MealDate                    string     `json:"meal_date" binding:"required,dateformat"`
	Description                 string     `json:"description"`
	Servings                    int        `json:"servings" binding:"omitempty,gt=0"`
	RecipeID                    *uuid.UUID `json:"recipe_id"`
	AssignedToID                *uuid.UUID `json:"assigned_to_id"`
	AdditionalIngredientsNeeded []string   `json:"additional_ingredients_needed"`
}

// SaveMealPlanRequest persists approved plan suggestions as meals
type SaveMealPlanRequest struct {
	HouseholdID           uuid.UUID         `json:"household_id" binding:"required"`
	AutoCreateIngredients bool              `json:"auto_create_ingredients"`
	AutoMatchRecipes      bool              `json:"auto_match_recipes"`
	Meals                 []SaveMealRequest `json:"meals" binding:"required,min=1"`
}

// GenerateIngredients handles POST /api/v1/ai/generate-ingredients
func (h *AIHandlers) GenerateIngredients(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateIngredientsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.aiService.GenerateIngredients(c.Request.Context(), userID, appai.GenerateIngredientsCommand{
		MealName:            req.MealName,
		HouseholdID:         req.HouseholdID,
		Servings:            req.Servings,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// GenerateRecipe handles POST /api/v1/ai/generate-recipe
func (h *AIHandlers) GenerateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.aiService.GenerateRecipe(c.Request.Context(), userID, appai.GenerateRecipeCommand{
		MealName:            req.MealName,
		HouseholdID:         req.HouseholdID,
		IngredientIDs:       req.IngredientIDs,
		Servings:            req.Servings,
		Difficulty:          req.Difficulty,
		MaxPrepTimeMinutes:  req.MaxPrepTimeMinutes,
		CuisineType:         req.CuisineType,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// GenerateMealPlan handles POST /api/v1/ai/generate-meal-plan
func (h *AIHandlers) GenerateMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateMealPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := appai.GenerateMealPlanCommand{
		HouseholdID:        req.HouseholdID,
		Days:               req.Days,
		MealsPerDay:        req.MealsPerDay,
		DietaryPreferences: req.DietaryPreferences,
		UseAvailableOnly:   req.UseAvailableOnly,
		PreferredMealTypes: req.PreferredMealTypes,
	}
	if req.StartDate != nil && *req.StartDate != "" {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("start_date must be formatted as YYYY-MM-DD"))
			return
		}
		cmd.StartDate = &start
	}

	result, err := h.aiService.GenerateMealPlan(c.Request.Context(), userID, cmd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// SaveRecipe handles POST /api/v1/ai/save-recipe
func (h *AIHandlers) SaveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SaveRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := appai.SaveRecipeCommand{
		HouseholdID:        req.HouseholdID,
		Name:               req.Name,
		Description:        req.Description,
		Instructions:       req.Instructions,
		PrepTimeMinutes:    req.PrepTimeMinutes,
		CookTimeMinutes:    req.CookTimeMinutes,
		Servings:           req.Servings,
		Difficulty:         req.Difficulty,
		CuisineType:        req.CuisineType,
		Tags:               req.Tags,
		CaloriesPerServing: req.CaloriesPerServing,
		IsPublic:           req.IsPublic,
	}
	for _, in := range req.Ingredients {
		cmd.Ingredients = append(cmd.Ingredients, appai.SaveRecipeIngredientInput{
			IngredientID:   in.IngredientID,
			IngredientName: in.IngredientName,
			Category:       in.Category,
			Quantity:       in.Quantity,
			Unit:           in.Unit,
			Notes:          in.Notes,
			IsOptional:     in.IsOptional,
		})
	}

	result, err := h.aiService.SaveRecipe(c.Request.Context(), userID, cmd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// SaveMealPlan handles POST /api/v1/ai/save-meal-plan
func (h *AIHandlers) SaveMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SaveMealPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := appai.SaveMealPlanCommand{
		HouseholdID:           req.HouseholdID,
		AutoCreateIngredients: req.AutoCreateIngredients,
		AutoMatchRecipes:      req.AutoMatchRecipes,
	}
	for _, in := range req.Meals {
		mealDate, err := time.Parse(dateLayout, in.MealDate)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("meal_date must be formatted as YYYY-MM-DD"))
			return
		}
		cmd.Meals = append(cmd.Meals, appai.SaveMealInput{
			MealName:                    in.MealName,
			MealType:                    in.MealType,
			MealDate:                    mealDate,
			Description:                 in.Description,
			Servings:                    in.Servings,
			RecipeID:                    in.RecipeID,
			AssignedToID:                in.AssignedToID,
			AdditionalIngredientsNeeded: in.AdditionalIngredientsNeeded,
		})
	}

	result, err := h.aiService.SaveMealPlan(c.Request.Context(), userID, cmd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
