package handlers

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apprecipe "github.com/mealsync/api/internal/application/recipe"
	"github.com/mealsync/api/internal/domain/recipe"
	"github.com/mealsync/api/internal/infrastructure/http/response"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// RecipeHandlers handles recipe API requests
type RecipeHandlers struct {
	recipeService *apprecipe.Service
	logger        *zap.Logger
}

// NewRecipeHandlers creates a new recipe handlers instance
func NewRecipeHandlers(recipeService *apprecipe.Service, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{recipeService: recipeService, logger: logger}
}

// RecipeIngredientRequest is one ingredient line on a recipe request
type RecipeIngredientRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" binding:"required"`
	Quantity     float64   `json:"quantity" binding:"required,gt=0"`
	Unit         string    `json:"unit" binding:"required"`
	Notes        string    `json:"notes"`
	IsOptional   bool      `json:"is_optional"`
}

// CreateRecipeRequest represents recipe creation
type CreateRecipeRequest struct {
	Name               string                    `json:"name" binding:"required,min=1,max=200"`
	Description        string                    `json:"description"`
	Instructions       string                    `json:"instructions" binding:"required"`
	PrepTimeMinutes    *int                      `json:"prep_time_minutes" binding:"omitempty,gte=0"`
	CookTimeMinutes    *int                      `json:"cook_time_minutes" binding:"omitempty,gte=0"`
	Servings           int                       `json:"servings" binding:"omitempty,gt=0"`
	Difficulty         *string                   `json:"difficulty"`
	CuisineType        *string                   `json:"cuisine_type"`
	Tags               string                    `json:"tags"`
	CaloriesPerServing *int                      `json:"calories_per_serving" binding:"omitempty,gte=0"`
	SourceURL          string                    `json:"source_url" binding:"omitempty,url"`
	ImageURL           string                    `json:"image_url" binding:"omitempty,url"`
	IsPublic           bool                      `json:"is_public"`
	HouseholdID        *uuid.UUID                `json:"household_id"`
	Ingredients        []RecipeIngredientRequest `json:"ingredients"`
}

// UpdateRecipeRequest represents partial recipe changes. A non-nil
// ingredients array replaces every ingredient link on the recipe.
type UpdateRecipeRequest struct {
	Name               *string                   `json:"name" binding:"omitempty,min=1,max=200"`
	Description        *string                   `json:"description"`
	Instructions       *string                   `json:"instructions"`
	PrepTimeMinutes    *int                      `json:"prep_time_minutes" binding:"omitempty,gte=0"`
	CookTimeMinutes    *int                      `json:"cook_time_minutes" binding:"omitempty,gte=0"`
	Servings           *int                      `json:"servings" binding:"omitempty,gt=0"`
	Difficulty         *string                   `json:"difficulty"`
	CuisineType        *string                   `json:"cuisine_type"`
	Tags               *string                   `json:"tags"`
	CaloriesPerServing *int                      `json:"calories_per_serving" binding:"omitempty,gte=0"`
	SourceURL          *string                   `json:"source_url" binding:"omitempty,url"`
	ImageURL           *string                   `json:"image_url" binding:"omitempty,url"`
	IsPublic           *bool                     `json:"is_public"`
	Ingredients        []RecipeIngredientRequest `json:"ingredients"`
}

func toIngredientInputs(in []RecipeIngredientRequest) []apprecipe.IngredientInput {
	if in == nil {
		return nil
	}
	out := make([]apprecipe.IngredientInput, 0, len(in))
	for _, r := range in {
		out = append(out, apprecipe.IngredientInput{
			IngredientID: r.IngredientID,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
			Notes:        r.Notes,
			IsOptional:   r.IsOptional,
		})
	}
	return out
}

// Create handles POST /api/v1/recipes
func (h *RecipeHandlers) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.recipeService.Create(c.Request.Context(), userID, apprecipe.CreateCommand{
		Name:               req.Name,
		Description:        req.Description,
		Instructions:       req.Instructions,
		PrepTimeMinutes:    req.PrepTimeMinutes,
		CookTimeMinutes:    req.CookTimeMinutes,
		Servings:           req.Servings,
		Difficulty:         req.Difficulty,
		Cuisine:            req.CuisineType,
		Tags:               req.Tags,
		CaloriesPerServing: req.CaloriesPerServing,
		SourceURL:          req.SourceURL,
		ImageURL:           req.ImageURL,
		IsPublic:           req.IsPublic,
		HouseholdID:        req.HouseholdID,
		Ingredients:        toIngredientInputs(req.Ingredients),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, rec)
}

// Search handles GET /api/v1/recipes. Results cover the caller's own
// recipes, public recipes, and recipes shared with their households.
func (h *RecipeHandlers) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	criteria := outbound.RecipeSearchCriteria{
		Query:    c.Query("q"),
		Offset:   offset,
		Limit:    limit,
		OrderBy:  c.DefaultQuery("order_by", "created_at"),
		OrderDir: c.DefaultQuery("order_dir", "desc"),
	}
	if raw := c.Query("cuisine"); raw != "" {
		cu := recipe.Cuisine(raw)
		if !cu.Valid() {
			response.Error(c, apperrors.NewBadRequest("Unknown cuisine type: "+raw))
			return
		}
		criteria.Cuisine = &cu
	}
	if raw := c.Query("difficulty"); raw != "" {
		d := recipe.Difficulty(raw)
		if !d.Valid() {
			response.Error(c, apperrors.NewBadRequest("Unknown difficulty: "+raw))
			return
		}
		criteria.Difficulty = &d
	}
	if raw := c.Query("max_total_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			response.Error(c, apperrors.NewBadRequest("max_total_minutes must be a non-negative integer"))
			return
		}
		criteria.MaxTotalMin = &minutes
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				criteria.Tags = append(criteria.Tags, tag)
			}
		}
	}

	recipes, total, err := h.recipeService.Search(c.Request.Context(), userID, criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, listEnvelope{Items: recipes, Total: total, Offset: offset, Limit: limit})
}

// SearchRecipesRequest carries the same filters as the query form of
// the search endpoint, for clients that prefer a JSON body.
type SearchRecipesRequest struct {
	Query           string   `json:"q"`
	Cuisine         string   `json:"cuisine"`
	Difficulty      string   `json:"difficulty"`
	MaxTotalMinutes *int     `json:"max_total_minutes" binding:"omitempty,gte=0"`
	Tags            []string `json:"tags"`
	Offset          int      `json:"offset" binding:"omitempty,gte=0"`
	Limit           int      `json:"limit" binding:"omitempty,gt=0,lte=100"`
	OrderBy         string   `json:"order_by"`
	OrderDir        string   `json:"order_dir"`
}

// SearchPost handles POST /api/v1/recipes/search
func (h *RecipeHandlers) SearchPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SearchRecipesRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}
	if req.OrderBy == "" {
		req.OrderBy = "created_at"
	}
	if req.OrderDir == "" {
		req.OrderDir = "desc"
	}

	criteria := outbound.RecipeSearchCriteria{
		Query:       req.Query,
		MaxTotalMin: req.MaxTotalMinutes,
		Tags:        req.Tags,
		Offset:      req.Offset,
		Limit:       req.Limit,
		OrderBy:     req.OrderBy,
		OrderDir:    req.OrderDir,
	}
	if req.Cuisine != "" {
		cu := recipe.Cuisine(req.Cuisine)
		if !cu.Valid() {
			response.Error(c, apperrors.NewBadRequest("Unknown cuisine type: "+req.Cuisine))
			return
		}
		criteria.Cuisine = &cu
	}
	if req.Difficulty != "" {
		d := recipe.Difficulty(req.Difficulty)
		if !d.Valid() {
			response.Error(c, apperrors.NewBadRequest("Unknown difficulty: "+req.Difficulty))
			return
		}
		criteria.Difficulty = &d
	}

	recipes, total, err := h.recipeService.Search(c.Request.Context(), userID, criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, listEnvelope{Items: recipes, Total: total, Offset: req.Offset, Limit: req.Limit})
}

// ListByHousehold handles GET /api/v1/households/:id/recipes
func (h *RecipeHandlers) ListByHousehold(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	recipes, err := h.recipeService.ListByHousehold(c.Request.Context(), userID, householdID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, recipes)
}

// Get handles GET /api/v1/recipes/:id
func (h *RecipeHandlers) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.recipeService.Get(c.Request.Context(), userID, recipeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, rec)
}

// Update handles PATCH /api/v1/recipes/:id. Creator only.
func (h *RecipeHandlers) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.recipeService.Update(c.Request.Context(), userID, recipeID, apprecipe.UpdateCommand{
		Name:               req.Name,
		Description:        req.Description,
		Instructions:       req.Instructions,
		PrepTimeMinutes:    req.PrepTimeMinutes,
		CookTimeMinutes:    req.CookTimeMinutes,
		Servings:           req.Servings,
		Difficulty:         req.Difficulty,
		Cuisine:            req.CuisineType,
		Tags:               req.Tags,
		CaloriesPerServing: req.CaloriesPerServing,
		SourceURL:          req.SourceURL,
		ImageURL:           req.ImageURL,
		IsPublic:           req.IsPublic,
		Ingredients:        toIngredientInputs(req.Ingredients),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, rec)
}

// Delete handles DELETE /api/v1/recipes/:id. Creator only.
func (h *RecipeHandlers) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), userID, recipeID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
