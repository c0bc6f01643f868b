package handlers

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appingredient "github.com/mealsync/api/internal/application/ingredient"
	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/infrastructure/http/response"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// IngredientHandlers handles ingredient inventory API requests
type IngredientHandlers struct {
	ingredientService *appingredient.Service
	logger            *zap.Logger
}

// NewIngredientHandlers creates a new ingredient handlers instance
func NewIngredientHandlers(ingredientService *appingredient.Service, logger *zap.Logger) *IngredientHandlers {
	return &IngredientHandlers{ingredientService: ingredientService, logger: logger}
}

// CreateIngredientRequest represents ingredient creation. HouseholdID
// comes from the path on household-scoped routes, from the body on the
// flat route.
type CreateIngredientRequest struct {
	HouseholdID  uuid.UUID `json:"household_id"`
	Name         string    `json:"name" binding:"required,min=1,max=100"`
	Category     string    `json:"category"`
	Description  string    `json:"description" binding:"max=500"`
	AveragePrice *float64  `json:"average_price" binding:"omitempty,gte=0"`
	PriceUnit    *string   `json:"price_unit"`
}

// UpdateIngredientRequest represents partial ingredient changes
type UpdateIngredientRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description" binding:"omitempty,max=500"`
	AveragePrice *float64 `json:"average_price" binding:"omitempty,gte=0"`
	PriceUnit    *string  `json:"price_unit"`
}

// Create handles POST /api/v1/ingredients and
// POST /api/v1/households/:id/ingredients
func (h *IngredientHandlers) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	if raw := c.Param("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("Invalid id parameter"))
			return
		}
		req.HouseholdID = id
	}
	if req.HouseholdID == uuid.Nil {
		response.Error(c, apperrors.NewBadRequest("household_id is required"))
		return
	}

	ing, err := h.ingredientService.Create(c.Request.Context(), userID, appingredient.CreateCommand{
		HouseholdID:  req.HouseholdID,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		AveragePrice: req.AveragePrice,
		PriceUnit:    req.PriceUnit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, ing)
}

// List handles GET /api/v1/ingredients?household_id=...&q=...&category=...
// and the household-scoped listing and search routes.
func (h *IngredientHandlers) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := householdScope(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	filter := outbound.IngredientFilter{
		Query:  c.Query("q"),
		Offset: offset,
		Limit:  limit,
	}
	if raw := c.Query("category"); raw != "" {
		cat := ingredient.Category(raw)
		if !cat.Valid() {
			response.Error(c, apperrors.NewBadRequest("Unknown ingredient category: "+raw))
			return
		}
		filter.Category = &cat
	}

	ingredients, total, err := h.ingredientService.List(c.Request.Context(), userID, householdID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, listEnvelope{Items: ingredients, Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/ingredients/:id
func (h *IngredientHandlers) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ingredientID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ing, err := h.ingredientService.Get(c.Request.Context(), userID, ingredientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, ing)
}

// Update handles PATCH /api/v1/ingredients/:id
func (h *IngredientHandlers) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ingredientID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ing, err := h.ingredientService.Update(c.Request.Context(), userID, ingredientID, appingredient.UpdateCommand{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		AveragePrice: req.AveragePrice,
		PriceUnit:    req.PriceUnit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, ing)
}

// Delete handles DELETE /api/v1/ingredients/:id
func (h *IngredientHandlers) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ingredientID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.ingredientService.Delete(c.Request.Context(), userID, ingredientID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
