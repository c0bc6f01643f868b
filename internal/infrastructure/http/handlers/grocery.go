package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appgrocery "github.com/mealsync/api/internal/application/grocery"
	"github.com/mealsync/api/internal/infrastructure/http/response"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// GroceryHandlers handles grocery list API requests
type GroceryHandlers struct {
	groceryService *appgrocery.Service
	logger         *zap.Logger
}

// NewGroceryHandlers creates a new grocery handlers instance
func NewGroceryHandlers(groceryService *appgrocery.Service, logger *zap.Logger) *GroceryHandlers {
	return &GroceryHandlers{groceryService: groceryService, logger: logger}
}

// GroceryItemRequest is one line on a list creation or item-add request
type GroceryItemRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=200"`
	Quantity     float64    `json:"quantity" binding:"omitempty,gt=0"`
	Unit         string     `json:"unit"`
	Category     string     `json:"category"`
	Notes        string     `json:"notes"`
	IngredientID *uuid.UUID `json:"ingredient_id"`
}

// CreateGroceryListRequest represents grocery list creation
type CreateGroceryListRequest struct {
	HouseholdID uuid.UUID            `json:"household_id" binding:"required"`
	Name        string               `json:"name" binding:"required,min=1,max=200"`
	StartDate   *string              `json:"start_date"`
	EndDate     *string              `json:"end_date"`
	Items       []GroceryItemRequest `json:"items"`
}

// GenerateGroceryListRequest asks for a list built from planned meals
type GenerateGroceryListRequest struct {
	HouseholdID uuid.UUID `json:"household_id" binding:"required"`
	Name        string    `json:"name"`
	StartDate   string    `json:"start_date" binding:"required,dateformat"`
	EndDate     string    `json:"end_date" binding:"required,dateformat"`
}

// UpdateGroceryListRequest represents partial list changes
type UpdateGroceryListRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	Status    *string `json:"status"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// UpdateGroceryItemRequest represents partial item changes
type UpdateGroceryItemRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Quantity *float64 `json:"quantity" binding:"omitempty,gt=0"`
	Unit     *string  `json:"unit"`
	Category *string  `json:"category"`
	Notes    *string  `json:"notes"`
}

// PurchaseRequest toggles an item's purchased flag
type PurchaseRequest struct {
	Purchased bool `json:"purchased"`
}

func optionalDate(raw *string, name string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, apperrors.NewBadRequest(name + " must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

// Create handles POST /api/v1/grocery-lists
func (h *GroceryHandlers) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateGroceryListRequest
	if !bindJSON(c, &req) {
		return
	}

	startDate, err := optionalDate(req.StartDate, "start_date")
	if err != nil {
		response.Error(c, err)
		return
	}
	endDate, err := optionalDate(req.EndDate, "end_date")
	if err != nil {
		response.Error(c, err)
		return
	}

	cmd := appgrocery.CreateCommand{
		HouseholdID: req.HouseholdID,
		Name:        req.Name,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, appgrocery.ItemInput{
			Name:         item.Name,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			Category:     item.Category,
			Notes:        item.Notes,
			IngredientID: item.IngredientID,
		})
	}

	l, err := h.groceryService.Create(c.Request.Context(), userID, cmd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, l)
}

// Generate handles POST /api/v1/grocery-lists/generate, aggregating
// ingredients from planned meals in the date range.
func (h *GroceryHandlers) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateGroceryListRequest
	if !bindJSON(c, &req) {
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("start_date must be formatted as YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("end_date must be formatted as YYYY-MM-DD"))
		return
	}

	l, err := h.groceryService.Generate(c.Request.Context(), userID, appgrocery.GenerateCommand{
		HouseholdID: req.HouseholdID,
		Name:        req.Name,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, l)
}

// List handles GET /api/v1/grocery-lists?household_id=...
func (h *GroceryHandlers) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := householdScope(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	lists, total, err := h.groceryService.List(c.Request.Context(), userID, householdID, offset, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, listEnvelope{Items: lists, Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/grocery-lists/:id
func (h *GroceryHandlers) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	l, err := h.groceryService.Get(c.Request.Context(), userID, listID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, l)
}

// Update handles PATCH /api/v1/grocery-lists/:id
func (h *GroceryHandlers) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateGroceryListRequest
	if !bindJSON(c, &req) {
		return
	}

	startDate, err := optionalDate(req.StartDate, "start_date")
	if err != nil {
		response.Error(c, err)
		return
	}
	endDate, err := optionalDate(req.EndDate, "end_date")
	if err != nil {
		response.Error(c, err)
		return
	}

	l, err := h.groceryService.Update(c.Request.Context(), userID, listID, req.Name, req.Status, startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, l)
}

// Delete handles DELETE /api/v1/grocery-lists/:id
func (h *GroceryHandlers) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.groceryService.Delete(c.Request.Context(), userID, listID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddItem handles POST /api/v1/grocery-lists/:id/items
func (h *GroceryHandlers) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req GroceryItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.groceryService.AddItem(c.Request.Context(), userID, listID, appgrocery.ItemInput{
		Name:         req.Name,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Category:     req.Category,
		Notes:        req.Notes,
		IngredientID: req.IngredientID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, item)
}

// UpdateItem handles PATCH /api/v1/grocery-items/:id
func (h *GroceryHandlers) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateGroceryItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.groceryService.UpdateItem(c.Request.Context(), userID, itemID,
		req.Name, req.Quantity, req.Unit, req.Category, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, item)
}

// TogglePurchase handles PATCH /api/v1/grocery-items/:id/purchase
func (h *GroceryHandlers) TogglePurchase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.groceryService.TogglePurchase(c.Request.Context(), userID, itemID, req.Purchased)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, item)
}

// DeleteItem handles DELETE /api/v1/grocery-items/:id
func (h *GroceryHandlers) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.groceryService.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ClearPurchased handles DELETE /api/v1/grocery-lists/:id/purchased,
// removing every purchased item from the list.
func (h *GroceryHandlers) ClearPurchased(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	removed, err := h.groceryService.ClearPurchased(c.Request.Context(), userID, listID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"removed": removed})
}

// Export handles POST /api/v1/grocery-lists/:id/export, returning the
// list as plain text grouped by store category.
func (h *GroceryHandlers) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	text, err := h.groceryService.Export(c.Request.Context(), userID, listID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.String(http.StatusOK, text)
}
