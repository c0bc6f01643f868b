package handlers

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmeal "github.com/mealsync/api/internal/application/meal"
	"github.com/mealsync/api/internal/domain/meal"
	"github.com/mealsync/api/internal/infrastructure/http/response"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// MealHandlers handles meal planning API requests
type MealHandlers struct {
	mealService *appmeal.Service
	logger      *zap.Logger
}

// NewMealHandlers creates a new meal handlers instance
func NewMealHandlers(mealService *appmeal.Service, logger *zap.Logger) *MealHandlers {
	return &MealHandlers{mealService: mealService, logger: logger}
}

// CreateMealRequest represents scheduling a meal
type CreateMealRequest struct {
	HouseholdID  uuid.UUID  `json:"household_id" binding:"required"`
	Name         string     `json:"name" binding:"max=200"`
	Notes        string     `json:"notes"`
	MealDate     string     `json:"meal_date" binding:"required,dateformat"`
	MealType     string     `json:"meal_type"`
	Servings     int        `json:"servings" binding:"omitempty,gt=0"`
	RecipeID     *uuid.UUID `json:"recipe_id"`
	AssignedToID *uuid.UUID `json:"assigned_to_id"`
}

// UpdateMealRequest represents partial meal changes
type UpdateMealRequest struct {
	Name     *string    `json:"name" binding:"omitempty,max=200"`
	Notes    *string    `json:"notes"`
	MealDate *string    `json:"meal_date" binding:"omitempty,dateformat"`
	MealType *string    `json:"meal_type"`
	Servings *int       `json:"servings" binding:"omitempty,gt=0"`
	RecipeID *uuid.UUID `json:"recipe_id"`
}

// AssignMealRequest names the member a meal is assigned to
type AssignMealRequest struct {
	AssignedToID uuid.UUID `json:"assigned_to_id" binding:"required"`
}

// MealStatusRequest carries a status transition
type MealStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

// Create handles POST /api/v1/meals
func (h *MealHandlers) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateMealRequest
	if !bindJSON(c, &req) {
		return
	}
	mealDate, err := parseDate(req.MealDate)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("meal_date must be formatted as YYYY-MM-DD"))
		return
	}

	m, err := h.mealService.Create(c.Request.Context(), userID, appmeal.CreateCommand{
		HouseholdID:  req.HouseholdID,
		Name:         req.Name,
		Notes:        req.Notes,
		MealDate:     mealDate,
		MealType:     req.MealType,
		Servings:     req.Servings,
		RecipeID:     req.RecipeID,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, m)
}

// List handles GET /api/v1/meals?household_id=...&from=...&to=...
func (h *MealHandlers) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidQuery(c, "household_id")
	if !ok {
		return
	}
	offset, limit := pagination(c)

	filter := outbound.MealFilter{Offset: offset, Limit: limit}
	var dateOK bool
	if filter.From, dateOK = dateQuery(c, "from"); !dateOK {
		return
	}
	if filter.To, dateOK = dateQuery(c, "to"); !dateOK {
		return
	}
	if raw := c.Query("meal_type"); raw != "" {
		t := meal.Type(raw)
		if !t.Valid() {
			response.Error(c, apperrors.NewBadRequest("Unknown meal type: "+raw))
			return
		}
		filter.MealType = &t
	}
	if raw := c.Query("status"); raw != "" {
		s := meal.Status(raw)
		if !s.Valid() {
			response.Error(c, apperrors.NewBadRequest("Unknown meal status: "+raw))
			return
		}
		filter.Status = &s
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("Invalid assigned_to parameter"))
			return
		}
		filter.AssignedToID = &id
	}

	meals, total, err := h.mealService.List(c.Request.Context(), userID, householdID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, listEnvelope{Items: meals, Total: total, Offset: offset, Limit: limit})
}

// Week handles GET /api/v1/meals/week?household_id=...&start=... and
// GET /api/v1/households/:id/meals/week. Defaults to the week beginning
// today.
func (h *MealHandlers) Week(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := householdScope(c)
	if !ok {
		return
	}

	start := time.Now().Truncate(24 * time.Hour)
	if raw := c.Query("start"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("start must be formatted as YYYY-MM-DD"))
			return
		}
		start = parsed
	}

	days, err := h.mealService.Week(c.Request.Context(), userID, householdID, start)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, days)
}

// Calendar handles GET /api/v1/meals/calendar?household_id=...&start=...&end=...
// and GET /api/v1/households/:id/meals/calendar?year=...&month=...,
// which covers the whole month.
func (h *MealHandlers) Calendar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := householdScope(c)
	if !ok {
		return
	}

	if c.Query("year") != "" || c.Query("month") != "" {
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil || year < 1970 || year > 9999 {
			response.Error(c, apperrors.NewBadRequest("year must be a four-digit year"))
			return
		}
		month, err := strconv.Atoi(c.Query("month"))
		if err != nil || month < 1 || month > 12 {
			response.Error(c, apperrors.NewBadRequest("month must be between 1 and 12"))
			return
		}

		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		days, err := h.mealService.Calendar(c.Request.Context(), userID, householdID, start, end)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, days)
		return
	}

	start, err := parseDate(c.Query("start"))
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("start must be formatted as YYYY-MM-DD"))
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("end must be formatted as YYYY-MM-DD"))
		return
	}
	if end.Before(start) {
		response.Error(c, apperrors.NewBadRequest("end must not be before start"))
		return
	}

	days, err := h.mealService.Calendar(c.Request.Context(), userID, householdID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, days)
}

// Get handles GET /api/v1/meals/:id
func (h *MealHandlers) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	m, err := h.mealService.Get(c.Request.Context(), userID, mealID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, m)
}

// Update handles PATCH /api/v1/meals/:id
func (h *MealHandlers) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := appmeal.UpdateCommand{
		Name:     req.Name,
		Notes:    req.Notes,
		MealType: req.MealType,
		Servings: req.Servings,
		RecipeID: req.RecipeID,
	}
	if req.MealDate != nil {
		mealDate, err := parseDate(*req.MealDate)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("meal_date must be formatted as YYYY-MM-DD"))
			return
		}
		cmd.MealDate = &mealDate
	}

	m, err := h.mealService.Update(c.Request.Context(), userID, mealID, cmd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, m)
}

// Delete handles DELETE /api/v1/meals/:id
func (h *MealHandlers) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.mealService.Delete(c.Request.Context(), userID, mealID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Assign handles POST /api/v1/meals/:id/assign
func (h *MealHandlers) Assign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req AssignMealRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.mealService.Assign(c.Request.Context(), userID, mealID, req.AssignedToID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, m)
}

// Claim handles POST /api/v1/meals/:id/claim, assigning the meal to the
// caller when it isn't already claimed by someone else.
func (h *MealHandlers) Claim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	m, err := h.mealService.Claim(c.Request.Context(), userID, mealID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, m)
}

// Unclaim handles POST /api/v1/meals/:id/unclaim
func (h *MealHandlers) Unclaim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	m, err := h.mealService.Unclaim(c.Request.Context(), userID, mealID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, m)
}

// UpdateStatus handles PATCH /api/v1/meals/:id/status
func (h *MealHandlers) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req MealStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.mealService.UpdateStatus(c.Request.Context(), userID, mealID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, m)
}
