package handlers

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/infrastructure/http/response"
)

// HouseholdHandlers handles household API requests
type HouseholdHandlers struct {
	householdService *household.Service
	logger           *zap.Logger
}

// NewHouseholdHandlers creates a new household handlers instance
func NewHouseholdHandlers(householdService *household.Service, logger *zap.Logger) *HouseholdHandlers {
	return &HouseholdHandlers{householdService: householdService, logger: logger}
}

// HouseholdRequest represents household creation or rename
type HouseholdRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// JoinRequest represents joining a household by invite code
type JoinRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// Create handles POST /api/v1/households
func (h *HouseholdHandlers) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req HouseholdRequest
	if !bindJSON(c, &req) {
		return
	}

	hh, err := h.householdService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, hh)
}

// List handles GET /api/v1/households, returning the caller's households.
func (h *HouseholdHandlers) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	households, err := h.householdService.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, households)
}

// Get handles GET /api/v1/households/:id
func (h *HouseholdHandlers) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	hh, err := h.householdService.Get(c.Request.Context(), userID, householdID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, hh)
}

// Update handles PUT /api/v1/households/:id. Owner only.
func (h *HouseholdHandlers) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req HouseholdRequest
	if !bindJSON(c, &req) {
		return
	}

	hh, err := h.householdService.Update(c.Request.Context(), userID, householdID, req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, hh)
}

// Delete handles DELETE /api/v1/households/:id. Owner only.
func (h *HouseholdHandlers) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.householdService.Delete(c.Request.Context(), userID, householdID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Join handles POST /api/v1/households/join
func (h *HouseholdHandlers) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req JoinRequest
	if !bindJSON(c, &req) {
		return
	}

	hh, err := h.householdService.Join(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, hh)
}

// Leave handles POST /api/v1/households/:id/leave
func (h *HouseholdHandlers) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.householdService.Leave(c.Request.Context(), userID, householdID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Members handles GET /api/v1/households/:id/members
func (h *HouseholdHandlers) Members(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	members, err := h.householdService.Members(c.Request.Context(), userID, householdID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, members)
}

// RemoveMember handles DELETE /api/v1/households/:id/members/:userId.
// Owner only; the owner cannot remove themselves.
func (h *HouseholdHandlers) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	if err := h.householdService.RemoveMember(c.Request.Context(), userID, householdID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RotateInviteCode handles POST /api/v1/households/:id/invite.
// Owner only; the previous code stops working immediately.
func (h *HouseholdHandlers) RotateInviteCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	hh, err := h.householdService.RotateInviteCode(c.Request.Context(), userID, householdID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, hh)
}
