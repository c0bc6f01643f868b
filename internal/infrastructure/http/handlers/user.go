package handlers

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/mealsync/api/internal/application/user"
	"github.com/mealsync/api/internal/infrastructure/http/response"
)

// UserHandlers handles user profile API requests
type UserHandlers struct {
	userService *user.Service
	logger      *zap.Logger
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService *user.Service, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{userService: userService, logger: logger}
}

// UpdateProfileRequest represents partial profile changes
type UpdateProfileRequest struct {
	FullName           *string `json:"full_name" binding:"omitempty,max=100"`
	DietaryPreferences *string `json:"dietary_preferences"`
	Allergies          *string `json:"allergies"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// Me handles GET /api/v1/users/me and GET /api/v1/auth/me
func (h *UserHandlers) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, u)
}

// UpdateMe handles PUT and PATCH /api/v1/users/me
func (h *UserHandlers) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), userID, user.UpdateProfileCommand{
		FullName:           req.FullName,
		DietaryPreferences: req.DietaryPreferences,
		Allergies:          req.Allergies,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, u)
}

// ChangePassword handles POST /api/v1/users/me/change-password
func (h *UserHandlers) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// DeactivateMe handles DELETE /api/v1/users/me and
// POST /api/v1/users/me/deactivate
func (h *UserHandlers) DeactivateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Get handles GET /api/v1/users/:id. Only profiles of users sharing a
// household with the caller are visible.
func (h *UserHandlers) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	u, err := h.userService.GetVisible(c.Request.Context(), userID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, u)
}

// ListPeers handles GET /api/v1/users, listing users who share at least
// one household with the caller.
func (h *UserHandlers) ListPeers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	users, total, err := h.userService.ListPeers(c.Request.Context(), userID, offset, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, listEnvelope{Items: users, Total: total, Offset: offset, Limit: limit})
}
