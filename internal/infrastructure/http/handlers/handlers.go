// Package handlers provides HTTP handlers for the REST API endpoints
package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealsync/api/internal/infrastructure/http/middleware"
	"github.com/mealsync/api/internal/infrastructure/http/response"
	apperrors "github.com/mealsync/api/pkg/errors"
)

const dateLayout = "2006-01-02"

// currentUserID returns the authenticated user's ID from the request
// context. The auth middleware guarantees it is set on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		response.Error(c, apperrors.NewUnauthorized(""))
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		response.Error(c, apperrors.NewUnauthorized(""))
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a UUID path parameter.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// uuidQuery parses a required UUID query parameter.
func uuidQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		response.Error(c, apperrors.NewBadRequest("Missing required query parameter: "+name))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// householdScope resolves the household for routes mounted both under
// /households/:id and flat with a household_id query parameter.
func householdScope(c *gin.Context) (uuid.UUID, bool) {
	if raw := c.Param("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("Invalid id parameter"))
			return uuid.Nil, false
		}
		return id, true
	}
	return uuidQuery(c, "household_id")
}

// bindJSON binds the request body and reports malformed payloads
// through the standard envelope.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		response.Error(c, apperrors.NewValidation(err.Error()))
		return false
	}
	return true
}

// pagination reads offset/limit query parameters with sane bounds.
func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return offset, limit
}

// dateQuery parses an optional YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest(name+" must be formatted as YYYY-MM-DD"))
		return nil, false
	}
	return &t, true
}

// listEnvelope is the standard shape for paginated collections.
type listEnvelope struct {
	Items  interface{} `json:"items"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}
