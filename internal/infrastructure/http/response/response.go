// Package response renders the uniform API result envelope. Every
// endpoint returns {"success": bool, "data": ..., "error": ...} so
// clients can branch on a single field.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mealsync/api/pkg/errors"
)

// Result is the envelope wrapping every API response body.
type Result struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the user-facing error information.
type ErrorDetail struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Category   string `json:"category"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Result{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Result{Success: true, Data: data})
}

// NoContent writes a 200 success envelope with no data. The envelope is
// always present, even when an operation has nothing to return.
func NoContent(c *gin.Context) {
	c.JSON(http.StatusOK, Result{Success: true})
}

// Error writes a failure envelope. Non-AppError values are collapsed
// into a generic internal error so internals never leak to clients.
func Error(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err, "An unexpected error occurred")

	detail := &ErrorDetail{
		Message:    appErr.Message,
		StatusCode: appErr.StatusCode(),
		Category:   appErr.Category(),
	}
	if appErr.Details != "" && appErr.StatusCode() < http.StatusInternalServerError {
		detail.Message = appErr.Message + ": " + appErr.Details
	}

	// Keep the underlying cause in the gin error list for the logger.
	if appErr.Cause != nil {
		_ = c.Error(appErr.Cause)
	} else {
		_ = c.Error(appErr)
	}

	c.JSON(appErr.StatusCode(), Result{Success: false, Error: detail})
}
