package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mealsync/api/internal/application/auth"
	"github.com/mealsync/api/internal/infrastructure/http/response"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// ContextKeyUserID is the gin context key holding the authenticated
// user's ID as a uuid.UUID.
const ContextKeyUserID = "user_id"

// Auth validates the bearer token and stores the caller's identity in
// the request context. Requests without a valid access token are
// rejected before reaching the handler.
func (m *Middleware) Auth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, apperrors.NewUnauthorized("Missing or malformed Authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
