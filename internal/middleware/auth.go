package middleware

import (
	"net/http"

	"simagis-server/internal/apperrors"
	"simagis-server/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the JWT access token from the Authorization
// header and injects its claims into the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := utils.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, apperrors.CodeAuthentication, err.Error())
			c.Abort()
			return
		}

		claims, err := utils.ValidateAccessToken(token)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, apperrors.CodeAuthentication, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("code", claims.Code)

		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated role
// is one of the given set.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, apperrors.CodeAuthentication, "Authentication required")
			c.Abort()
			return
		}

		if roleStr, ok := role.(string); !ok || !allowed[roleStr] {
			utils.ErrorResponse(c, http.StatusForbidden, apperrors.CodeAuthorization, "Insufficient role for this operation")
			c.Abort()
			return
		}

		c.Next()
	}
}
