package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bloghub/internal/auth"
	"bloghub/internal/models"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// RequireAuth verifies the Authorization header and puts the caller's
// identity into the context. The header may carry a bare token or the
// "Bearer " form. Requests never reach the resource handlers on failure.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token not provided"})
			return
		}
		raw = strings.TrimPrefix(raw, "Bearer ")

		claims, err := auth.VerifyToken(raw, secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired, please re-login"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token rides
// along, but lets anonymous and badly-tokened requests through. Used on
// public reads that enrich their response for a known caller.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("Authorization"); raw != "" {
			if claims, err := auth.VerifyToken(strings.TrimPrefix(raw, "Bearer "), secret); err == nil {
				c.Set(ClaimsKey, claims)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil || claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied. Admin role required."})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the verified claims set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
