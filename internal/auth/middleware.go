package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

const principalKey = "principal"

// Authenticate resolves the bearer token, if any, and stores the principal
// on the context. Requests without a token continue as anonymous.
func Authenticate(resolver *RoleResolver, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if errors.Is(err, ErrProfileUnavailable) {
			logger.Error("Could not resolve caller role", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"message": "Service temporarily unavailable",
				"code":    "SERVICE_UNAVAILABLE",
			})
			return
		}
		if err != nil {
			logger.Warn("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
				"code":    "UNAUTHORIZED",
			})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		if principal.Role == models.RoleAnonymous {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required",
				"code":    "UNAUTHORIZED",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": "Insufficient permissions",
			"code":    "FORBIDDEN",
		})
	}
}

// PrincipalFrom returns the request principal, anonymous when unset
func PrincipalFrom(c *gin.Context) models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return Anonymous()
}

// SetPrincipal is used by tests and internal callers
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
