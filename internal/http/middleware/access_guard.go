package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Roniclay/agrovet-api/domain"
	"github.com/Roniclay/agrovet-api/internal/services"
)

// RequireAccess enforces a resource's declared requirement against the
// verified caller: at least one of the required roles and all of the
// required permissions. It must run after AuthMiddleware; a missing caller
// identity is denied as an upstream ordering error.
func RequireAccess(req domain.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if err := services.Authorize(claims, req); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}
