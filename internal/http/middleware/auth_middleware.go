package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Roniclay/agrovet-api/domain"
)

// ClaimsKey is the gin context key the verified token claims are stored
// under.
const ClaimsKey = "auth_claims"

// AuthMiddleware is the inbound bearer-token verification filter. It
// decodes the token, rejects expired or malformed ones, and checks the
// session named in the token still exists before any guard runs.
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
		if err != nil {
			switch err {
			case domain.ErrTokenExpired:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		// A rotated password deletes the session rows; tokens minted before
		// the rotation die here even though their signature is still valid.
		if claims.SessionID != "" {
			session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
			if err != nil || session == nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
				c.Abort()
				return
			}
			if session.UserID != claims.UserID {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session user mismatch"})
				c.Abort()
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the verified claims set by AuthMiddleware, or
// nil when the filter has not run.
func ClaimsFromContext(c *gin.Context) *domain.TokenClaims {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*domain.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
