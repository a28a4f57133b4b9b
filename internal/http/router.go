package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/Roniclay/agrovet-api/domain"
	"github.com/Roniclay/agrovet-api/internal/http/handlers"
	"github.com/Roniclay/agrovet-api/internal/http/middleware"
)

// BuildRouter wires the public auth endpoints and the guarded groups.
func BuildRouter(ah *handlers.AuthHandlers, rh *handlers.RoleHandlers, tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)

	bearer := middleware.AuthMiddleware(tokenSvc, sessionRepo)

	me := r.Group("/auth").Use(bearer)
	me.GET("/me", ah.Me)
	me.POST("/logout", ah.Logout)

	roles := r.Group("/roles").Use(bearer, middleware.RequireAccess(domain.Requirement{
		Roles:       []string{"admin", "tenant_admin"},
		Permissions: []string{"roles.manage"},
	}))
	roles.GET("", rh.List)
	roles.POST("", rh.Create)
	roles.PATCH("/:id", rh.Update)
	roles.DELETE("/:id", rh.Delete)

	return r
}
