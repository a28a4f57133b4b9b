package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Roniclay/agrovet-api/domain"
	"github.com/Roniclay/agrovet-api/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc  domain.AuthService
	resetSvc domain.PasswordResetService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, resetSvc domain.PasswordResetService) *AuthHandlers {
	return &AuthHandlers{
		authSvc:  authSvc,
		resetSvc: resetSvc,
	}
}

// LoginRequest represents login request
type LoginRequest struct {
	TenantSlug string `json:"tenantSlug" binding:"required"`
	Login      string `json:"login" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the reset completion request
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta := domain.RequestMeta{
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.TenantSlug, req.Login, req.Password, meta)
	if err != nil {
		status, message := loginErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ForgotPassword handles the reset-request phase. It always answers 200 so
// the endpoint cannot be used to probe for accounts.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetSvc.RequestReset(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a reset link has been sent.",
	})
}

// ResetPassword handles the reset completion phase
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetSvc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if err == domain.ErrInvalidResetToken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": domain.UserSummary{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Username:    user.Username,
			TenantID:    user.TenantID,
			Roles:       claims.Roles,
			Permissions: claims.Permissions,
		},
	})
}

// Logout terminates the caller's session
func (h *AuthHandlers) Logout(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.SessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// clientIP prefers the first hop of X-Forwarded-For, then falls back to the
// socket address.
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.ClientIP()
}

func loginErrorResponse(err error) (int, string) {
	switch err {
	case domain.ErrTenantNotFound:
		return http.StatusNotFound, "Tenant not found or inactive"
	case domain.ErrInvalidCredentials:
		return http.StatusUnauthorized, "Invalid credentials"
	case domain.ErrAccountInactive:
		return http.StatusForbidden, "User account is inactive"
	case domain.ErrAccountLocked:
		return http.StatusLocked, "Account locked due to repeated failed attempts. Try again later or contact an administrator."
	case domain.ErrEmailNotConfirmed:
		return http.StatusForbidden, "Email not confirmed. Check your inbox to activate the account."
	default:
		return http.StatusInternalServerError, "Login failed"
	}
}
