package domain

import "errors"

// Authentication errors
var (
	ErrTenantNotFound     = errors.New("tenant not found or inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("user account is inactive")
	ErrAccountLocked      = errors.New("account locked due to repeated failed attempts")
	ErrEmailNotConfirmed  = errors.New("email address not confirmed")
)

// Password reset errors
var (
	ErrInvalidResetToken = errors.New("reset token invalid or expired")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrForbidden = errors.New("access denied")
)

// Role administration errors
var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleNameTaken       = errors.New("role name already in use for this tenant")
	ErrSystemRoleImmutable = errors.New("system roles cannot be modified")
	ErrRoleWrongTenant     = errors.New("role does not belong to this tenant")
	ErrPermissionNotFound  = errors.New("one or more permissions are invalid")
)
