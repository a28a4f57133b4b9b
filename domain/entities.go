package domain

import "time"

// Tenant represents an isolated customer organization. The slug is the
// public identifier used at login and is immutable once created.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User represents an account scoped to exactly one tenant.
type User struct {
	ID               string
	TenantID         string
	Name             string
	Email            string
	Username         string
	PasswordHash     string
	IsActive         bool
	IsEmailConfirmed bool
	LoginAttempts    int
	LockedUntil      *time.Time
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Role groups permissions. A nil TenantID marks a system role, visible to
// every tenant and immutable.
type Role struct {
	ID          string
	TenantID    *string
	Name        string
	Description string
	IsSystem    bool
}

// Permission is a global capability identified by its code.
type Permission struct {
	ID     string
	Code   string
	Module string
}

// PasswordResetToken stores only the bcrypt hash of the raw secret. A token
// is live while UsedAt is nil and ExpiresAt is in the future.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsLive reports whether the token can still authorize a rotation.
func (t *PasswordResetToken) IsLive(now time.Time) bool {
	return t.UsedAt == nil && t.ExpiresAt.After(now)
}

// Session represents a persisted login session. Session rows are the
// invalidation handle for password rotation.
type Session struct {
	ID        string
	UserID    string
	TenantID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RequestMeta carries client information attached to audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// TokenClaims is the decoded access-token payload. UserID, TenantID, Roles
// and Permissions round-trip through the issuer exactly; the rest is
// transport detail.
type TokenClaims struct {
	UserID      string   `json:"sub"`
	TenantID    string   `json:"tenant_id"`
	SessionID   string   `json:"session_id,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IssuedAt    int64    `json:"iat"`
	ExpiresAt   int64    `json:"exp"`
}

// Requirement declares what a resource demands from a caller: at least one
// of Roles (when non-empty) and all of Permissions.
type Requirement struct {
	Roles       []string
	Permissions []string
}

// UserSummary is the user shape returned to clients after login.
type UserSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Username    string   `json:"username,omitempty"`
	TenantID    string   `json:"tenantId"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// TenantSummary is the tenant shape returned to clients after login.
type TenantSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	SessionID   string        `json:"-"`
	User        UserSummary   `json:"user"`
	Tenant      TenantSummary `json:"tenant"`
}
