package domain

import (
	"context"
	"time"
)

// TenantRepository defines tenant data access operations
type TenantRepository interface {
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	FindByID(ctx context.Context, id string) (*Tenant, error)
}

// UserRepository defines user data access operations. All lookups are
// tenant-scoped except FindActiveByEmail, which serves the password-reset
// request phase, and FindByID, which resolves token subjects.
type UserRepository interface {
	FindByLogin(ctx context.Context, tenantID, login string) (*User, error)
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// IncrementLoginAttempts bumps the counter atomically in the store and
	// returns the new value, so concurrent failed logins cannot lose an
	// increment.
	IncrementLoginAttempts(ctx context.Context, userID string) (int, error)
	SetLockedUntil(ctx context.Context, userID string, until time.Time) error
	// UpdateLoginState overwrites the lockout bookkeeping columns, used on
	// successful authentication to reset them.
	UpdateLoginState(ctx context.Context, userID string, attempts int, lockedUntil, lastLoginAt *time.Time) error
}

// RoleRepository defines role and permission data access operations
type RoleRepository interface {
	FindRolesForUser(ctx context.Context, userID string) ([]Role, error)
	FindPermissionsForRoles(ctx context.Context, roleIDs []string) ([]Permission, error)
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByNameInScope(ctx context.Context, tenantID, name string) (*Role, error)
	FindVisibleToTenant(ctx context.Context, tenantID string) ([]Role, error)
	CountPermissionsByIDs(ctx context.Context, ids []string) (int64, error)
	// Create and Update replace the role's permission links in the same
	// transaction as the role row itself.
	Create(ctx context.Context, role *Role, permissionIDs []string) error
	Update(ctx context.Context, role *Role, permissionIDs []string) error
	Delete(ctx context.Context, id string) error
}

// ResetTokenRepository defines password-reset token persistence. Rotate is
// the single atomic primitive of the reset flow.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	FindByID(ctx context.Context, id string) (*PasswordResetToken, error)
	// Rotate applies the four-step credential rotation in one transaction:
	// new password hash on the user, this token marked used, every session
	// row for the user deleted, every other live token marked used. It
	// returns the IDs of the deleted sessions so callers can evict caches.
	Rotate(ctx context.Context, userID, tokenID, newPasswordHash string, now time.Time) ([]string, error)
}

// SessionRepository defines session persistence
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	EvictCached(ctx context.Context, sessionIDs []string) error
}

// PasswordService defines one-way hashing for passwords and reset secrets
type PasswordService interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// TokenService defines access-token issuance and verification
type TokenService interface {
	GenerateAccessToken(userID, tenantID, sessionID string, roles, permissions []string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
}

// Mailer defines the outbound mail collaborator
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, displayName, resetURL string) error
}

// AuthService defines the login orchestration business logic
type AuthService interface {
	Login(ctx context.Context, tenantSlug, login, password string, meta RequestMeta) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, userID string) (*User, error)
}

// PasswordResetService defines the two-phase reset lifecycle
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// RoleService defines tenant role administration
type RoleService interface {
	Create(ctx context.Context, tenantID, name, description string, permissionIDs []string) (*Role, error)
	Update(ctx context.Context, tenantID, roleID string, name, description *string, permissionIDs []string) (*Role, error)
	Delete(ctx context.Context, tenantID, roleID string) error
	ListForTenant(ctx context.Context, tenantID string) ([]Role, error)
}
