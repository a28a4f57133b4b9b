package mocks

import (
	"context"
	"time"

	"github.com/Roniclay/agrovet-api/domain"
)

// MockPasswordService implements domain.PasswordService for testing.
// Default behavior hashes by prefixing and verifies by re-deriving it, so
// tests can use readable fake hashes.
type MockPasswordService struct {
	HashFunc   func(plain string) (string, error)
	VerifyFunc func(hash, plain string) bool
}

func NewMockPasswordService() *MockPasswordService { return &MockPasswordService{} }

func (m *MockPasswordService) Hash(plain string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(plain)
	}
	return "hashed_" + plain, nil
}

func (m *MockPasswordService) Verify(hash, plain string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hash, plain)
	}
	return hash == "hashed_"+plain
}

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateAccessTokenFunc func(userID, tenantID, sessionID string, roles, permissions []string) (string, error)
	ValidateAccessTokenFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLFunc           func() time.Duration
}

func NewMockTokenService() *MockTokenService { return &MockTokenService{} }

func (m *MockTokenService) GenerateAccessToken(userID, tenantID, sessionID string, roles, permissions []string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, tenantID, sessionID, roles, permissions)
	}
	return "token_" + userID, nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) AccessTTL() time.Duration {
	if m.AccessTTLFunc != nil {
		return m.AccessTTLFunc()
	}
	return 15 * time.Minute
}

// MockMailer implements domain.Mailer for testing
type MockMailer struct {
	SendPasswordResetFunc func(ctx context.Context, to, displayName, resetURL string) error
	Sent                  []string
}

func NewMockMailer() *MockMailer { return &MockMailer{} }

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, displayName, resetURL string) error {
	m.Sent = append(m.Sent, to)
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(ctx, to, displayName, resetURL)
	}
	return nil
}

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	LoginFunc   func(ctx context.Context, tenantSlug, login, password string, meta domain.RequestMeta) (*domain.AuthResult, error)
	LogoutFunc  func(ctx context.Context, sessionID string) error
	ProfileFunc func(ctx context.Context, userID string) (*domain.User, error)
}

func NewMockAuthService() *MockAuthService { return &MockAuthService{} }

func (m *MockAuthService) Login(ctx context.Context, tenantSlug, login, password string, meta domain.RequestMeta) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, tenantSlug, login, password, meta)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// MockPasswordResetService implements domain.PasswordResetService for testing
type MockPasswordResetService struct {
	RequestResetFunc  func(ctx context.Context, email string) error
	ResetPasswordFunc func(ctx context.Context, token, newPassword string) error
}

func NewMockPasswordResetService() *MockPasswordResetService { return &MockPasswordResetService{} }

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	if m.RequestResetFunc != nil {
		return m.RequestResetFunc(ctx, email)
	}
	return nil
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

// MockRoleService implements domain.RoleService for testing
type MockRoleService struct {
	CreateFunc        func(ctx context.Context, tenantID, name, description string, permissionIDs []string) (*domain.Role, error)
	UpdateFunc        func(ctx context.Context, tenantID, roleID string, name, description *string, permissionIDs []string) (*domain.Role, error)
	DeleteFunc        func(ctx context.Context, tenantID, roleID string) error
	ListForTenantFunc func(ctx context.Context, tenantID string) ([]domain.Role, error)
}

func NewMockRoleService() *MockRoleService { return &MockRoleService{} }

func (m *MockRoleService) Create(ctx context.Context, tenantID, name, description string, permissionIDs []string) (*domain.Role, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tenantID, name, description, permissionIDs)
	}
	return nil, domain.ErrRoleNotFound
}

func (m *MockRoleService) Update(ctx context.Context, tenantID, roleID string, name, description *string, permissionIDs []string) (*domain.Role, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tenantID, roleID, name, description, permissionIDs)
	}
	return nil, domain.ErrRoleNotFound
}

func (m *MockRoleService) Delete(ctx context.Context, tenantID, roleID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenantID, roleID)
	}
	return nil
}

func (m *MockRoleService) ListForTenant(ctx context.Context, tenantID string) ([]domain.Role, error) {
	if m.ListForTenantFunc != nil {
		return m.ListForTenantFunc(ctx, tenantID)
	}
	return []domain.Role{}, nil
}

// MockAuditLogger implements domain.AuditLogger for testing and records
// every entry for assertions.
type MockAuditLogger struct {
	RecordFunc func(ctx context.Context, entry *domain.AuditEntry) error
	Entries    []*domain.AuditEntry
}

func NewMockAuditLogger() *MockAuditLogger { return &MockAuditLogger{} }

func (m *MockAuditLogger) Record(ctx context.Context, entry *domain.AuditEntry) error {
	m.Entries = append(m.Entries, entry)
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, entry)
	}
	return nil
}

// Actions returns the recorded audit actions in order.
func (m *MockAuditLogger) Actions() []string {
	actions := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		actions[i] = e.Action
	}
	return actions
}
