package mocks

import (
	"context"
	"time"

	"github.com/Roniclay/agrovet-api/domain"
)

// MockTenantRepository implements domain.TenantRepository for testing
type MockTenantRepository struct {
	FindBySlugFunc func(ctx context.Context, slug string) (*domain.Tenant, error)
	FindByIDFunc   func(ctx context.Context, id string) (*domain.Tenant, error)
}

func NewMockTenantRepository() *MockTenantRepository { return &MockTenantRepository{} }

func (m *MockTenantRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if m.FindBySlugFunc != nil {
		return m.FindBySlugFunc(ctx, slug)
	}
	return nil, domain.ErrTenantNotFound
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrTenantNotFound
}

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	FindByLoginFunc            func(ctx context.Context, tenantID, login string) (*domain.User, error)
	FindActiveByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc               func(ctx context.Context, id string) (*domain.User, error)
	IncrementLoginAttemptsFunc func(ctx context.Context, userID string) (int, error)
	SetLockedUntilFunc         func(ctx context.Context, userID string, until time.Time) error
	UpdateLoginStateFunc       func(ctx context.Context, userID string, attempts int, lockedUntil, lastLoginAt *time.Time) error
}

func NewMockUserRepository() *MockUserRepository { return &MockUserRepository{} }

func (m *MockUserRepository) FindByLogin(ctx context.Context, tenantID, login string) (*domain.User, error) {
	if m.FindByLoginFunc != nil {
		return m.FindByLoginFunc(ctx, tenantID, login)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindActiveByEmailFunc != nil {
		return m.FindActiveByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) IncrementLoginAttempts(ctx context.Context, userID string) (int, error) {
	if m.IncrementLoginAttemptsFunc != nil {
		return m.IncrementLoginAttemptsFunc(ctx, userID)
	}
	return 1, nil
}

func (m *MockUserRepository) SetLockedUntil(ctx context.Context, userID string, until time.Time) error {
	if m.SetLockedUntilFunc != nil {
		return m.SetLockedUntilFunc(ctx, userID, until)
	}
	return nil
}

func (m *MockUserRepository) UpdateLoginState(ctx context.Context, userID string, attempts int, lockedUntil, lastLoginAt *time.Time) error {
	if m.UpdateLoginStateFunc != nil {
		return m.UpdateLoginStateFunc(ctx, userID, attempts, lockedUntil, lastLoginAt)
	}
	return nil
}

// MockRoleRepository implements domain.RoleRepository for testing
type MockRoleRepository struct {
	FindRolesForUserFunc        func(ctx context.Context, userID string) ([]domain.Role, error)
	FindPermissionsForRolesFunc func(ctx context.Context, roleIDs []string) ([]domain.Permission, error)
	FindByIDFunc                func(ctx context.Context, id string) (*domain.Role, error)
	FindByNameInScopeFunc       func(ctx context.Context, tenantID, name string) (*domain.Role, error)
	FindVisibleToTenantFunc     func(ctx context.Context, tenantID string) ([]domain.Role, error)
	CountPermissionsByIDsFunc   func(ctx context.Context, ids []string) (int64, error)
	CreateFunc                  func(ctx context.Context, role *domain.Role, permissionIDs []string) error
	UpdateFunc                  func(ctx context.Context, role *domain.Role, permissionIDs []string) error
	DeleteFunc                  func(ctx context.Context, id string) error
}

func NewMockRoleRepository() *MockRoleRepository { return &MockRoleRepository{} }

func (m *MockRoleRepository) FindRolesForUser(ctx context.Context, userID string) ([]domain.Role, error) {
	if m.FindRolesForUserFunc != nil {
		return m.FindRolesForUserFunc(ctx, userID)
	}
	return []domain.Role{}, nil
}

func (m *MockRoleRepository) FindPermissionsForRoles(ctx context.Context, roleIDs []string) ([]domain.Permission, error) {
	if m.FindPermissionsForRolesFunc != nil {
		return m.FindPermissionsForRolesFunc(ctx, roleIDs)
	}
	return []domain.Permission{}, nil
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrRoleNotFound
}

func (m *MockRoleRepository) FindByNameInScope(ctx context.Context, tenantID, name string) (*domain.Role, error) {
	if m.FindByNameInScopeFunc != nil {
		return m.FindByNameInScopeFunc(ctx, tenantID, name)
	}
	return nil, domain.ErrRoleNotFound
}

func (m *MockRoleRepository) FindVisibleToTenant(ctx context.Context, tenantID string) ([]domain.Role, error) {
	if m.FindVisibleToTenantFunc != nil {
		return m.FindVisibleToTenantFunc(ctx, tenantID)
	}
	return []domain.Role{}, nil
}

func (m *MockRoleRepository) CountPermissionsByIDs(ctx context.Context, ids []string) (int64, error) {
	if m.CountPermissionsByIDsFunc != nil {
		return m.CountPermissionsByIDsFunc(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (m *MockRoleRepository) Create(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, role, permissionIDs)
	}
	return nil
}

func (m *MockRoleRepository) Update(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, role, permissionIDs)
	}
	return nil
}

func (m *MockRoleRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockResetTokenRepository implements domain.ResetTokenRepository for testing
type MockResetTokenRepository struct {
	CreateFunc   func(ctx context.Context, token *domain.PasswordResetToken) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.PasswordResetToken, error)
	RotateFunc   func(ctx context.Context, userID, tokenID, newPasswordHash string, now time.Time) ([]string, error)
}

func NewMockResetTokenRepository() *MockResetTokenRepository { return &MockResetTokenRepository{} }

func (m *MockResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	return nil
}

func (m *MockResetTokenRepository) FindByID(ctx context.Context, id string) (*domain.PasswordResetToken, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrInvalidResetToken
}

func (m *MockResetTokenRepository) Rotate(ctx context.Context, userID, tokenID, newPasswordHash string, now time.Time) ([]string, error) {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, userID, tokenID, newPasswordHash, now)
	}
	return []string{}, nil
}

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc      func(ctx context.Context, session *domain.Session) error
	FindByIDFunc    func(ctx context.Context, sessionID string) (*domain.Session, error)
	DeleteFunc      func(ctx context.Context, sessionID string) error
	EvictCachedFunc func(ctx context.Context, sessionIDs []string) error
}

func NewMockSessionRepository() *MockSessionRepository { return &MockSessionRepository{} }

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockSessionRepository) EvictCached(ctx context.Context, sessionIDs []string) error {
	if m.EvictCachedFunc != nil {
		return m.EvictCachedFunc(ctx, sessionIDs)
	}
	return nil
}
