package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Roniclay/agrovet-api/domain"
	"github.com/Roniclay/agrovet-api/internal/mocks"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type authFixture struct {
	service     *AuthServiceImpl
	tenantRepo  *mocks.MockTenantRepository
	userRepo    *mocks.MockUserRepository
	roleRepo    *mocks.MockRoleRepository
	sessionRepo *mocks.MockSessionRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	audit       *mocks.MockAuditLogger
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		tenantRepo:  mocks.NewMockTenantRepository(),
		userRepo:    mocks.NewMockUserRepository(),
		roleRepo:    mocks.NewMockRoleRepository(),
		sessionRepo: mocks.NewMockSessionRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		audit:       mocks.NewMockAuditLogger(),
	}
	f.service = NewAuthService(
		f.tenantRepo,
		f.userRepo,
		f.roleRepo,
		f.sessionRepo,
		f.passwordSvc,
		f.tokenSvc,
		NewRBACResolver(f.roleRepo),
		NewLockoutPolicy(DefaultLockoutConfig()),
		f.audit,
		7*24*time.Hour,
		zap.NewNop(),
	)
	f.service.now = func() time.Time { return testNow }
	return f
}

func (f *authFixture) withTenant(tenant *domain.Tenant) {
	f.tenantRepo.FindBySlugFunc = func(ctx context.Context, slug string) (*domain.Tenant, error) {
		if tenant != nil && slug == tenant.Slug {
			return tenant, nil
		}
		return nil, domain.ErrTenantNotFound
	}
}

func (f *authFixture) withUser(user *domain.User) {
	f.userRepo.FindByLoginFunc = func(ctx context.Context, tenantID, login string) (*domain.User, error) {
		if user != nil && tenantID == user.TenantID && (login == user.Email || login == user.Username) {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
}

func activeTenant() *domain.Tenant {
	return &domain.Tenant{ID: "tenant-1", Name: "Fazenda Boa Vista", Slug: "boa-vista", IsActive: true}
}

func confirmedUser() *domain.User {
	return &domain.User{
		ID:               "user-1",
		TenantID:         "tenant-1",
		Name:             "Maria Silva",
		Email:            "maria@boavista.com",
		Username:         "maria",
		PasswordHash:     "hashed_correct-horse",
		IsActive:         true,
		IsEmailConfirmed: true,
	}
}

var testMeta = domain.RequestMeta{IP: "203.0.113.7", UserAgent: "test-agent"}

func TestAuthService_Login_TenantGate(t *testing.T) {
	tests := []struct {
		name   string
		tenant *domain.Tenant
	}{
		{name: "unknown tenant", tenant: nil},
		{name: "inactive tenant", tenant: &domain.Tenant{ID: "tenant-1", Slug: "boa-vista", IsActive: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.withTenant(tt.tenant)

			_, err := f.service.Login(context.Background(), "boa-vista", "maria", "pw", testMeta)
			if err != domain.ErrTenantNotFound {
				t.Errorf("Login() error = %v, want ErrTenantNotFound", err)
			}
			// No tenant means nothing to attribute an audit entry to.
			if len(f.audit.Entries) != 0 {
				t.Errorf("audit entries = %d, want 0", len(f.audit.Entries))
			}
		})
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	f.withUser(nil)

	_, err := f.service.Login(context.Background(), "boa-vista", "ghost@nowhere.com", "pw", testMeta)
	if err != domain.ErrInvalidCredentials {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginFailedUnknownUser}) {
		t.Errorf("audit actions = %v, want [LOGIN_FAILED_UNKNOWN_USER]", got)
	}
	entry := f.audit.Entries[0]
	if entry.UserID != nil {
		t.Errorf("entry.UserID = %v, want nil for unknown user", *entry.UserID)
	}
	if entry.TenantID != "tenant-1" {
		t.Errorf("entry.TenantID = %q, want tenant-1", entry.TenantID)
	}
	if entry.IP != testMeta.IP || entry.UserAgent != testMeta.UserAgent {
		t.Errorf("entry meta = %q/%q, want %q/%q", entry.IP, entry.UserAgent, testMeta.IP, testMeta.UserAgent)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	user.IsActive = false
	f.withUser(user)

	_, err := f.service.Login(context.Background(), "boa-vista", "maria", "correct-horse", testMeta)
	if err != domain.ErrAccountInactive {
		t.Errorf("Login() error = %v, want ErrAccountInactive", err)
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginDeniedInactive}) {
		t.Errorf("audit actions = %v, want [LOGIN_DENIED_INACTIVE]", got)
	}
}

func TestAuthService_Login_LockedUser_PasswordNeverCompared(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	lockedUntil := testNow.Add(10 * time.Minute)
	user.LockedUntil = &lockedUntil
	user.LoginAttempts = 5
	f.withUser(user)

	verifyCalls := 0
	f.passwordSvc.VerifyFunc = func(hash, plain string) bool {
		verifyCalls++
		return true
	}

	_, err := f.service.Login(context.Background(), "boa-vista", "maria", "correct-horse", testMeta)
	if err != domain.ErrAccountLocked {
		t.Errorf("Login() error = %v, want ErrAccountLocked", err)
	}
	if verifyCalls != 0 {
		t.Errorf("password compared %d times while locked, want 0", verifyCalls)
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginDeniedLocked}) {
		t.Errorf("audit actions = %v, want [LOGIN_DENIED_LOCKED]", got)
	}
}

func TestAuthService_Login_ExpiredLockAdmits(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	expired := testNow.Add(-time.Second)
	user.LockedUntil = &expired
	user.LoginAttempts = 5
	f.withUser(user)
	f.roleRepo.FindRolesForUserFunc = func(ctx context.Context, userID string) ([]domain.Role, error) {
		return []domain.Role{}, nil
	}

	result, err := f.service.Login(context.Background(), "boa-vista", "maria", "correct-horse", testMeta)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result == nil {
		t.Fatal("Login() result is nil")
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginSuccess}) {
		t.Errorf("audit actions = %v, want [LOGIN_SUCCESS]", got)
	}
}

func TestAuthService_Login_EmailNotConfirmed(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	user.IsEmailConfirmed = false
	f.withUser(user)

	_, err := f.service.Login(context.Background(), "boa-vista", "maria", "correct-horse", testMeta)
	if err != domain.ErrEmailNotConfirmed {
		t.Errorf("Login() error = %v, want ErrEmailNotConfirmed", err)
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginDeniedEmailUnconfirmed}) {
		t.Errorf("audit actions = %v, want [LOGIN_DENIED_EMAIL_NOT_CONFIRMED]", got)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	user.LoginAttempts = 2
	f.withUser(user)

	var lockedSet bool
	f.userRepo.IncrementLoginAttemptsFunc = func(ctx context.Context, userID string) (int, error) {
		return user.LoginAttempts + 1, nil
	}
	f.userRepo.SetLockedUntilFunc = func(ctx context.Context, userID string, until time.Time) error {
		lockedSet = true
		return nil
	}

	_, err := f.service.Login(context.Background(), "boa-vista", "maria", "wrong", testMeta)
	if err != domain.ErrInvalidCredentials {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if lockedSet {
		t.Error("lock persisted below the threshold")
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginFailed}) {
		t.Errorf("audit actions = %v, want [LOGIN_FAILED]", got)
	}
}

func TestAuthService_Login_FifthFailureLocks(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	user.LoginAttempts = 4
	f.withUser(user)

	var persistedLock *time.Time
	f.userRepo.IncrementLoginAttemptsFunc = func(ctx context.Context, userID string) (int, error) {
		return user.LoginAttempts + 1, nil
	}
	f.userRepo.SetLockedUntilFunc = func(ctx context.Context, userID string, until time.Time) error {
		persistedLock = &until
		return nil
	}

	_, err := f.service.Login(context.Background(), "boa-vista", "maria", "wrong", testMeta)
	if err != domain.ErrAccountLocked {
		t.Errorf("Login() error = %v, want ErrAccountLocked", err)
	}
	if persistedLock == nil {
		t.Fatal("lock not persisted on fifth failure")
	}
	if want := testNow.Add(15 * time.Minute); !persistedLock.Equal(want) {
		t.Errorf("locked_until = %v, want %v", persistedLock, want)
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginFailedAndLocked}) {
		t.Errorf("audit actions = %v, want [LOGIN_FAILED_AND_LOCKED]", got)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	user.LoginAttempts = 3
	f.withUser(user)

	f.roleRepo.FindRolesForUserFunc = func(ctx context.Context, userID string) ([]domain.Role, error) {
		return []domain.Role{
			{ID: "role-vet", Name: "vet"},
			{ID: "role-admin", Name: "tenant_admin"},
		}, nil
	}
	f.roleRepo.FindPermissionsForRolesFunc = func(ctx context.Context, roleIDs []string) ([]domain.Permission, error) {
		return []domain.Permission{
			{ID: "p1", Code: "animals.read"},
			{ID: "p2", Code: "animals.write"},
			{ID: "p2b", Code: "animals.write"},
			{ID: "p3", Code: "roles.manage"},
		}, nil
	}

	var resetAttempts = -1
	var resetLockedUntil *time.Time = &testNow
	var lastLoginAt *time.Time
	f.userRepo.UpdateLoginStateFunc = func(ctx context.Context, userID string, attempts int, lockedUntil, lastLogin *time.Time) error {
		resetAttempts = attempts
		resetLockedUntil = lockedUntil
		lastLoginAt = lastLogin
		return nil
	}

	var createdSession *domain.Session
	f.sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
		createdSession = session
		return nil
	}

	var tokenRoles, tokenPerms []string
	f.tokenSvc.GenerateAccessTokenFunc = func(userID, tenantID, sessionID string, roles, permissions []string) (string, error) {
		tokenRoles, tokenPerms = roles, permissions
		return "signed-token", nil
	}

	result, err := f.service.Login(context.Background(), "boa-vista", "maria", "correct-horse", testMeta)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if resetAttempts != 0 || resetLockedUntil != nil {
		t.Errorf("counter reset = (%d, %v), want (0, nil)", resetAttempts, resetLockedUntil)
	}
	if lastLoginAt == nil || !lastLoginAt.Equal(testNow) {
		t.Errorf("last_login_at = %v, want %v", lastLoginAt, testNow)
	}

	if createdSession == nil {
		t.Fatal("no session created")
	}
	if createdSession.UserID != "user-1" || createdSession.TenantID != "tenant-1" {
		t.Errorf("session = %+v, want user-1/tenant-1", createdSession)
	}
	if want := testNow.Add(7 * 24 * time.Hour); !createdSession.ExpiresAt.Equal(want) {
		t.Errorf("session expiry = %v, want %v", createdSession.ExpiresAt, want)
	}

	wantRoles := []string{"vet", "tenant_admin"}
	wantPerms := []string{"animals.read", "animals.write", "roles.manage"}
	if !reflect.DeepEqual(tokenRoles, wantRoles) {
		t.Errorf("token roles = %v, want %v", tokenRoles, wantRoles)
	}
	if !reflect.DeepEqual(tokenPerms, wantPerms) {
		t.Errorf("token permissions = %v, want %v", tokenPerms, wantPerms)
	}

	if result.AccessToken != "signed-token" {
		t.Errorf("AccessToken = %q, want signed-token", result.AccessToken)
	}
	if result.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", result.TokenType)
	}
	if result.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn = %d, want 900", result.ExpiresIn)
	}
	if result.SessionID != createdSession.ID {
		t.Errorf("SessionID = %q, want %q", result.SessionID, createdSession.ID)
	}
	if result.User.ID != "user-1" || result.User.Email != "maria@boavista.com" {
		t.Errorf("User summary = %+v", result.User)
	}
	if !reflect.DeepEqual(result.User.Roles, wantRoles) || !reflect.DeepEqual(result.User.Permissions, wantPerms) {
		t.Errorf("User roles/permissions = %v/%v", result.User.Roles, result.User.Permissions)
	}
	if result.Tenant.ID != "tenant-1" || result.Tenant.Slug != "boa-vista" {
		t.Errorf("Tenant summary = %+v", result.Tenant)
	}

	if got := f.audit.Actions(); !reflect.DeepEqual(got, []string{domain.AuditLoginSuccess}) {
		t.Errorf("audit actions = %v, want [LOGIN_SUCCESS]", got)
	}
}

// Five wrong passwords lock the account, the sixth attempt is rejected
// without a password comparison, and a correct password after the window
// has passed clears the counters.
func TestAuthService_Login_LockoutLifecycle(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	user := confirmedUser()
	f.withUser(user)

	// The fake store mirrors what the repository would persist.
	f.userRepo.IncrementLoginAttemptsFunc = func(ctx context.Context, userID string) (int, error) {
		user.LoginAttempts++
		return user.LoginAttempts, nil
	}
	f.userRepo.SetLockedUntilFunc = func(ctx context.Context, userID string, until time.Time) error {
		u := until
		user.LockedUntil = &u
		return nil
	}
	f.userRepo.UpdateLoginStateFunc = func(ctx context.Context, userID string, attempts int, lockedUntil, lastLoginAt *time.Time) error {
		user.LoginAttempts = attempts
		user.LockedUntil = lockedUntil
		user.LastLoginAt = lastLoginAt
		return nil
	}

	verifyCalls := 0
	f.passwordSvc.VerifyFunc = func(hash, plain string) bool {
		verifyCalls++
		return hash == "hashed_"+plain
	}

	clock := testNow
	f.service.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, err := f.service.Login(ctx, "boa-vista", "maria", "wrong", testMeta)
		if err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: error = %v, want ErrInvalidCredentials", i, err)
		}
	}
	if user.LockedUntil != nil {
		t.Fatalf("locked after 4 attempts, want unlocked")
	}

	if _, err := f.service.Login(ctx, "boa-vista", "maria", "wrong", testMeta); err != domain.ErrAccountLocked {
		t.Fatalf("attempt 5: error = %v, want ErrAccountLocked", err)
	}
	if user.LockedUntil == nil || !user.LockedUntil.Equal(testNow.Add(15*time.Minute)) {
		t.Fatalf("locked_until = %v, want %v", user.LockedUntil, testNow.Add(15*time.Minute))
	}

	// While the window is open even the right password is rejected, and
	// the comparison never runs.
	verifyCallsBefore := verifyCalls
	if _, err := f.service.Login(ctx, "boa-vista", "maria", "correct-horse", testMeta); err != domain.ErrAccountLocked {
		t.Fatalf("locked attempt: error = %v, want ErrAccountLocked", err)
	}
	if verifyCalls != verifyCallsBefore {
		t.Fatal("password compared while locked")
	}

	// Past the window the account self-heals.
	clock = testNow.Add(16 * time.Minute)
	result, err := f.service.Login(ctx, "boa-vista", "maria", "correct-horse", testMeta)
	if err != nil {
		t.Fatalf("post-window login: error = %v", err)
	}
	if result == nil {
		t.Fatal("post-window login: result is nil")
	}
	if user.LoginAttempts != 0 || user.LockedUntil != nil {
		t.Errorf("counters after success = (%d, %v), want (0, nil)", user.LoginAttempts, user.LockedUntil)
	}

	wantActions := []string{
		domain.AuditLoginFailed,
		domain.AuditLoginFailed,
		domain.AuditLoginFailed,
		domain.AuditLoginFailed,
		domain.AuditLoginFailedAndLocked,
		domain.AuditLoginDeniedLocked,
		domain.AuditLoginSuccess,
	}
	if got := f.audit.Actions(); !reflect.DeepEqual(got, wantActions) {
		t.Errorf("audit actions = %v, want %v", got, wantActions)
	}
}

func TestAuthService_Login_AuditFailureDoesNotBlock(t *testing.T) {
	f := newAuthFixture()
	f.withTenant(activeTenant())
	f.withUser(confirmedUser())
	f.audit.RecordFunc = func(ctx context.Context, entry *domain.AuditEntry) error {
		return context.DeadlineExceeded
	}

	result, err := f.service.Login(context.Background(), "boa-vista", "maria", "correct-horse", testMeta)
	if err != nil {
		t.Fatalf("Login() error = %v, want success despite audit failure", err)
	}
	if result == nil {
		t.Fatal("Login() result is nil")
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	var deleted string
	f.sessionRepo.DeleteFunc = func(ctx context.Context, sessionID string) error {
		deleted = sessionID
		return nil
	}

	if err := f.service.Logout(context.Background(), "session-9"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if deleted != "session-9" {
		t.Errorf("deleted session = %q, want session-9", deleted)
	}
}
