package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Roniclay/agrovet-api/domain"
)

// AuthServiceImpl implements domain.AuthService. Login is a sequential
// gate chain: tenant, user, active, lockout, email confirmation, password.
// Every terminal outcome writes exactly one audit entry.
type AuthServiceImpl struct {
	tenantRepo  domain.TenantRepository
	userRepo    domain.UserRepository
	roleRepo    domain.RoleRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	rbac        *RBACResolver
	lockout     *LockoutPolicy
	audit       domain.AuditLogger
	sessionTTL  time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(
	tenantRepo domain.TenantRepository,
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	rbac *RBACResolver,
	lockout *LockoutPolicy,
	audit domain.AuditLogger,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		rbac:        rbac,
		lockout:     lockout,
		audit:       audit,
		sessionTTL:  sessionTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Login implements domain.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, tenantSlug, login, password string, meta domain.RequestMeta) (*domain.AuthResult, error) {
	// 1) Tenant by slug. Inactive tenants are indistinguishable from
	// unknown ones.
	tenant, err := s.tenantRepo.FindBySlug(ctx, tenantSlug)
	if err != nil || tenant == nil || !tenant.IsActive {
		if err != nil && err != domain.ErrTenantNotFound {
			return nil, fmt.Errorf("failed to resolve tenant: %w", err)
		}
		return nil, domain.ErrTenantNotFound
	}

	// 2) User within the tenant, by email or username, soft-deleted rows
	// excluded. Unknown users collapse into invalid credentials so the
	// response does not reveal account existence.
	user, err := s.userRepo.FindByLogin(ctx, tenant.ID, login)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	if user == nil || err == domain.ErrUserNotFound {
		s.record(ctx, &domain.AuditEntry{
			TenantID:   tenant.ID,
			Action:     domain.AuditLoginFailedUnknownUser,
			EntityName: "auth",
			EntityID:   login,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
			Before:     domain.AuditData{"login": domain.AuditString(login)},
		})
		return nil, domain.ErrInvalidCredentials
	}

	// 3) Account enabled?
	if !user.IsActive {
		s.recordForUser(ctx, tenant.ID, user.ID, domain.AuditLoginDeniedInactive, meta, nil, nil)
		return nil, domain.ErrAccountInactive
	}

	// 4) Lockout window. While locked the password is never compared.
	now := s.now()
	if s.lockout.IsLocked(user, now) {
		s.recordForUser(ctx, tenant.ID, user.ID, domain.AuditLoginDeniedLocked, meta,
			domain.AuditData{"locked_until": domain.AuditTimePtr(user.LockedUntil)}, nil)
		return nil, domain.ErrAccountLocked
	}

	// 5) Email confirmed?
	if !user.IsEmailConfirmed {
		s.recordForUser(ctx, tenant.ID, user.ID, domain.AuditLoginDeniedEmailUnconfirmed, meta, nil, nil)
		return nil, domain.ErrEmailNotConfirmed
	}

	// 6) Password check. From here on the attempt-counter update must land
	// even if the caller goes away, so the persistence tail runs on a
	// context detached from cancellation.
	persistCtx := context.WithoutCancel(ctx)
	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		// The increment is atomic in the store; the policy decides on the
		// counter value that actually landed, so two racing failures both
		// count and the threshold cannot be overshot silently.
		newAttempts, err := s.userRepo.IncrementLoginAttempts(persistCtx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to persist login attempt: %w", err)
		}
		outcome := s.lockout.OnFailure(newAttempts-1, now)
		if outcome.JustLocked {
			if err := s.userRepo.SetLockedUntil(persistCtx, user.ID, *outcome.LockedUntil); err != nil {
				return nil, fmt.Errorf("failed to persist lockout: %w", err)
			}
		}

		action := domain.AuditLoginFailed
		if outcome.JustLocked {
			action = domain.AuditLoginFailedAndLocked
		}
		s.recordForUser(persistCtx, tenant.ID, user.ID, action, meta,
			domain.AuditData{"login_attempts": domain.AuditInt(int64(user.LoginAttempts))},
			domain.AuditData{
				"login_attempts": domain.AuditInt(int64(outcome.Attempts)),
				"locked_until":   domain.AuditTimePtr(outcome.LockedUntil),
			})

		if outcome.JustLocked {
			return nil, domain.ErrAccountLocked
		}
		return nil, domain.ErrInvalidCredentials
	}

	// 7) Success resets the counters regardless of prior state.
	success := s.lockout.OnSuccess()
	if err := s.userRepo.UpdateLoginState(persistCtx, user.ID, success.Attempts, success.LockedUntil, &now); err != nil {
		return nil, fmt.Errorf("failed to persist login success: %w", err)
	}

	// 8) Effective roles and permissions.
	roles, err := s.roleRepo.FindRolesForUser(persistCtx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}

	roleIDs := make([]string, len(roles))
	roleNames := make([]string, len(roles))
	for i, r := range roles {
		roleIDs[i] = r.ID
		roleNames[i] = r.Name
	}

	permissions, err := s.rbac.ResolvePermissions(persistCtx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	// 9) Session row plus signed token.
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TenantID:  tenant.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(persistCtx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, tenant.ID, session.ID, roleNames, permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// 10) Audit success.
	s.recordForUser(persistCtx, tenant.ID, user.ID, domain.AuditLoginSuccess, meta, nil,
		domain.AuditData{"last_login_at": domain.AuditTime(now)})

	return &domain.AuthResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenSvc.AccessTTL().Seconds()),
		SessionID:   session.ID,
		User: domain.UserSummary{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Username:    user.Username,
			TenantID:    tenant.ID,
			Roles:       roleNames,
			Permissions: permissions,
		},
		Tenant: domain.TenantSummary{
			ID:   tenant.ID,
			Name: tenant.Name,
			Slug: tenant.Slug,
		},
	}, nil
}

// Logout implements domain.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// Profile implements domain.AuthService.
func (s *AuthServiceImpl) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// record attempts an audit write. Sink failures are logged, never
// propagated; the terminal outcome already carries the security decision.
func (s *AuthServiceImpl) record(ctx context.Context, entry *domain.AuditEntry) {
	entry.CreatedAt = s.now()
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("action", entry.Action),
			zap.String("tenant_id", entry.TenantID),
			zap.Error(err))
	}
}

func (s *AuthServiceImpl) recordForUser(ctx context.Context, tenantID, userID, action string, meta domain.RequestMeta, before, after domain.AuditData) {
	uid := userID
	s.record(ctx, &domain.AuditEntry{
		TenantID:   tenantID,
		UserID:     &uid,
		Action:     action,
		EntityName: "auth",
		EntityID:   userID,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Before:     before,
		After:      after,
	})
}
