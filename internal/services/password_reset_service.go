package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Roniclay/agrovet-api/domain"
)

// ResetConfig carries the reset-token lifetime and the base URL embedded in
// the mail link.
type ResetConfig struct {
	TokenTTL    time.Duration
	FrontendURL string
}

// PasswordResetServiceImpl implements domain.PasswordResetService. The raw
// secret is handed to the mailer once and never persisted; only its bcrypt
// hash is stored.
type PasswordResetServiceImpl struct {
	userRepo    domain.UserRepository
	resetRepo   domain.ResetTokenRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	mailer      domain.Mailer
	config      ResetConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(
	userRepo domain.UserRepository,
	resetRepo domain.ResetTokenRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	mailer domain.Mailer,
	config ResetConfig,
	logger *zap.Logger,
) *PasswordResetServiceImpl {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 30 * time.Minute
	}
	return &PasswordResetServiceImpl{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		mailer:      mailer,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// RequestReset implements domain.PasswordResetService. Unknown, inactive or
// unconfirmed addresses return success without side effects so the endpoint
// cannot be used to probe for accounts.
func (s *PasswordResetServiceImpl) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindActiveByEmail(ctx, email)
	if err != nil && err != domain.ErrUserNotFound {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || err == domain.ErrUserNotFound {
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	tokenHash, err := s.passwordSvc.Hash(rawToken)
	if err != nil {
		return fmt.Errorf("failed to hash reset token: %w", err)
	}

	now := s.now()
	token := &domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(s.config.TokenTTL),
		CreatedAt: now,
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s.%s", s.config.FrontendURL, token.ID, rawToken)

	displayName := user.Username
	if displayName == "" {
		displayName = user.Name
	}
	// Mail delivery is best effort. Surfacing the failure would make the
	// "user found, mail failed" path observably different from success.
	if err := s.mailer.SendPasswordReset(ctx, user.Email, displayName, resetURL); err != nil {
		s.logger.Error("password reset mail failed",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	return nil
}

// ResetPassword implements domain.PasswordResetService. Every validation
// failure collapses into ErrInvalidResetToken; distinguishing malformed,
// unknown, used, expired and mismatched tokens would hand an oracle to an
// attacker holding a stale link.
func (s *PasswordResetServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.ErrInvalidResetToken
	}
	tokenID, rawToken := parts[0], parts[1]

	stored, err := s.resetRepo.FindByID(ctx, tokenID)
	if err != nil && err != domain.ErrInvalidResetToken {
		return fmt.Errorf("failed to load reset token: %w", err)
	}
	if stored == nil || err == domain.ErrInvalidResetToken {
		return domain.ErrInvalidResetToken
	}

	now := s.now()
	if !stored.IsLive(now) {
		return domain.ErrInvalidResetToken
	}

	if !s.passwordSvc.Verify(stored.TokenHash, rawToken) {
		return domain.ErrInvalidResetToken
	}

	newHash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	// One transaction: password hash, this token used, every session row
	// dropped, sibling live tokens used. All or nothing.
	sessionIDs, err := s.resetRepo.Rotate(ctx, stored.UserID, stored.ID, newHash, now)
	if err != nil {
		return fmt.Errorf("failed to rotate credentials: %w", err)
	}

	// Cache eviction happens after commit. The DB rows are already gone;
	// a failed eviction leaves at most a short-TTL cache entry behind.
	if err := s.sessionRepo.EvictCached(ctx, sessionIDs); err != nil {
		s.logger.Warn("session cache eviction failed",
			zap.String("user_id", stored.UserID),
			zap.Error(err))
	}

	return nil
}
