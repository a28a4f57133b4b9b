package services

import (
	"time"

	"github.com/Roniclay/agrovet-api/domain"
)

// LockoutConfig carries the brute-force thresholds. Injected at
// construction so tests can vary them per case.
type LockoutConfig struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// DefaultLockoutConfig returns the production thresholds.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{MaxAttempts: 5, LockDuration: 15 * time.Minute}
}

// FailureOutcome is the state to persist after a failed password check.
type FailureOutcome struct {
	Attempts    int
	LockedUntil *time.Time
	JustLocked  bool
}

// SuccessOutcome is the state to persist after a successful authentication.
type SuccessOutcome struct {
	Attempts    int
	LockedUntil *time.Time
}

// LockoutPolicy is pure decision logic over attempt counters and
// timestamps. It performs no I/O; callers persist the outcomes.
type LockoutPolicy struct {
	config LockoutConfig
}

// NewLockoutPolicy creates a lockout policy with the given thresholds.
func NewLockoutPolicy(config LockoutConfig) *LockoutPolicy {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.LockDuration <= 0 {
		config.LockDuration = 15 * time.Minute
	}
	return &LockoutPolicy{config: config}
}

// IsLocked reports whether the user's lockout window is still active.
func (p *LockoutPolicy) IsLocked(user *domain.User, now time.Time) bool {
	return user.LockedUntil != nil && user.LockedUntil.After(now)
}

// OnFailure computes the next attempt counter and, once the threshold is
// reached, the lockout deadline.
func (p *LockoutPolicy) OnFailure(attempts int, now time.Time) FailureOutcome {
	next := attempts + 1
	if next >= p.config.MaxAttempts {
		until := now.Add(p.config.LockDuration)
		return FailureOutcome{Attempts: next, LockedUntil: &until, JustLocked: true}
	}
	return FailureOutcome{Attempts: next}
}

// OnSuccess resets the counters unconditionally.
func (p *LockoutPolicy) OnSuccess() SuccessOutcome {
	return SuccessOutcome{Attempts: 0, LockedUntil: nil}
}
