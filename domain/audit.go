package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Audit actions emitted by the login path. The set is exhaustive and
// case-sensitive; reporting tooling matches on these strings.
const (
	AuditLoginSuccess                = "LOGIN_SUCCESS"
	AuditLoginFailed                 = "LOGIN_FAILED"
	AuditLoginFailedAndLocked        = "LOGIN_FAILED_AND_LOCKED"
	AuditLoginFailedUnknownUser      = "LOGIN_FAILED_UNKNOWN_USER"
	AuditLoginDeniedInactive         = "LOGIN_DENIED_INACTIVE"
	AuditLoginDeniedLocked           = "LOGIN_DENIED_LOCKED"
	AuditLoginDeniedEmailUnconfirmed = "LOGIN_DENIED_EMAIL_NOT_CONFIRMED"
)

// AuditValueKind enumerates the closed set of value types an audit payload
// may carry.
type AuditValueKind int

const (
	AuditNullKind AuditValueKind = iota
	AuditStringKind
	AuditIntKind
	AuditFloatKind
	AuditBoolKind
	AuditTimeKind
)

// AuditValue is a small closed variant for before/after payload fields.
// Keeping the set closed avoids smuggling arbitrary structures into the
// append-only log.
type AuditValue struct {
	Kind  AuditValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Time  time.Time
}

func AuditNull() AuditValue                { return AuditValue{Kind: AuditNullKind} }
func AuditString(s string) AuditValue      { return AuditValue{Kind: AuditStringKind, Str: s} }
func AuditInt(i int64) AuditValue          { return AuditValue{Kind: AuditIntKind, Int: i} }
func AuditFloat(f float64) AuditValue      { return AuditValue{Kind: AuditFloatKind, Float: f} }
func AuditBool(b bool) AuditValue          { return AuditValue{Kind: AuditBoolKind, Bool: b} }
func AuditTime(t time.Time) AuditValue     { return AuditValue{Kind: AuditTimeKind, Time: t} }

// AuditTimePtr maps a nullable timestamp onto the variant.
func AuditTimePtr(t *time.Time) AuditValue {
	if t == nil {
		return AuditNull()
	}
	return AuditTime(*t)
}

// MarshalJSON flattens the variant into its natural JSON representation.
func (v AuditValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AuditStringKind:
		return json.Marshal(v.Str)
	case AuditIntKind:
		return json.Marshal(v.Int)
	case AuditFloatKind:
		return json.Marshal(v.Float)
	case AuditBoolKind:
		return json.Marshal(v.Bool)
	case AuditTimeKind:
		return json.Marshal(v.Time.UTC().Format(time.RFC3339Nano))
	default:
		return []byte("null"), nil
	}
}

// AuditData is the before/after payload of an audit entry.
type AuditData map[string]AuditValue

// AuditEntry is an immutable record of a security-relevant action.
type AuditEntry struct {
	TenantID   string
	UserID     *string
	Action     string
	EntityName string
	EntityID   string
	IP         string
	UserAgent  string
	Before     AuditData
	After      AuditData
	CreatedAt  time.Time
}

// AuditLogger appends security events. Implementations must not mutate or
// delete existing entries.
type AuditLogger interface {
	Record(ctx context.Context, entry *AuditEntry) error
}
