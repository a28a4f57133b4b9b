package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAuditValue_MarshalJSON(t *testing.T) {
	when := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value AuditValue
		want  string
	}{
		{name: "null", value: AuditNull(), want: `null`},
		{name: "string", value: AuditString("maria"), want: `"maria"`},
		{name: "int", value: AuditInt(5), want: `5`},
		{name: "float", value: AuditFloat(2.5), want: `2.5`},
		{name: "bool", value: AuditBool(true), want: `true`},
		{name: "time", value: AuditTime(when), want: `"2025-06-01T12:15:00Z"`},
		{name: "nil time pointer", value: AuditTimePtr(nil), want: `null`},
		{name: "time pointer", value: AuditTimePtr(&when), want: `"2025-06-01T12:15:00Z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAuditData_MarshalJSON(t *testing.T) {
	data := AuditData{
		"login_attempts": AuditInt(5),
		"locked_until":   AuditNull(),
	}

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["login_attempts"] != float64(5) {
		t.Errorf("login_attempts = %v", decoded["login_attempts"])
	}
	if v, ok := decoded["locked_until"]; !ok || v != nil {
		t.Errorf("locked_until = %v, want explicit null", v)
	}
}

func TestPasswordResetToken_IsLive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token PasswordResetToken
		want  bool
	}{
		{name: "live", token: PasswordResetToken{ExpiresAt: now.Add(time.Minute)}, want: true},
		{name: "expired", token: PasswordResetToken{ExpiresAt: now.Add(-time.Second)}, want: false},
		{name: "used", token: PasswordResetToken{ExpiresAt: now.Add(time.Minute), UsedAt: &used}, want: false},
		{name: "expires exactly now", token: PasswordResetToken{ExpiresAt: now}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.IsLive(now); got != tt.want {
				t.Errorf("IsLive() = %v, want %v", got, tt.want)
			}
		})
	}
}
