package auth

import (
	"reflect"
	"testing"
	"time"

	"github.com/Roniclay/agrovet-api/domain"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key", "agrovet-api", 15*time.Minute)

	roles := []string{"vet", "tenant_admin"}
	permissions := []string{"animals.read", "animals.write", "roles.manage"}

	token, err := svc.GenerateAccessToken("user-1", "tenant-1", "sess-1", roles, permissions)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.TenantID != "tenant-1" {
		t.Errorf("TenantID = %q, want tenant-1", claims.TenantID)
	}
	if claims.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", claims.SessionID)
	}
	if !reflect.DeepEqual(claims.Roles, roles) {
		t.Errorf("Roles = %v, want %v", claims.Roles, roles)
	}
	if !reflect.DeepEqual(claims.Permissions, permissions) {
		t.Errorf("Permissions = %v, want %v", claims.Permissions, permissions)
	}
	if claims.ExpiresAt-claims.IssuedAt != int64((15 * time.Minute).Seconds()) {
		t.Errorf("lifetime = %d seconds, want 900", claims.ExpiresAt-claims.IssuedAt)
	}
}

func TestJWTService_EmptySetsStayEmpty(t *testing.T) {
	svc := NewJWTService("test-secret-key", "agrovet-api", 15*time.Minute)

	token, err := svc.GenerateAccessToken("user-1", "tenant-1", "", []string{}, []string{})
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.Roles == nil || len(claims.Roles) != 0 {
		t.Errorf("Roles = %#v, want empty non-nil slice", claims.Roles)
	}
	if claims.Permissions == nil || len(claims.Permissions) != 0 {
		t.Errorf("Permissions = %#v, want empty non-nil slice", claims.Permissions)
	}
	if claims.SessionID != "" {
		t.Errorf("SessionID = %q, want empty", claims.SessionID)
	}
}

func TestJWTService_Rejections(t *testing.T) {
	svc := NewJWTService("test-secret-key", "agrovet-api", 15*time.Minute)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("another-secret", "agrovet-api", 15*time.Minute)
		token, err := other.GenerateAccessToken("user-1", "tenant-1", "", nil, nil)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}
		if _, err := svc.ValidateAccessToken(token); err != domain.ErrTokenInvalid {
			t.Errorf("error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("user-1", "tenant-1", "", nil, nil)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}
		if _, err := svc.ValidateAccessToken(token + "x"); err != domain.ErrTokenInvalid {
			t.Errorf("error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := svc.ValidateAccessToken("not.a.jwt"); err != domain.ErrTokenInvalid {
			t.Errorf("error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewJWTService("test-secret-key", "agrovet-api", -time.Minute)
		token, err := short.GenerateAccessToken("user-1", "tenant-1", "", nil, nil)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}
		// The parser itself rejects the stale exp claim.
		if _, err := short.ValidateAccessToken(token); err != domain.ErrTokenInvalid {
			t.Errorf("error = %v, want ErrTokenInvalid", err)
		}
	})
}
