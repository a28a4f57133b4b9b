package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Roniclay/agrovet-api/domain"
)

// JWTServiceImpl implements domain.TokenService with HS256-signed tokens.
// The payload contract is subject, tenant, role names and permission codes;
// all four must round-trip through ValidateAccessToken unchanged.
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, accessTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// AccessTTL implements domain.TokenService
func (j *JWTServiceImpl) AccessTTL() time.Duration {
	return j.accessTTL
}

// GenerateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateAccessToken(userID, tenantID, sessionID string, roles, permissions []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         userID,
		"tenant_id":   tenantID,
		"roles":       roles,
		"permissions": permissions,
		"iss":         j.issuer,
		"iat":         now.Unix(),
		"exp":         now.Add(j.accessTTL).Unix(),
		"jti":         j.generateJTI(),
	}
	if sessionID != "" {
		claims["session_id"] = sessionID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	tokenClaims := &domain.TokenClaims{
		UserID:      sub,
		TenantID:    tenantID,
		Roles:       stringSlice(claims["roles"]),
		Permissions: stringSlice(claims["permissions"]),
		IssuedAt:    int64(iat),
		ExpiresAt:   int64(exp),
	}

	if sessionID, ok := claims["session_id"].(string); ok {
		tokenClaims.SessionID = sessionID
	}

	return tokenClaims, nil
}

// stringSlice converts a decoded JSON array claim back into []string.
// Missing or malformed claims decode as an empty set, never nil.
func stringSlice(claim interface{}) []string {
	values, ok := claim.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
