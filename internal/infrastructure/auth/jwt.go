// Package auth implements credential hashing and bearer token issuance for
// the authenticate -> principal contract consumed by the services.
package auth

import (
	"fmt"
	"time"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager issues and verifies HS256 bearer tokens
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

type claims struct {
	Role      string `json:"role"`
	CompanyID int64  `json:"company_id"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new token manager
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token carrying the principal
func (m *JWTManager) Issue(principal entity.Principal) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:      principal.Role,
		CompanyID: principal.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", principal.UserID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the embedded principal
func (m *JWTManager) Verify(tokenString string) (entity.Principal, error) {
	var parsed claims
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return entity.Principal{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	var userID int64
	if _, err := fmt.Sscanf(parsed.Subject, "%d", &userID); err != nil {
		return entity.Principal{}, fmt.Errorf("%w: malformed token subject", apperr.ErrUnauthorized)
	}

	return entity.Principal{
		UserID:    userID,
		Role:      parsed.Role,
		CompanyID: parsed.CompanyID,
	}, nil
}

// Verify interface compliance
var _ port.TokenManager = (*JWTManager)(nil)
