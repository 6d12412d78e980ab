package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	principal := entity.Principal{UserID: 42, Role: entity.RoleManager, CompanyID: 7}
	token, err := manager.Issue(principal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := issuer.Issue(entity.Principal{UserID: 1, Role: entity.RoleAdmin, CompanyID: 1})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Issue(entity.Principal{UserID: 1, Role: entity.RoleAdmin, CompanyID: 1})
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	_, err := manager.Verify("not.a.token")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cretpass", hash)

	assert.NoError(t, hasher.Compare(hash, "s3cretpass"))
	assert.ErrorIs(t, hasher.Compare(hash, "wrong"), apperr.ErrUnauthorized)
}
