package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

func knownUserRepo() *mockUserRepo {
	return &mockUserRepo{
		getByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
			if username != "alice" {
				return nil, nil
			}
			return &entity.User{
				ID:           4,
				Username:     "alice",
				PasswordHash: "hashed:correct-horse",
				Role:         entity.RoleManager,
				CompanyID:    1,
			}, nil
		},
	}
}

func TestAuthService_Login_Succeeds(t *testing.T) {
	svc := NewAuthService(knownUserRepo(), &mockHasher{}, &mockTokenManager{}, zap.NewNop())

	result, err := svc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.UserID)
	assert.Equal(t, entity.RoleManager, result.Role)
	assert.NotEmpty(t, result.Token)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(knownUserRepo(), &mockHasher{}, &mockTokenManager{}, zap.NewNop())

	_, err := svc.Login(context.Background(), "mallory", "whatever")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	issued := false
	tokens := &mockTokenManager{
		issueFunc: func(principal entity.Principal) (string, error) {
			issued = true
			return "token", nil
		},
	}
	svc := NewAuthService(knownUserRepo(), &mockHasher{}, tokens, zap.NewNop())

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.False(t, issued, "no token may be issued on a failed login")
}

func TestAuthService_Verify_DelegatesToTokenManager(t *testing.T) {
	tokens := &mockTokenManager{
		verifyFunc: func(token string) (entity.Principal, error) {
			return entity.Principal{UserID: 4, Role: entity.RoleManager, CompanyID: 1}, nil
		},
	}
	svc := NewAuthService(knownUserRepo(), &mockHasher{}, tokens, zap.NewNop())

	principal, err := svc.Verify("some-token")
	require.NoError(t, err)
	assert.Equal(t, int64(4), principal.UserID)
	assert.Equal(t, int64(1), principal.CompanyID)
}
