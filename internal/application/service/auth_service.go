package service

import (
	"context"
	"fmt"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"go.uber.org/zap"
)

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token  string `json:"access_token"`
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// AuthService authenticates credentials and verifies bearer tokens
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Verify(token string) (entity.Principal, error)
}

type authServiceImpl struct {
	userRepo port.UserRepository
	hasher   port.PasswordHasher
	tokens   port.TokenManager
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo port.UserRepository,
	hasher port.PasswordHasher,
	tokens port.TokenManager,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login authenticates a username/password pair and issues a token. Unknown
// users and wrong passwords return the same error to avoid user enumeration.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return nil, err
	}

	token, err := s.tokens.Issue(entity.Principal{
		UserID:    user.ID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:  token,
		UserID: user.ID,
		Role:   user.Role,
	}, nil
}

// Verify resolves a bearer token to its principal
func (s *authServiceImpl) Verify(token string) (entity.Principal, error) {
	return s.tokens.Verify(token)
}
