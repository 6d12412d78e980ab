package service

import (
	"context"
	"fmt"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/pkg/utils"
	"go.uber.org/zap"
)

// CreateUserInput carries a new employee/manager account
type CreateUserInput struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	ManagerID  *int64 `json:"manager_id,omitempty"`
	IsApprover bool   `json:"is_approver"`
}

// UserService manages company accounts and the manager hierarchy
type UserService interface {
	Create(ctx context.Context, principal entity.Principal, input CreateUserInput) (*entity.User, error)
	AssignManager(ctx context.Context, principal entity.Principal, userID int64, managerID *int64) error
	List(ctx context.Context, principal entity.Principal) ([]*entity.User, error)
}

type userServiceImpl struct {
	userRepo  port.UserRepository
	hasher    port.PasswordHasher
	txManager port.TransactionManager
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo port.UserRepository,
	hasher port.PasswordHasher,
	txManager port.TransactionManager,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		hasher:    hasher,
		txManager: txManager,
		logger:    logger,
	}
}

// Create adds a user to the admin's company
func (s *userServiceImpl) Create(ctx context.Context, principal entity.Principal, input CreateUserInput) (*entity.User, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create users", apperr.ErrUnauthorized)
	}
	if err := validateNewUser(input); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperr.ErrConflict, input.Username)
	}
	if existing, err := s.userRepo.GetByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email %q is taken", apperr.ErrConflict, input.Email)
	}

	if input.ManagerID != nil {
		manager, err := s.userRepo.GetByID(ctx, *input.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager.CompanyID != principal.CompanyID {
			return nil, fmt.Errorf("%w: manager %d", apperr.ErrNotFound, *input.ManagerID)
		}
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		CompanyID:    principal.CompanyID,
		ManagerID:    input.ManagerID,
		IsApprover:   input.IsApprover,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		s.logger.Error("Failed to create user", zap.String("username", input.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Bool("is_approver", user.IsApprover))
	return user, nil
}

// AssignManager sets or clears a user's manager, rejecting assignments that
// would close a cycle in the manager graph.
func (s *userServiceImpl) AssignManager(ctx context.Context, principal entity.Principal, userID int64, managerID *int64) error {
	if !principal.IsAdmin() {
		return fmt.Errorf("%w: only admins can assign managers", apperr.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.CompanyID != principal.CompanyID {
		return fmt.Errorf("%w: user %d", apperr.ErrNotFound, userID)
	}

	if managerID != nil {
		if *managerID == userID {
			return fmt.Errorf("%w: a user cannot manage themselves", apperr.ErrValidation)
		}

		manager, err := s.userRepo.GetByID(ctx, *managerID)
		if err != nil {
			return err
		}
		if manager.CompanyID != principal.CompanyID {
			return fmt.Errorf("%w: manager %d", apperr.ErrNotFound, *managerID)
		}

		if err := s.checkAcyclic(ctx, userID, manager); err != nil {
			return err
		}
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.UpdateManager(txCtx, userID, managerID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Manager assigned", zap.Int64("user_id", userID), zap.Any("manager_id", managerID))
	return nil
}

// List returns the users of the principal's company
func (s *userServiceImpl) List(ctx context.Context, principal entity.Principal) ([]*entity.User, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can list users", apperr.ErrUnauthorized)
	}
	return s.userRepo.ListByCompany(ctx, principal.CompanyID)
}

// checkAcyclic walks the manager chain upward from the proposed manager. If
// the chain reaches the user being reassigned, the assignment would create a
// cycle. The walk is bounded so a corrupt graph cannot loop forever.
func (s *userServiceImpl) checkAcyclic(ctx context.Context, userID int64, manager *entity.User) error {
	const maxDepth = 1000

	current := manager
	for depth := 0; depth < maxDepth; depth++ {
		if current.ID == userID {
			return fmt.Errorf("%w: assignment would create a cycle in the manager hierarchy", apperr.ErrValidation)
		}
		if current.ManagerID == nil {
			return nil
		}
		next, err := s.userRepo.GetByID(ctx, *current.ManagerID)
		if err != nil {
			return err
		}
		current = next
	}

	return fmt.Errorf("%w: manager chain exceeds maximum depth", apperr.ErrValidation)
}

func validateNewUser(input CreateUserInput) error {
	if err := utils.ValidateUsername(input.Username); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if !entity.IsValidRole(input.Role) {
		return fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, input.Role)
	}
	return nil
}
