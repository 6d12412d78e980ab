package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/pkg/utils"
	"go.uber.org/zap"
)

// SignupInput carries the initial company-with-admin signup
type SignupInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
	Country     string `json:"country"`
}

// SignupResult is returned on successful signup
type SignupResult struct {
	Token     string `json:"access_token"`
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
}

// CompanyService handles initial company creation
type CompanyService interface {
	Signup(ctx context.Context, input SignupInput) (*SignupResult, error)
}

type companyServiceImpl struct {
	companyRepo     port.CompanyRepository
	userRepo        port.UserRepository
	countryProvider port.CountryCurrencyProvider
	hasher          port.PasswordHasher
	tokens          port.TokenManager
	txManager       port.TransactionManager
	logger          *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo port.CompanyRepository,
	userRepo port.UserRepository,
	countryProvider port.CountryCurrencyProvider,
	hasher port.PasswordHasher,
	tokens port.TokenManager,
	txManager port.TransactionManager,
	logger *zap.Logger,
) CompanyService {
	return &companyServiceImpl{
		companyRepo:     companyRepo,
		userRepo:        userRepo,
		countryProvider: countryProvider,
		hasher:          hasher,
		tokens:          tokens,
		txManager:       txManager,
		logger:          logger,
	}
}

// Signup creates the first company and its admin user in one transaction.
// It is only valid while no company exists. The base currency is resolved
// from the country once, here; a lookup failure is fatal since no fallback
// value exists.
func (s *companyServiceImpl) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	if err := validateSignup(input); err != nil {
		return nil, err
	}

	existing, err := s.companyRepo.First(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a company already exists, signup is for the initial setup only", apperr.ErrConflict)
	}

	currencyCode, err := s.countryProvider.CurrencyFor(ctx, input.Country)
	if err != nil {
		s.logger.Error("Country currency lookup failed", zap.String("country", input.Country), zap.Error(err))
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	company := &entity.Company{
		Name:             input.CompanyName,
		BaseCurrencyCode: strings.ToUpper(currencyCode),
	}
	admin := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         entity.RoleAdmin,
		IsApprover:   true,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.companyRepo.Create(txCtx, company); err != nil {
			return err
		}
		admin.CompanyID = company.ID
		return s.userRepo.Create(txCtx, admin)
	})
	if err != nil {
		s.logger.Error("Failed to create company and admin", zap.Error(err))
		return nil, err
	}

	token, err := s.tokens.Issue(entity.Principal{
		UserID:    admin.ID,
		Role:      admin.Role,
		CompanyID: company.ID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Company created",
		zap.Int64("company_id", company.ID),
		zap.String("base_currency", company.BaseCurrencyCode),
		zap.Int64("admin_id", admin.ID))
	return &SignupResult{
		Token:     token,
		UserID:    admin.ID,
		CompanyID: company.ID,
	}, nil
}

func validateSignup(input SignupInput) error {
	if err := utils.ValidateUsername(input.Username); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if strings.TrimSpace(input.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", apperr.ErrValidation)
	}
	if strings.TrimSpace(input.Country) == "" {
		return fmt.Errorf("%w: country is required", apperr.ErrValidation)
	}
	return nil
}
