package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

func validSignup() SignupInput {
	return SignupInput{
		Username:    "founder",
		Email:       "founder@acme.test",
		Password:    "s3cretpass",
		CompanyName: "Acme",
		Country:     "United States",
	}
}

func newTestCompanyService(companyRepo *mockCompanyRepo, userRepo *mockUserRepo, country *mockCountryProvider) CompanyService {
	return NewCompanyService(
		companyRepo,
		userRepo,
		country,
		&mockHasher{},
		&mockTokenManager{},
		&mockTxManager{},
		zap.NewNop(),
	)
}

func TestCompanyService_Signup_CreatesCompanyAndAdmin(t *testing.T) {
	var createdAdmin *entity.User
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *entity.User) error {
			user.ID = 7
			createdAdmin = user
			return nil
		},
	}
	country := &mockCountryProvider{
		currencyForFunc: func(ctx context.Context, countryName string) (string, error) {
			return "usd", nil
		},
	}
	svc := newTestCompanyService(&mockCompanyRepo{}, userRepo, country)

	result, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, int64(7), result.UserID)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, createdAdmin)
	assert.Equal(t, entity.RoleAdmin, createdAdmin.Role)
	assert.True(t, createdAdmin.IsApprover, "the initial admin must be able to approve")
	assert.Equal(t, result.CompanyID, createdAdmin.CompanyID)
}

func TestCompanyService_Signup_NormalizesCurrencyCode(t *testing.T) {
	var createdCompany *entity.Company
	companyRepo := &mockCompanyRepo{
		createFunc: func(ctx context.Context, company *entity.Company) error {
			company.ID = 1
			createdCompany = company
			return nil
		},
	}
	country := &mockCountryProvider{
		currencyForFunc: func(ctx context.Context, countryName string) (string, error) {
			return "inr", nil
		},
	}
	svc := newTestCompanyService(companyRepo, &mockUserRepo{}, country)

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NotNil(t, createdCompany)
	assert.Equal(t, "INR", createdCompany.BaseCurrencyCode)
}

func TestCompanyService_Signup_RefusedWhenCompanyExists(t *testing.T) {
	companyRepo := &mockCompanyRepo{
		firstFunc: func(ctx context.Context) (*entity.Company, error) {
			return &entity.Company{ID: 1, Name: "Existing"}, nil
		},
	}
	svc := newTestCompanyService(companyRepo, &mockUserRepo{}, &mockCountryProvider{})

	_, err := svc.Signup(context.Background(), validSignup())
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCompanyService_Signup_CountryLookupFailureIsFatal(t *testing.T) {
	created := false
	companyRepo := &mockCompanyRepo{
		createFunc: func(ctx context.Context, company *entity.Company) error {
			created = true
			return nil
		},
	}
	country := &mockCountryProvider{
		currencyForFunc: func(ctx context.Context, countryName string) (string, error) {
			return "", fmt.Errorf("%w: country lookup failed", apperr.ErrExternal)
		},
	}
	svc := newTestCompanyService(companyRepo, &mockUserRepo{}, country)

	_, err := svc.Signup(context.Background(), validSignup())
	assert.ErrorIs(t, err, apperr.ErrExternal)
	assert.False(t, created, "no company may be persisted without a base currency")
}

func TestCompanyService_Signup_RollsBackAdminFailure(t *testing.T) {
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *entity.User) error {
			return errors.New("constraint violation")
		},
	}
	svc := newTestCompanyService(&mockCompanyRepo{}, userRepo, &mockCountryProvider{})

	_, err := svc.Signup(context.Background(), validSignup())
	assert.Error(t, err)
}

func TestCompanyService_Signup_ValidatesInput(t *testing.T) {
	svc := newTestCompanyService(&mockCompanyRepo{}, &mockUserRepo{}, &mockCountryProvider{})

	tests := []struct {
		name   string
		mutate func(*SignupInput)
	}{
		{"missing company name", func(in *SignupInput) { in.CompanyName = " " }},
		{"missing country", func(in *SignupInput) { in.Country = "" }},
		{"bad email", func(in *SignupInput) { in.Email = "not-an-email" }},
		{"short password", func(in *SignupInput) { in.Password = "abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSignup()
			tt.mutate(&input)
			_, err := svc.Signup(context.Background(), input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}
