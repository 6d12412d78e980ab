package service

import (
	"context"
	"fmt"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Mock repositories

type mockCompanyRepo struct {
	createFunc  func(ctx context.Context, company *entity.Company) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Company, error)
	firstFunc   func(ctx context.Context) (*entity.Company, error)
}

func (m *mockCompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, company)
	}
	company.ID = 1
	return nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Company{ID: id, Name: "Acme", BaseCurrencyCode: "USD"}, nil
}

func (m *mockCompanyRepo) First(ctx context.Context) (*entity.Company, error) {
	if m.firstFunc != nil {
		return m.firstFunc(ctx)
	}
	return nil, nil
}

type mockUserRepo struct {
	createFunc        func(ctx context.Context, user *entity.User) error
	getByIDFunc       func(ctx context.Context, id int64) (*entity.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*entity.User, error)
	getByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	listByCompanyFunc func(ctx context.Context, companyID int64) ([]*entity.User, error)
	listApproversFunc func(ctx context.Context, companyID int64) ([]*entity.User, error)
	firstAdminFunc    func(ctx context.Context, companyID int64) (*entity.User, error)
	updateManagerFunc func(ctx context.Context, id int64, managerID *int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.User{ID: id, CompanyID: 1, Role: entity.RoleEmployee}, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.getByUsernameFunc != nil {
		return m.getByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error) {
	if m.listByCompanyFunc != nil {
		return m.listByCompanyFunc(ctx, companyID)
	}
	return []*entity.User{}, nil
}

func (m *mockUserRepo) ListApprovers(ctx context.Context, companyID int64) ([]*entity.User, error) {
	if m.listApproversFunc != nil {
		return m.listApproversFunc(ctx, companyID)
	}
	return []*entity.User{}, nil
}

func (m *mockUserRepo) FirstAdmin(ctx context.Context, companyID int64) (*entity.User, error) {
	if m.firstAdminFunc != nil {
		return m.firstAdminFunc(ctx, companyID)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateManager(ctx context.Context, id int64, managerID *int64) error {
	if m.updateManagerFunc != nil {
		return m.updateManagerFunc(ctx, id, managerID)
	}
	return nil
}

type mockExpenseRepo struct {
	createFunc                 func(ctx context.Context, expense *entity.Expense) error
	getByIDFunc                func(ctx context.Context, id int64) (*entity.Expense, error)
	listBySubmitterFunc        func(ctx context.Context, submitterID int64) ([]*entity.Expense, error)
	listPendingForApproverFunc func(ctx context.Context, approverID int64) ([]*entity.Expense, error)
	updateDecisionFunc         func(ctx context.Context, expense *entity.Expense) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, expense)
	}
	expense.ID = 1
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Expense{ID: id, CompanyID: 1, Status: entity.ExpenseStatusPending}, nil
}

func (m *mockExpenseRepo) ListBySubmitter(ctx context.Context, submitterID int64) ([]*entity.Expense, error) {
	if m.listBySubmitterFunc != nil {
		return m.listBySubmitterFunc(ctx, submitterID)
	}
	return []*entity.Expense{}, nil
}

func (m *mockExpenseRepo) ListPendingForApprover(ctx context.Context, approverID int64) ([]*entity.Expense, error) {
	if m.listPendingForApproverFunc != nil {
		return m.listPendingForApproverFunc(ctx, approverID)
	}
	return []*entity.Expense{}, nil
}

func (m *mockExpenseRepo) UpdateDecision(ctx context.Context, expense *entity.Expense) error {
	if m.updateDecisionFunc != nil {
		return m.updateDecisionFunc(ctx, expense)
	}
	return nil
}

type mockApprovalRepo struct {
	createFunc        func(ctx context.Context, approval *entity.Approval) error
	listByExpenseFunc func(ctx context.Context, expenseID int64) ([]*entity.Approval, error)
}

func (m *mockApprovalRepo) Create(ctx context.Context, approval *entity.Approval) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, approval)
	}
	approval.ID = 1
	return nil
}

func (m *mockApprovalRepo) ListByExpense(ctx context.Context, expenseID int64) ([]*entity.Approval, error) {
	if m.listByExpenseFunc != nil {
		return m.listByExpenseFunc(ctx, expenseID)
	}
	return []*entity.Approval{}, nil
}

type mockRuleRepo struct {
	createFunc        func(ctx context.Context, rule *entity.ApprovalRule) error
	getByIDFunc       func(ctx context.Context, id int64) (*entity.ApprovalRule, error)
	listByCompanyFunc func(ctx context.Context, companyID int64) ([]*entity.ApprovalRule, error)
	deleteFunc        func(ctx context.Context, id int64) error
}

func (m *mockRuleRepo) Create(ctx context.Context, rule *entity.ApprovalRule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, rule)
	}
	rule.ID = 1
	return nil
}

func (m *mockRuleRepo) GetByID(ctx context.Context, id int64) (*entity.ApprovalRule, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.ApprovalRule{ID: id, CompanyID: 1}, nil
}

func (m *mockRuleRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.ApprovalRule, error) {
	if m.listByCompanyFunc != nil {
		return m.listByCompanyFunc(ctx, companyID)
	}
	return []*entity.ApprovalRule{}, nil
}

func (m *mockRuleRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// Mock external providers

type mockRateProvider struct {
	ratesFunc func(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

func (m *mockRateProvider) RatesRelativeTo(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	if m.ratesFunc != nil {
		return m.ratesFunc(ctx, base)
	}
	return map[string]decimal.Decimal{}, nil
}

type mockCountryProvider struct {
	currencyForFunc func(ctx context.Context, country string) (string, error)
}

func (m *mockCountryProvider) CurrencyFor(ctx context.Context, country string) (string, error) {
	if m.currencyForFunc != nil {
		return m.currencyForFunc(ctx, country)
	}
	return "USD", nil
}

type mockHasher struct {
	hashFunc    func(plain string) (string, error)
	compareFunc func(hash, plain string) error
}

func (m *mockHasher) Hash(plain string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(plain)
	}
	return "hashed:" + plain, nil
}

func (m *mockHasher) Compare(hash, plain string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, plain)
	}
	if hash != "hashed:"+plain {
		return fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	return nil
}

type mockTokenManager struct {
	issueFunc  func(principal entity.Principal) (string, error)
	verifyFunc func(token string) (entity.Principal, error)
}

func (m *mockTokenManager) Issue(principal entity.Principal) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(principal)
	}
	return fmt.Sprintf("token-%d", principal.UserID), nil
}

func (m *mockTokenManager) Verify(token string) (entity.Principal, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(token)
	}
	return entity.Principal{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
}
