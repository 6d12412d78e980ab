package port

import (
	"context"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

// CompanyRepository defines persistence operations for Company
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id int64) (*entity.Company, error)

	// First returns the earliest created company, or nil if none exists.
	// Initial signup is only valid while no company exists.
	First(ctx context.Context) (*entity.Company, error)
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error)

	// ListApprovers returns the company's approver pool ordered by id.
	ListApprovers(ctx context.Context, companyID int64) ([]*entity.User, error)

	// FirstAdmin returns the admin with the lowest id, or nil if none exists.
	FirstAdmin(ctx context.Context, companyID int64) (*entity.User, error)

	UpdateManager(ctx context.Context, id int64, managerID *int64) error
}

// ExpenseRepository defines persistence operations for Expense
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id int64) (*entity.Expense, error)
	ListBySubmitter(ctx context.Context, submitterID int64) ([]*entity.Expense, error)
	ListPendingForApprover(ctx context.Context, approverID int64) ([]*entity.Expense, error)

	// UpdateDecision persists status/current-approver after a decision. The
	// update carries an optimistic version check; a stale version yields
	// apperr.ErrConflict and must roll back the surrounding transaction.
	UpdateDecision(ctx context.Context, expense *entity.Expense) error
}

// ApprovalRepository defines persistence operations for Approval. Records are
// append-only; there are no update or delete operations.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	ListByExpense(ctx context.Context, expenseID int64) ([]*entity.Approval, error)
}

// RuleRepository defines persistence operations for ApprovalRule
type RuleRepository interface {
	Create(ctx context.Context, rule *entity.ApprovalRule) error
	GetByID(ctx context.Context, id int64) (*entity.ApprovalRule, error)

	// ListByCompany returns rules ordered ascending by sequence.
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.ApprovalRule, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
