package service

import (
	"context"
	"fmt"
	"time"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/application/routing"
	"github.com/expenseflow/expenseflow/internal/currency"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubmitExpenseInput carries a new expense submission
type SubmitExpenseInput struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	ExpenseDate  time.Time       `json:"expense_date"`
}

// ExpenseService coordinates expense submission and decision events
type ExpenseService interface {
	Submit(ctx context.Context, principal entity.Principal, input SubmitExpenseInput) (*entity.Expense, error)
	Decide(ctx context.Context, principal entity.Principal, expenseID int64, decision, comment string) (*entity.Expense, error)
	MyExpenses(ctx context.Context, principal entity.Principal) ([]*entity.Expense, error)
	PendingFor(ctx context.Context, principal entity.Principal) ([]*entity.Expense, error)
	Trail(ctx context.Context, principal entity.Principal, expenseID int64) ([]*entity.Approval, error)
}

type expenseServiceImpl struct {
	expenseRepo  port.ExpenseRepository
	approvalRepo port.ApprovalRepository
	userRepo     port.UserRepository
	ruleRepo     port.RuleRepository
	companyRepo  port.CompanyRepository
	converter    *currency.Converter
	router       *routing.Router
	txManager    port.TransactionManager
	logger       *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo port.ExpenseRepository,
	approvalRepo port.ApprovalRepository,
	userRepo port.UserRepository,
	ruleRepo port.RuleRepository,
	companyRepo port.CompanyRepository,
	converter *currency.Converter,
	router *routing.Router,
	txManager port.TransactionManager,
	logger *zap.Logger,
) ExpenseService {
	return &expenseServiceImpl{
		expenseRepo:  expenseRepo,
		approvalRepo: approvalRepo,
		userRepo:     userRepo,
		ruleRepo:     ruleRepo,
		companyRepo:  companyRepo,
		converter:    converter,
		router:       router,
		txManager:    txManager,
		logger:       logger,
	}
}

// Submit validates the claim, converts the amount into the company base
// currency and routes the first approver. Everything is persisted in one
// transaction; a failure leaves no partial expense behind.
func (s *expenseServiceImpl) Submit(ctx context.Context, principal entity.Principal, input SubmitExpenseInput) (*entity.Expense, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	submitter, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.GetByID(ctx, submitter.CompanyID)
	if err != nil {
		return nil, err
	}

	converted, ok := s.converter.Convert(ctx, input.Amount, input.CurrencyCode, company.BaseCurrencyCode)

	var manager *entity.User
	if submitter.ManagerID != nil {
		manager, err = s.userRepo.GetByID(ctx, *submitter.ManagerID)
		if err != nil {
			return nil, err
		}
	}

	firstAdmin, err := s.userRepo.FirstAdmin(ctx, submitter.CompanyID)
	if err != nil {
		return nil, err
	}

	expense := &entity.Expense{
		CompanyID:         submitter.CompanyID,
		SubmitterID:       submitter.ID,
		Amount:            input.Amount,
		CurrencyCode:      input.CurrencyCode,
		ConvertedAmount:   converted,
		Converted:         ok,
		Category:          input.Category,
		Description:       input.Description,
		ExpenseDate:       input.ExpenseDate,
		Status:            entity.ExpenseStatusPending,
		CurrentApproverID: s.router.FirstApprover(submitter, manager, firstAdmin),
		SubmittedAt:       time.Now(),
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.expenseRepo.Create(txCtx, expense)
	})
	if err != nil {
		s.logger.Error("Failed to submit expense", zap.Int64("submitter_id", submitter.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Expense submitted",
		zap.Int64("expense_id", expense.ID),
		zap.Int64("submitter_id", submitter.ID),
		zap.String("amount", expense.Amount.String()),
		zap.String("currency", expense.CurrencyCode),
		zap.Bool("converted", expense.Converted))
	return expense, nil
}

// Decide applies one approval or rejection from the current approver. The
// approval record and the expense update commit atomically; the optimistic
// version check inside UpdateDecision rejects concurrent decisions.
func (s *expenseServiceImpl) Decide(ctx context.Context, principal entity.Principal, expenseID int64, decision, comment string) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CompanyID != principal.CompanyID {
		return nil, fmt.Errorf("%w: expense %d", apperr.ErrNotFound, expenseID)
	}

	actor, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	prior, err := s.approvalRepo.ListByExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	ruleList, err := s.ruleRepo.ListByCompany(ctx, expense.CompanyID)
	if err != nil {
		return nil, err
	}

	pool, err := s.userRepo.ListApprovers(ctx, expense.CompanyID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.router.Advance(ctx, expense, actor, decision, comment, prior, ruleList, pool)
	if err != nil {
		return nil, err
	}

	record := &entity.Approval{
		ExpenseID:  expense.ID,
		ApproverID: actor.ID,
		Decision:   decision,
		Comment:    comment,
		DecidedAt:  time.Now(),
	}

	expense.Status = string(outcome.State)
	expense.CurrentApproverID = outcome.NextApproverID

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.approvalRepo.Create(txCtx, record); err != nil {
			return err
		}
		return s.expenseRepo.UpdateDecision(txCtx, expense)
	})
	if err != nil {
		s.logger.Error("Failed to record decision",
			zap.Int64("expense_id", expense.ID),
			zap.Int64("approver_id", actor.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Decision recorded",
		zap.Int64("expense_id", expense.ID),
		zap.Int64("approver_id", actor.ID),
		zap.String("decision", decision),
		zap.String("status", expense.Status))
	return expense, nil
}

// MyExpenses lists the principal's own submissions
func (s *expenseServiceImpl) MyExpenses(ctx context.Context, principal entity.Principal) ([]*entity.Expense, error) {
	return s.expenseRepo.ListBySubmitter(ctx, principal.UserID)
}

// PendingFor lists pending expenses awaiting the principal's decision
func (s *expenseServiceImpl) PendingFor(ctx context.Context, principal entity.Principal) ([]*entity.Expense, error) {
	return s.expenseRepo.ListPendingForApprover(ctx, principal.UserID)
}

// Trail returns the audit trail of an expense in the principal's company
func (s *expenseServiceImpl) Trail(ctx context.Context, principal entity.Principal, expenseID int64) ([]*entity.Approval, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CompanyID != principal.CompanyID {
		return nil, fmt.Errorf("%w: expense %d", apperr.ErrNotFound, expenseID)
	}
	return s.approvalRepo.ListByExpense(ctx, expenseID)
}

func validateSubmission(input SubmitExpenseInput) error {
	if !input.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperr.ErrValidation)
	}
	if len(input.CurrencyCode) != 3 {
		return fmt.Errorf("%w: currency code must be an ISO 4217 code", apperr.ErrValidation)
	}
	if !entity.IsValidCategory(input.Category) {
		return fmt.Errorf("%w: unknown category %q", apperr.ErrValidation, input.Category)
	}
	if input.ExpenseDate.IsZero() {
		return fmt.Errorf("%w: expense date is required", apperr.ErrValidation)
	}
	return nil
}
