package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

const expenseColumns = `id, company_id, submitter_id, amount, currency_code, converted_amount,
	converted, category, description, expense_date, status, current_approver_id, version, submitted_at`

// ExpenseRepository implements port.ExpenseRepository. Amounts are stored as
// TEXT so decimal values round-trip without float drift.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) port.ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (
			company_id, submitter_id, amount, currency_code, converted_amount,
			converted, category, description, expense_date, status, current_approver_id, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query,
		expense.CompanyID,
		expense.SubmitterID,
		expense.Amount.String(),
		expense.CurrencyCode,
		expense.ConvertedAmount.String(),
		expense.Converted,
		expense.Category,
		expense.Description,
		expense.ExpenseDate,
		expense.Status,
		expense.CurrentApproverID,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	expense.ID = id
	expense.Version = 1
	return nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

	rows, err := sqlite.Executor(ctx, r.db).QueryContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to get expense", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get expense: %w", err)
		}
		return nil, fmt.Errorf("%w: expense %d", apperr.ErrNotFound, id)
	}

	expense, err := scanExpense(rows)
	if err != nil {
		return nil, err
	}
	return expense, rows.Err()
}

// ListBySubmitter retrieves all expenses submitted by a user, newest first
func (r *ExpenseRepository) ListBySubmitter(ctx context.Context, submitterID int64) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE submitter_id = ? ORDER BY submitted_at DESC, id DESC`
	return r.list(ctx, query, submitterID)
}

// ListPendingForApprover retrieves pending expenses awaiting a user's decision
func (r *ExpenseRepository) ListPendingForApprover(ctx context.Context, approverID int64) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE current_approver_id = ? AND status = ? ORDER BY submitted_at ASC, id ASC`
	return r.list(ctx, query, approverID, entity.ExpenseStatusPending)
}

// UpdateDecision persists the post-decision state under an optimistic version
// check. A concurrent decision bumps the version first, making this update
// match zero rows; that surfaces as ErrConflict and rolls the caller back.
func (r *ExpenseRepository) UpdateDecision(ctx context.Context, expense *entity.Expense) error {
	query := `
		UPDATE expenses
		SET status = ?, current_approver_id = ?, version = version + 1
		WHERE id = ? AND version = ?
	`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query,
		expense.Status,
		expense.CurrentApproverID,
		expense.ID,
		expense.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update expense decision", zap.Int64("id", expense.ID), zap.Error(err))
		return fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d was modified concurrently", apperr.ErrConflict, expense.ID)
	}

	expense.Version++
	return nil
}

func (r *ExpenseRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Expense, error) {
	rows, err := sqlite.Executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func scanExpense(rows *sql.Rows) (*entity.Expense, error) {
	var expense entity.Expense
	var approverID sql.NullInt64

	err := rows.Scan(
		&expense.ID,
		&expense.CompanyID,
		&expense.SubmitterID,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.ConvertedAmount,
		&expense.Converted,
		&expense.Category,
		&expense.Description,
		&expense.ExpenseDate,
		&expense.Status,
		&approverID,
		&expense.Version,
		&expense.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	if approverID.Valid {
		expense.CurrentApproverID = &approverID.Int64
	}
	return &expense, nil
}

// Verify interface compliance
var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
