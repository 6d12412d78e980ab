package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ApprovalRepository implements port.ApprovalRepository. The table is an
// append-only audit trail; rows are only removed by the ON DELETE CASCADE of
// the owning expense.
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

// Create records an immutable decision
func (r *ApprovalRepository) Create(ctx context.Context, approval *entity.Approval) error {
	query := `INSERT INTO approvals (expense_id, approver_id, decision, comment) VALUES (?, ?, ?, ?)`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query,
		approval.ExpenseID,
		approval.ApproverID,
		approval.Decision,
		approval.Comment,
	)
	if err != nil {
		r.logger.Error("Failed to create approval", zap.Int64("expense_id", approval.ExpenseID), zap.Error(err))
		return fmt.Errorf("failed to create approval: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	approval.ID = id
	return nil
}

// ListByExpense retrieves the decision trail of an expense in recording order
func (r *ApprovalRepository) ListByExpense(ctx context.Context, expenseID int64) ([]*entity.Approval, error) {
	query := `SELECT id, expense_id, approver_id, decision, comment, decided_at
		FROM approvals WHERE expense_id = ? ORDER BY id ASC`

	rows, err := sqlite.Executor(ctx, r.db).QueryContext(ctx, query, expenseID)
	if err != nil {
		r.logger.Error("Failed to list approvals", zap.Int64("expense_id", expenseID), zap.Error(err))
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*entity.Approval
	for rows.Next() {
		var approval entity.Approval
		var comment sql.NullString

		err := rows.Scan(
			&approval.ID,
			&approval.ExpenseID,
			&approval.ApproverID,
			&approval.Decision,
			&comment,
			&approval.DecidedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}

		approval.Comment = comment.String
		approvals = append(approvals, &approval)
	}

	return approvals, rows.Err()
}

// Verify interface compliance
var _ port.ApprovalRepository = (*ApprovalRepository)(nil)
