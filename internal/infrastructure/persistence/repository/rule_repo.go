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

const ruleColumns = `id, company_id, name, kind, percentage_threshold, specific_approver_id, sequence, created_at`

// RuleRepository implements port.RuleRepository
type RuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *sql.DB, logger *zap.Logger) port.RuleRepository {
	return &RuleRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new approval rule. The unique (company_id, sequence) index
// rejects duplicate step numbers.
func (r *RuleRepository) Create(ctx context.Context, rule *entity.ApprovalRule) error {
	query := `
		INSERT INTO approval_rules (company_id, name, kind, percentage_threshold, specific_approver_id, sequence)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query,
		rule.CompanyID,
		rule.Name,
		rule.Kind,
		rule.PercentageThreshold,
		rule.SpecificApproverID,
		rule.Sequence,
	)
	if err != nil {
		r.logger.Error("Failed to create rule", zap.String("name", rule.Name), zap.Error(err))
		return fmt.Errorf("failed to create rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	return nil
}

// GetByID retrieves a rule by ID
func (r *RuleRepository) GetByID(ctx context.Context, id int64) (*entity.ApprovalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM approval_rules WHERE id = ?`

	var rule entity.ApprovalRule
	var threshold sql.NullInt64
	var approverID sql.NullInt64

	err := sqlite.Executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&rule.ID,
		&rule.CompanyID,
		&rule.Name,
		&rule.Kind,
		&threshold,
		&approverID,
		&rule.Sequence,
		&rule.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: rule %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get rule", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	if threshold.Valid {
		v := int(threshold.Int64)
		rule.PercentageThreshold = &v
	}
	if approverID.Valid {
		rule.SpecificApproverID = &approverID.Int64
	}
	return &rule, nil
}

// ListByCompany retrieves a company's rules ascending by sequence
func (r *RuleRepository) ListByCompany(ctx context.Context, companyID int64) ([]*entity.ApprovalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM approval_rules WHERE company_id = ? ORDER BY sequence ASC`

	rows, err := sqlite.Executor(ctx, r.db).QueryContext(ctx, query, companyID)
	if err != nil {
		r.logger.Error("Failed to list rules", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var list []*entity.ApprovalRule
	for rows.Next() {
		var rule entity.ApprovalRule
		var threshold sql.NullInt64
		var approverID sql.NullInt64

		err := rows.Scan(
			&rule.ID,
			&rule.CompanyID,
			&rule.Name,
			&rule.Kind,
			&threshold,
			&approverID,
			&rule.Sequence,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		if threshold.Valid {
			v := int(threshold.Int64)
			rule.PercentageThreshold = &v
		}
		if approverID.Valid {
			rule.SpecificApproverID = &approverID.Int64
		}
		list = append(list, &rule)
	}

	return list, rows.Err()
}

// Delete removes a rule
func (r *RuleRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM approval_rules WHERE id = ?`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete rule", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rule %d", apperr.ErrNotFound, id)
	}

	return nil
}

// Verify interface compliance
var _ port.RuleRepository = (*RuleRepository)(nil)
