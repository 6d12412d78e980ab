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

// CompanyRepository implements port.CompanyRepository
type CompanyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sql.DB, logger *zap.Logger) port.CompanyRepository {
	return &CompanyRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new company. The base currency code is written once here
// and never updated; there is deliberately no update operation.
func (r *CompanyRepository) Create(ctx context.Context, company *entity.Company) error {
	query := `INSERT INTO companies (name, base_currency_code) VALUES (?, ?)`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query,
		company.Name,
		company.BaseCurrencyCode,
	)
	if err != nil {
		r.logger.Error("Failed to create company", zap.Error(err))
		return fmt.Errorf("failed to create company: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	company.ID = id
	return nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	query := `SELECT id, name, base_currency_code, created_at FROM companies WHERE id = ?`

	var company entity.Company
	err := sqlite.Executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.BaseCurrencyCode,
		&company.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: company %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get company", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// First returns the earliest created company, or nil if none exists
func (r *CompanyRepository) First(ctx context.Context) (*entity.Company, error) {
	query := `SELECT id, name, base_currency_code, created_at FROM companies ORDER BY id ASC LIMIT 1`

	var company entity.Company
	err := sqlite.Executor(ctx, r.db).QueryRowContext(ctx, query).Scan(
		&company.ID,
		&company.Name,
		&company.BaseCurrencyCode,
		&company.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get first company", zap.Error(err))
		return nil, fmt.Errorf("failed to get first company: %w", err)
	}

	return &company, nil
}

// Verify interface compliance
var _ port.CompanyRepository = (*CompanyRepository)(nil)
