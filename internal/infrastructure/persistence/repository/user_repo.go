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

const userColumns = `id, username, email, password_hash, role, company_id, manager_id, is_approver, created_at`

// UserRepository implements port.UserRepository
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, company_id, manager_id, is_approver)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CompanyID,
		user.ManagerID,
		user.IsApprover,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := r.scanOne(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	return user, nil
}

// GetByUsername retrieves a user by unique username, or nil when unknown
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanOne(ctx, query, username)
}

// GetByEmail retrieves a user by unique email, or nil when unknown
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(ctx, query, email)
}

// ListByCompany retrieves all users of a company ordered by id
func (r *UserRepository) ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = ? ORDER BY id ASC`
	return r.scanMany(ctx, query, companyID)
}

// ListApprovers returns the company's approver pool ordered by id
func (r *UserRepository) ListApprovers(ctx context.Context, companyID int64) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = ? AND is_approver = 1 ORDER BY id ASC`
	return r.scanMany(ctx, query, companyID)
}

// FirstAdmin returns the admin with the lowest id, or nil if none exists
func (r *UserRepository) FirstAdmin(ctx context.Context, companyID int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = ? AND role = ? ORDER BY id ASC LIMIT 1`
	return r.scanOne(ctx, query, companyID, entity.RoleAdmin)
}

// UpdateManager sets or clears a user's manager reference
func (r *UserRepository) UpdateManager(ctx context.Context, id int64, managerID *int64) error {
	query := `UPDATE users SET manager_id = ? WHERE id = ?`

	result, err := sqlite.Executor(ctx, r.db).ExecContext(ctx, query, managerID, id)
	if err != nil {
		r.logger.Error("Failed to update manager", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update manager: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}

	return nil
}

func (r *UserRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	var user entity.User
	var managerID sql.NullInt64

	err := sqlite.Executor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CompanyID,
		&managerID,
		&user.IsApprover,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to query user", zap.Error(err))
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if managerID.Valid {
		user.ManagerID = &managerID.Int64
	}
	return &user, nil
}

func (r *UserRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entity.User, error) {
	rows, err := sqlite.Executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		var managerID sql.NullInt64

		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.CompanyID,
			&managerID,
			&user.IsApprover,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		if managerID.Valid {
			user.ManagerID = &managerID.Int64
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
