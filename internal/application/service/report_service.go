package service

import (
	"context"

	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/report"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportService builds downloadable expense statements
type ReportService interface {
	Statement(ctx context.Context, principal entity.Principal) (*excelize.File, error)
}

type reportServiceImpl struct {
	expenseRepo port.ExpenseRepository
	companyRepo port.CompanyRepository
	writer      *report.StatementWriter
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	expenseRepo port.ExpenseRepository,
	companyRepo port.CompanyRepository,
	writer *report.StatementWriter,
	logger *zap.Logger,
) ReportService {
	return &reportServiceImpl{
		expenseRepo: expenseRepo,
		companyRepo: companyRepo,
		writer:      writer,
		logger:      logger,
	}
}

// Statement renders the principal's own expenses as an xlsx workbook
func (s *reportServiceImpl) Statement(ctx context.Context, principal entity.Principal) (*excelize.File, error) {
	company, err := s.companyRepo.GetByID(ctx, principal.CompanyID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.ListBySubmitter(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Building expense statement",
		zap.Int64("user_id", principal.UserID),
		zap.Int("expenses", len(expenses)))
	return s.writer.Build(company, expenses)
}
