// Package report renders expense statements to xlsx workbooks.
package report

import (
	"fmt"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Expenses"

var headers = []string{"Date", "Category", "Description", "Amount", "Currency", "Converted Amount", "Status"}

// StatementWriter renders a user's expenses to a spreadsheet
type StatementWriter struct {
	logger *zap.Logger
}

// NewStatementWriter creates a new statement writer
func NewStatementWriter(logger *zap.Logger) *StatementWriter {
	return &StatementWriter{logger: logger}
}

// Build renders the statement workbook. Converted amounts are labeled with
// the company base currency; unconverted fallback amounts keep their
// original currency and are marked for reconciliation.
func (w *StatementWriter) Build(company *entity.Company, expenses []*entity.Expense) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, expense := range expenses {
		row := i + 2
		convertedLabel := fmt.Sprintf("%s %s", expense.ConvertedAmount.StringFixed(2), company.BaseCurrencyCode)
		if !expense.Converted {
			convertedLabel = fmt.Sprintf("%s %s (unconverted)", expense.ConvertedAmount.StringFixed(2), expense.CurrencyCode)
		}

		values := []interface{}{
			expense.ExpenseDate.Format("2006-01-02"),
			expense.Category,
			expense.Description,
			expense.Amount.StringFixed(2),
			expense.CurrencyCode,
			convertedLabel,
			expense.Status,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	w.logger.Debug("Statement built",
		zap.Int64("company_id", company.ID),
		zap.Int("expenses", len(expenses)))
	return f, nil
}
