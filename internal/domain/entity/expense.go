package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a submitted claim moving through the approval workflow.
// ConvertedAmount is computed once at submission in the company base currency
// and immutable thereafter. CurrentApproverID is set iff Status is PENDING;
// it may still be nil for a pending expense when no approver could be routed.
// Version backs the optimistic lock used to serialize decision transitions.
type Expense struct {
	ID                int64           `json:"id"`
	CompanyID         int64           `json:"company_id"`
	SubmitterID       int64           `json:"submitter_id"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currency_code"`
	ConvertedAmount   decimal.Decimal `json:"converted_amount"`
	Converted         bool            `json:"converted"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	ExpenseDate       time.Time       `json:"expense_date"`
	Status            string          `json:"status"`
	CurrentApproverID *int64          `json:"current_approver_id,omitempty"`
	Version           int64           `json:"-"`
	SubmittedAt       time.Time       `json:"submitted_at"`
}

// IsTerminal reports whether the expense accepts no further decisions.
func (e *Expense) IsTerminal() bool {
	return e.Status == ExpenseStatusApproved || e.Status == ExpenseStatusRejected
}
