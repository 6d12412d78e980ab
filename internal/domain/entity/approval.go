package entity

import "time"

// Approval is an immutable decision record. Records accumulate per expense
// under multi-step rules and form an append-only audit trail; they are never
// updated and only removed by cascade when the owning expense is deleted.
type Approval struct {
	ID         int64     `json:"id"`
	ExpenseID  int64     `json:"expense_id"`
	ApproverID int64     `json:"approver_id"`
	Decision   string    `json:"decision"`
	Comment    string    `json:"comment,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}
