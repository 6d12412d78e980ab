package entity

import "time"

// ApprovalRule defines one step of a company's approval chain. Sequence is
// unique per company and rules are evaluated in ascending sequence order.
// PercentageThreshold is required for PERCENTAGE and HYBRID kinds,
// SpecificApproverID for SPECIFIC_APPROVER and HYBRID kinds.
type ApprovalRule struct {
	ID                  int64     `json:"id"`
	CompanyID           int64     `json:"company_id"`
	Name                string    `json:"name"`
	Kind                string    `json:"kind"`
	PercentageThreshold *int      `json:"percentage_threshold,omitempty"`
	SpecificApproverID  *int64    `json:"specific_approver_id,omitempty"`
	Sequence            int       `json:"sequence"`
	CreatedAt           time.Time `json:"created_at"`
}

// RequiresThreshold reports whether the rule kind needs a percentage threshold.
func (r *ApprovalRule) RequiresThreshold() bool {
	return r.Kind == RuleKindPercentage || r.Kind == RuleKindHybrid
}

// RequiresSpecificApprover reports whether the rule kind needs a designated approver.
func (r *ApprovalRule) RequiresSpecificApprover() bool {
	return r.Kind == RuleKindSpecificApprover || r.Kind == RuleKindHybrid
}
