// Package rules evaluates a company's approval rules against the decisions
// recorded so far on an expense.
package rules

import (
	"sort"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

// Evaluator decides whether a single rule step is satisfied by the
// accumulated approvals. It is stateless and safe for concurrent use.
type Evaluator struct{}

// NewEvaluator creates a rule evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// IsSatisfied reports whether the rule is satisfied by the approvals recorded
// so far. The pool is the set of required approvers for percentage math.
// A recorded rejection makes any rule unsatisfiable; the router terminates
// the workflow before evaluation, this is a backstop.
func (e *Evaluator) IsSatisfied(rule *entity.ApprovalRule, pool []*entity.User, approvals []*entity.Approval) bool {
	for _, a := range approvals {
		if a.Decision == entity.DecisionRejected {
			return false
		}
	}

	switch rule.Kind {
	case entity.RuleKindSpecificApprover:
		return e.specificSatisfied(rule, approvals)
	case entity.RuleKindPercentage:
		return e.percentageSatisfied(rule, pool, approvals)
	case entity.RuleKindHybrid:
		// Logical OR: an early approval by the designated approver
		// short-circuits the percentage requirement.
		return e.specificSatisfied(rule, approvals) || e.percentageSatisfied(rule, pool, approvals)
	default:
		return false
	}
}

func (e *Evaluator) specificSatisfied(rule *entity.ApprovalRule, approvals []*entity.Approval) bool {
	if rule.SpecificApproverID == nil {
		return false
	}
	for _, a := range approvals {
		if a.Decision == entity.DecisionApproved && a.ApproverID == *rule.SpecificApproverID {
			return true
		}
	}
	return false
}

func (e *Evaluator) percentageSatisfied(rule *entity.ApprovalRule, pool []*entity.User, approvals []*entity.Approval) bool {
	if rule.PercentageThreshold == nil || len(pool) == 0 {
		return false
	}

	members := make(map[int64]bool, len(pool))
	for _, u := range pool {
		members[u.ID] = true
	}

	approved := 0
	for _, a := range approvals {
		if a.Decision == entity.DecisionApproved && members[a.ApproverID] {
			approved++
		}
	}

	return approved*100 >= *rule.PercentageThreshold*len(pool)
}

// SortBySequence orders rules ascending by their step sequence.
func SortBySequence(list []*entity.ApprovalRule) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Sequence < list[j].Sequence
	})
}

// Decided returns the set of approver ids that already recorded a decision.
func Decided(approvals []*entity.Approval) map[int64]bool {
	decided := make(map[int64]bool, len(approvals))
	for _, a := range approvals {
		decided[a.ApproverID] = true
	}
	return decided
}
