// Package routing decides who must approve an expense next and how decision
// events advance or terminate the approval workflow.
package routing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/domain/rules"
	"github.com/expenseflow/expenseflow/internal/domain/workflow"
	"go.uber.org/zap"
)

// Router is the approval state machine. It holds no persistent state of its
// own; callers load the expense, its recorded approvals, the company rules
// and the approver pool, and the router computes the next state.
type Router struct {
	evaluator *rules.Evaluator
	logger    *zap.Logger
}

// Outcome describes the state an expense should move to after a decision.
type Outcome struct {
	State          workflow.State
	NextApproverID *int64
}

// NewRouter creates a new approval router
func NewRouter(evaluator *rules.Evaluator, logger *zap.Logger) *Router {
	return &Router{
		evaluator: evaluator,
		logger:    logger,
	}
}

// FirstApprover selects the approver for a freshly submitted expense: the
// submitter's manager when flagged as approver, otherwise the company admin
// with the lowest id. Returns nil when neither exists; the expense then stays
// pending without an approver and needs manual intervention.
func (r *Router) FirstApprover(submitter, manager, firstAdmin *entity.User) *int64 {
	if manager != nil && manager.IsApprover {
		return &manager.ID
	}
	if firstAdmin != nil {
		return &firstAdmin.ID
	}

	r.logger.Warn("No routable approver for submission, expense will need manual intervention",
		zap.Int64("submitter_id", submitter.ID),
		zap.Int64("company_id", submitter.CompanyID))
	return nil
}

// Advance applies one decision event from the expense's current approver and
// returns the resulting outcome. Decisions from anyone else, or against a
// terminal expense, produce an error and no state change. The decision being
// applied is included in rule evaluation; prior is the audit trail recorded
// so far, excluding it.
func (r *Router) Advance(
	ctx context.Context,
	expense *entity.Expense,
	actor *entity.User,
	decision, comment string,
	prior []*entity.Approval,
	ruleList []*entity.ApprovalRule,
	pool []*entity.User,
) (*Outcome, error) {
	machine, err := workflow.NewExpenseMachine(workflow.State(expense.Status))
	if err != nil {
		return nil, fmt.Errorf("%w: expense %d has status %q", apperr.ErrConflict, expense.ID, expense.Status)
	}

	if machine.State().IsTerminal() {
		return nil, fmt.Errorf("%w: expense %d is already %s", apperr.ErrConflict, expense.ID, expense.Status)
	}

	if expense.CurrentApproverID == nil || *expense.CurrentApproverID != actor.ID {
		return nil, fmt.Errorf("%w: user %d is not the current approver of expense %d",
			apperr.ErrUnauthorized, actor.ID, expense.ID)
	}

	switch decision {
	case entity.DecisionRejected:
		if strings.TrimSpace(comment) == "" {
			return nil, fmt.Errorf("%w: a comment is required when rejecting", apperr.ErrValidation)
		}
		if err := machine.Fire(ctx, workflow.TriggerReject); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
		return &Outcome{State: workflow.StateRejected}, nil

	case entity.DecisionApproved:
		outcome := r.routeApproval(expense, actor, prior, ruleList, pool)
		trigger := workflow.TriggerApprove
		if outcome.State == workflow.StatePending {
			trigger = workflow.TriggerAdvance
		}
		if err := machine.Fire(ctx, trigger); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
		return outcome, nil

	default:
		return nil, fmt.Errorf("%w: unknown decision %q", apperr.ErrValidation, decision)
	}
}

// routeApproval evaluates the company rules in ascending sequence order with
// the new approval included. The first unsatisfied rule determines the next
// required approver; when every rule is satisfied the expense is approved.
// With no rules configured a single approval is sufficient.
func (r *Router) routeApproval(
	expense *entity.Expense,
	actor *entity.User,
	prior []*entity.Approval,
	ruleList []*entity.ApprovalRule,
	pool []*entity.User,
) *Outcome {
	all := append(append([]*entity.Approval{}, prior...), &entity.Approval{
		ExpenseID:  expense.ID,
		ApproverID: actor.ID,
		Decision:   entity.DecisionApproved,
	})

	if len(ruleList) == 0 {
		return &Outcome{State: workflow.StateApproved}
	}

	ordered := append([]*entity.ApprovalRule{}, ruleList...)
	rules.SortBySequence(ordered)

	decided := rules.Decided(all)
	for _, rule := range ordered {
		if r.evaluator.IsSatisfied(rule, pool, all) {
			continue
		}

		next := r.nextApprover(rule, pool, decided)
		if next == nil {
			// Pool exhausted without the step failing; park the expense
			// as unroutable-pending rather than guess an outcome.
			r.logger.Warn("Approver pool exhausted with rule unsatisfied",
				zap.Int64("expense_id", expense.ID),
				zap.Int64("rule_id", rule.ID),
				zap.String("rule_kind", rule.Kind))
		}
		return &Outcome{State: workflow.StatePending, NextApproverID: next}
	}

	return &Outcome{State: workflow.StateApproved}
}

// nextApprover picks who must decide next under an unsatisfied rule. The
// designated approver of specific/hybrid rules comes first; otherwise the
// undecided pool member with the lowest id (deterministic tie-break).
func (r *Router) nextApprover(rule *entity.ApprovalRule, pool []*entity.User, decided map[int64]bool) *int64 {
	if rule.RequiresSpecificApprover() && rule.SpecificApproverID != nil && !decided[*rule.SpecificApproverID] {
		id := *rule.SpecificApproverID
		return &id
	}

	candidates := append([]*entity.User{}, pool...)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	for _, u := range candidates {
		if !decided[u.ID] {
			id := u.ID
			return &id
		}
	}
	return nil
}
