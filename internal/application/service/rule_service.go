package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"go.uber.org/zap"
)

// CreateRuleInput carries a new approval rule
type CreateRuleInput struct {
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	PercentageThreshold *int   `json:"percentage_threshold,omitempty"`
	SpecificApproverID  *int64 `json:"specific_approver_id,omitempty"`
	Sequence            int    `json:"sequence"`
}

// RuleService manages a company's approval rules
type RuleService interface {
	Create(ctx context.Context, principal entity.Principal, input CreateRuleInput) (*entity.ApprovalRule, error)
	List(ctx context.Context, principal entity.Principal) ([]*entity.ApprovalRule, error)
	Delete(ctx context.Context, principal entity.Principal, ruleID int64) error
}

type ruleServiceImpl struct {
	ruleRepo  port.RuleRepository
	userRepo  port.UserRepository
	txManager port.TransactionManager
	logger    *zap.Logger
}

// NewRuleService creates a new RuleService
func NewRuleService(
	ruleRepo port.RuleRepository,
	userRepo port.UserRepository,
	txManager port.TransactionManager,
	logger *zap.Logger,
) RuleService {
	return &ruleServiceImpl{
		ruleRepo:  ruleRepo,
		userRepo:  userRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create adds an approval rule step to the admin's company
func (s *ruleServiceImpl) Create(ctx context.Context, principal entity.Principal, input CreateRuleInput) (*entity.ApprovalRule, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can manage rules", apperr.ErrUnauthorized)
	}

	rule := &entity.ApprovalRule{
		CompanyID:           principal.CompanyID,
		Name:                input.Name,
		Kind:                input.Kind,
		PercentageThreshold: input.PercentageThreshold,
		SpecificApproverID:  input.SpecificApproverID,
		Sequence:            input.Sequence,
	}

	if err := s.validateRule(ctx, principal, rule); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.ruleRepo.Create(txCtx, rule)
	})
	if err != nil {
		s.logger.Error("Failed to create rule", zap.String("name", rule.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Approval rule created",
		zap.Int64("rule_id", rule.ID),
		zap.String("kind", rule.Kind),
		zap.Int("sequence", rule.Sequence))
	return rule, nil
}

// List returns the company's rules ascending by sequence
func (s *ruleServiceImpl) List(ctx context.Context, principal entity.Principal) ([]*entity.ApprovalRule, error) {
	return s.ruleRepo.ListByCompany(ctx, principal.CompanyID)
}

// Delete removes a rule from the admin's company
func (s *ruleServiceImpl) Delete(ctx context.Context, principal entity.Principal, ruleID int64) error {
	if !principal.IsAdmin() {
		return fmt.Errorf("%w: only admins can manage rules", apperr.ErrUnauthorized)
	}

	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return err
	}
	if rule.CompanyID != principal.CompanyID {
		return fmt.Errorf("%w: rule %d", apperr.ErrNotFound, ruleID)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.ruleRepo.Delete(txCtx, ruleID)
	})
}

func (s *ruleServiceImpl) validateRule(ctx context.Context, principal entity.Principal, rule *entity.ApprovalRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: rule name is required", apperr.ErrValidation)
	}
	if !entity.IsValidRuleKind(rule.Kind) {
		return fmt.Errorf("%w: unknown rule kind %q", apperr.ErrValidation, rule.Kind)
	}
	if rule.Sequence <= 0 {
		return fmt.Errorf("%w: sequence must be positive", apperr.ErrValidation)
	}

	if rule.RequiresThreshold() {
		if rule.PercentageThreshold == nil {
			return fmt.Errorf("%w: percentage threshold is required for %s rules", apperr.ErrValidation, rule.Kind)
		}
		if *rule.PercentageThreshold <= 0 || *rule.PercentageThreshold > 100 {
			return fmt.Errorf("%w: percentage threshold must be in (0, 100]", apperr.ErrValidation)
		}
	}

	if rule.RequiresSpecificApprover() {
		if rule.SpecificApproverID == nil {
			return fmt.Errorf("%w: specific approver is required for %s rules", apperr.ErrValidation, rule.Kind)
		}
		approver, err := s.userRepo.GetByID(ctx, *rule.SpecificApproverID)
		if err != nil {
			return err
		}
		if approver.CompanyID != principal.CompanyID {
			return fmt.Errorf("%w: approver %d", apperr.ErrNotFound, *rule.SpecificApproverID)
		}
		if !approver.CanApprove() {
			return fmt.Errorf("%w: user %d is not flagged as an approver", apperr.ErrValidation, *rule.SpecificApproverID)
		}
	}

	return nil
}
