package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

func newTestRuleService(ruleRepo *mockRuleRepo, userRepo *mockUserRepo) RuleService {
	return NewRuleService(ruleRepo, userRepo, &mockTxManager{}, zap.NewNop())
}

func percentageRuleInput() CreateRuleInput {
	threshold := 60
	return CreateRuleInput{
		Name:                "Majority sign-off",
		Kind:                entity.RuleKindPercentage,
		PercentageThreshold: &threshold,
		Sequence:            1,
	}
}

func TestRuleService_Create_RequiresAdmin(t *testing.T) {
	svc := newTestRuleService(&mockRuleRepo{}, &mockUserRepo{})

	manager := entity.Principal{UserID: 2, Role: entity.RoleManager, CompanyID: 1}
	_, err := svc.Create(context.Background(), manager, percentageRuleInput())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRuleService_Create_PercentageRule(t *testing.T) {
	svc := newTestRuleService(&mockRuleRepo{}, &mockUserRepo{})

	rule, err := svc.Create(context.Background(), adminPrincipal, percentageRuleInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), rule.CompanyID)
	assert.Equal(t, entity.RuleKindPercentage, rule.Kind)
}

func TestRuleService_Create_Validation(t *testing.T) {
	userRepo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
			// Known approver in company 1, not flagged as approver
			return &entity.User{ID: id, CompanyID: 1, Role: entity.RoleEmployee, IsApprover: false}, nil
		},
	}
	svc := newTestRuleService(&mockRuleRepo{}, userRepo)

	tests := []struct {
		name   string
		mutate func(*CreateRuleInput)
	}{
		{"empty name", func(in *CreateRuleInput) { in.Name = "  " }},
		{"unknown kind", func(in *CreateRuleInput) { in.Kind = "QUORUM" }},
		{"zero sequence", func(in *CreateRuleInput) { in.Sequence = 0 }},
		{"missing threshold", func(in *CreateRuleInput) { in.PercentageThreshold = nil }},
		{"threshold above 100", func(in *CreateRuleInput) { *in.PercentageThreshold = 150 }},
		{"threshold zero", func(in *CreateRuleInput) { *in.PercentageThreshold = 0 }},
		{"specific without approver", func(in *CreateRuleInput) {
			in.Kind = entity.RuleKindSpecificApprover
			in.SpecificApproverID = nil
		}},
		{"specific approver cannot approve", func(in *CreateRuleInput) {
			in.Kind = entity.RuleKindSpecificApprover
			in.SpecificApproverID = ptrInt64(9)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := percentageRuleInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), adminPrincipal, input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestRuleService_Create_HybridRequiresBothParts(t *testing.T) {
	userRepo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
			return &entity.User{ID: id, CompanyID: 1, Role: entity.RoleManager, IsApprover: true}, nil
		},
	}
	svc := newTestRuleService(&mockRuleRepo{}, userRepo)

	input := percentageRuleInput()
	input.Kind = entity.RuleKindHybrid

	_, err := svc.Create(context.Background(), adminPrincipal, input)
	assert.ErrorIs(t, err, apperr.ErrValidation, "hybrid without a designated approver is invalid")

	input.SpecificApproverID = ptrInt64(3)
	rule, err := svc.Create(context.Background(), adminPrincipal, input)
	require.NoError(t, err)
	assert.Equal(t, entity.RuleKindHybrid, rule.Kind)
}

func TestRuleService_Delete_ForeignCompanyRuleHidden(t *testing.T) {
	ruleRepo := &mockRuleRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.ApprovalRule, error) {
			return &entity.ApprovalRule{ID: id, CompanyID: 2}, nil
		},
	}
	svc := newTestRuleService(ruleRepo, &mockUserRepo{})

	err := svc.Delete(context.Background(), adminPrincipal, 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRuleService_Delete_Succeeds(t *testing.T) {
	deleted := false
	ruleRepo := &mockRuleRepo{
		deleteFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := newTestRuleService(ruleRepo, &mockUserRepo{})

	err := svc.Delete(context.Background(), adminPrincipal, 3)
	require.NoError(t, err)
	assert.True(t, deleted)
}
