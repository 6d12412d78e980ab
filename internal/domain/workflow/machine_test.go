package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateApproved, true},
		{StateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"approved", StateApproved, true},
		{"rejected", StateRejected, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewExpenseMachine_InvalidInitialState(t *testing.T) {
	if _, err := NewExpenseMachine(State("BOGUS")); !errors.Is(err, ErrInvalidState) {
		t.Errorf("NewExpenseMachine() error = %v, want ErrInvalidState", err)
	}
}

func TestMachine_PendingTransitions(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		want    State
	}{
		{"advance keeps pending", TriggerAdvance, StatePending},
		{"approve terminates", TriggerApprove, StateApproved},
		{"reject terminates", TriggerReject, StateRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewExpenseMachine(StatePending)
			if err != nil {
				t.Fatalf("NewExpenseMachine() error = %v", err)
			}

			if !m.CanFire(tt.trigger) {
				t.Fatalf("CanFire(%s) = false, want true", tt.trigger)
			}
			if err := m.Fire(context.Background(), tt.trigger); err != nil {
				t.Fatalf("Fire(%s) error = %v", tt.trigger, err)
			}
			if m.State() != tt.want {
				t.Errorf("State() = %s, want %s", m.State(), tt.want)
			}
		})
	}
}

func TestMachine_TerminalStatesAcceptNothing(t *testing.T) {
	for _, initial := range []State{StateApproved, StateRejected} {
		t.Run(string(initial), func(t *testing.T) {
			m, err := NewExpenseMachine(initial)
			if err != nil {
				t.Fatalf("NewExpenseMachine() error = %v", err)
			}

			for _, trigger := range []Trigger{TriggerAdvance, TriggerApprove, TriggerReject} {
				if m.CanFire(trigger) {
					t.Errorf("CanFire(%s) = true in terminal state %s", trigger, initial)
				}
				if err := m.Fire(context.Background(), trigger); !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire(%s) error = %v, want ErrInvalidTransition", trigger, err)
				}
			}

			if len(m.PermittedTriggers()) != 0 {
				t.Errorf("PermittedTriggers() = %v, want empty", m.PermittedTriggers())
			}
		})
	}
}

func TestMachine_RejectedIsFinal(t *testing.T) {
	m, err := NewExpenseMachine(StatePending)
	if err != nil {
		t.Fatalf("NewExpenseMachine() error = %v", err)
	}

	if err := m.Fire(context.Background(), TriggerReject); err != nil {
		t.Fatalf("Fire(REJECT) error = %v", err)
	}

	// A rejection must never be followed by another routable pending state.
	if err := m.Fire(context.Background(), TriggerAdvance); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire(ADVANCE) after reject error = %v, want ErrInvalidTransition", err)
	}
}
