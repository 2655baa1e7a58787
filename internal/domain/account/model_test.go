package account

import (
	"testing"
)

func TestCanTransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    VerificationState
		to      VerificationState
		allowed bool
	}{
		{"pending to verified", StatePending, StateVerified, true},
		{"pending to failed", StatePending, StateFailed, true},
		{"verified to failed on reverification", StateVerified, StateFailed, true},
		{"failed to verified on reverification", StateFailed, StateVerified, true},
		{"verified resets to pending on credential change", StateVerified, StatePending, true},
		{"failed resets to pending on credential change", StateFailed, StatePending, true},
		{"pending can be disabled", StatePending, StateDisabled, true},
		{"verified can be disabled", StateVerified, StateDisabled, true},
		{"failed can be disabled", StateFailed, StateDisabled, true},
		{"disabled stays disabled", StateDisabled, StateDisabled, true},
		{"disabled cannot be verified", StateDisabled, StateVerified, false},
		{"disabled cannot fail verification", StateDisabled, StateFailed, false},
		{"disabled cannot reset to pending", StateDisabled, StatePending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	got, err := StateDisabled.Transition(StateVerified)
	if err == nil {
		t.Fatal("expected error transitioning disabled -> verified")
	}
	if got != StateDisabled {
		t.Errorf("failed transition must keep current state, got %s", got)
	}
}

func TestTransitionRejectsUnknownState(t *testing.T) {
	if _, err := StatePending.Transition(VerificationState("archived")); err == nil {
		t.Error("expected error for unknown target state")
	}
}

func TestTransitionReturnsTarget(t *testing.T) {
	got, err := StatePending.Transition(StateVerified)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StateVerified {
		t.Errorf("got %s, want %s", got, StateVerified)
	}
}

func TestEligibleOnlyWhenVerified(t *testing.T) {
	for _, st := range []VerificationState{StatePending, StateFailed, StateDisabled} {
		a := &LinkedAccount{State: st}
		if a.Eligible() {
			t.Errorf("account in state %s must not be eligible", st)
		}
	}
	a := &LinkedAccount{State: StateVerified}
	if !a.Eligible() {
		t.Error("verified account must be eligible")
	}
}
