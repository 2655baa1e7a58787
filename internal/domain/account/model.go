package account

import (
	"fmt"
	"regexp"
	"time"
)

// LinkedAccount represents a third-party AWS account registered with the
// platform through a cross-account trust role.
type LinkedAccount struct {
	ID           string            `json:"id"`
	AWSAccountID string            `json:"aws_account_id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	RoleARN      string            `json:"role_arn"`
	ExternalID   string            `json:"-"`
	State        VerificationState `json:"state"`
	LastVerified *time.Time        `json:"last_verified,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// VerificationState is the lifecycle state of a linked account.
type VerificationState string

const (
	// StatePending is the initial state of every linked account.
	StatePending VerificationState = "pending"
	// StateVerified means the trust role was assumed successfully.
	StateVerified VerificationState = "verified"
	// StateFailed means the last identity check did not succeed.
	StateFailed VerificationState = "failed"
	// StateDisabled is set administratively and ends normal use.
	StateDisabled VerificationState = "disabled"
)

// Valid reports whether s is a known verification state.
func (s VerificationState) Valid() bool {
	switch s {
	case StatePending, StateVerified, StateFailed, StateDisabled:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to target is allowed.
// Verification may move any non-disabled state to verified or failed;
// a credential change resets a non-disabled account back to pending;
// any state may be disabled. Nothing leaves disabled except deletion,
// which is not a transition.
func (s VerificationState) CanTransition(target VerificationState) bool {
	if target == StateDisabled {
		return true
	}
	if s == StateDisabled {
		return false
	}
	switch target {
	case StatePending, StateVerified, StateFailed:
		return true
	}
	return false
}

// Transition validates and returns the target state.
func (s VerificationState) Transition(target VerificationState) (VerificationState, error) {
	if !target.Valid() {
		return s, fmt.Errorf("unknown verification state %q", target)
	}
	if !s.CanTransition(target) {
		return s, fmt.Errorf("illegal transition %s -> %s", s, target)
	}
	return target, nil
}

// Eligible reports whether the account may participate in resource
// aggregation. Only verified accounts qualify.
func (a *LinkedAccount) Eligible() bool {
	return a.State == StateVerified
}

var roleARNPattern = regexp.MustCompile(`^arn:aws:iam::\d{12}:role/[\w+=,.@/-]+$`)

// ValidateRoleARN checks that arn names an IAM role.
func ValidateRoleARN(arn string) error {
	if !roleARNPattern.MatchString(arn) {
		return fmt.Errorf("malformed role ARN %q", arn)
	}
	return nil
}

var accountIDPattern = regexp.MustCompile(`^\d{12}$`)

// ValidateAWSAccountID checks the 12-digit AWS account identifier format.
func ValidateAWSAccountID(id string) error {
	if !accountIDPattern.MatchString(id) {
		return fmt.Errorf("malformed AWS account id %q", id)
	}
	return nil
}
