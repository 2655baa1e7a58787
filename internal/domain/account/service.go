package account

import "context"

// CreateInput holds the fields needed to link an account.
type CreateInput struct {
	AWSAccountID string
	Name         string
	RoleARN      string
	ExternalID   string
	Description  string
}

// VerificationResult reports the outcome of an identity check. The stored
// account state and this result are always derived from the same outcome.
type VerificationResult struct {
	Success   bool   `json:"success"`
	AccountID string `json:"account_id"`
	ARN       string `json:"arn,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Service defines the interface for linked-account business logic
type Service interface {
	// Link registers a new account in pending state
	Link(ctx context.Context, input CreateInput) (*LinkedAccount, error)

	// Get retrieves an account by internal id
	Get(ctx context.Context, id string) (*LinkedAccount, error)

	// List retrieves all accounts, optionally filtered by state
	List(ctx context.Context, state *VerificationState) ([]*LinkedAccount, error)

	// Update applies a partial update
	Update(ctx context.Context, id string, update Update) (*LinkedAccount, error)

	// Disable forces the account into the disabled state
	Disable(ctx context.Context, id string) error

	// Unlink removes the account permanently
	Unlink(ctx context.Context, id string) error
}

// Verifier performs the one-shot identity check against a linked account.
type Verifier interface {
	Verify(ctx context.Context, id string) (*VerificationResult, error)
}
