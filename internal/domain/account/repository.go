package account

import "context"

// Update describes a partial update; nil fields are left untouched.
type Update struct {
	Name        *string
	Description *string
	RoleARN     *string
	ExternalID  *string
}

// Repository defines the interface for linked-account data access
type Repository interface {
	// Create inserts a new account record. Returns a Conflict error if
	// the AWS account id is already linked.
	Create(ctx context.Context, a *LinkedAccount) error

	// GetByID retrieves an account by internal id
	GetByID(ctx context.Context, id string) (*LinkedAccount, error)

	// GetByAWSAccountID retrieves an account by its external identifier
	GetByAWSAccountID(ctx context.Context, awsAccountID string) (*LinkedAccount, error)

	// List retrieves every linked account regardless of state
	List(ctx context.Context) ([]*LinkedAccount, error)

	// ListByState retrieves accounts in the given state
	ListByState(ctx context.Context, state VerificationState) ([]*LinkedAccount, error)

	// Update applies a partial update to the account's mutable fields
	Update(ctx context.Context, id string, update Update) (*LinkedAccount, error)

	// SetState stores a new verification state
	SetState(ctx context.Context, id string, state VerificationState) error

	// MarkVerified stores the verified state and last-verified timestamp
	// in one statement
	MarkVerified(ctx context.Context, id string) error

	// Delete removes the account record permanently
	Delete(ctx context.Context, id string) error
}
