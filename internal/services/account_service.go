// Package services implements the business logic behind the HTTP and CLI
// surfaces: linked-account lifecycle, identity verification, and the
// cross-account inventory aggregator.
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/metrics"
)

// refreshAccountGauges recomputes the per-state linked-account gauges.
// Best effort: a failed read leaves the gauges as they were, and the
// next state change corrects them.
func refreshAccountGauges(ctx context.Context, repo account.Repository) {
	for _, st := range []account.VerificationState{
		account.StatePending,
		account.StateVerified,
		account.StateFailed,
		account.StateDisabled,
	} {
		accts, err := repo.ListByState(ctx, st)
		if err != nil {
			return
		}
		metrics.SetLinkedAccounts(string(st), float64(len(accts)))
	}
}

// AccountService implements account.Service on top of the repository.
type AccountService struct {
	repo   account.Repository
	logger *logger.Logger
}

// NewAccountService creates the linked-account lifecycle service.
func NewAccountService(repo account.Repository, log *logger.Logger) *AccountService {
	return &AccountService{repo: repo, logger: log}
}

// Link registers a new account. Every account starts pending; only a
// successful verification moves it forward.
func (s *AccountService) Link(ctx context.Context, input account.CreateInput) (*account.LinkedAccount, error) {
	input.AWSAccountID = strings.TrimSpace(input.AWSAccountID)
	input.Name = strings.TrimSpace(input.Name)
	input.RoleARN = strings.TrimSpace(input.RoleARN)

	if err := account.ValidateAWSAccountID(input.AWSAccountID); err != nil {
		return nil, errors.ValidationError("invalid AWS account id", map[string]string{
			"aws_account_id": err.Error(),
		})
	}
	if err := account.ValidateRoleARN(input.RoleARN); err != nil {
		return nil, errors.ValidationError("invalid role ARN", map[string]string{
			"role_arn": err.Error(),
		})
	}
	if input.Name == "" {
		return nil, errors.ValidationError("name is required", map[string]string{
			"name": "must not be empty",
		})
	}

	acct := &account.LinkedAccount{
		ID:           uuid.New().String(),
		AWSAccountID: input.AWSAccountID,
		Name:         input.Name,
		Description:  input.Description,
		RoleARN:      input.RoleARN,
		ExternalID:   input.ExternalID,
		State:        account.StatePending,
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id":     acct.ID,
		"aws_account_id": acct.AWSAccountID,
	}).Info("Linked account registered")
	refreshAccountGauges(ctx, s.repo)

	return acct, nil
}

// Get retrieves an account by internal id.
func (s *AccountService) Get(ctx context.Context, id string) (*account.LinkedAccount, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves accounts, optionally filtered by verification state.
func (s *AccountService) List(ctx context.Context, state *account.VerificationState) ([]*account.LinkedAccount, error) {
	if state == nil {
		return s.repo.List(ctx)
	}
	if !state.Valid() {
		return nil, errors.BadRequest("unknown verification state: " + string(*state))
	}
	return s.repo.ListByState(ctx, *state)
}

// Update applies a partial update to the mutable fields. Changing the
// role ARN or external id invalidates prior verification, so the account
// drops back to pending.
func (s *AccountService) Update(ctx context.Context, id string, update account.Update) (*account.LinkedAccount, error) {
	if update.RoleARN != nil {
		trimmed := strings.TrimSpace(*update.RoleARN)
		if err := account.ValidateRoleARN(trimmed); err != nil {
			return nil, errors.ValidationError("invalid role ARN", map[string]string{
				"role_arn": err.Error(),
			})
		}
		update.RoleARN = &trimmed
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, errors.ValidationError("name is required", map[string]string{
			"name": "must not be empty",
		})
	}

	acct, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if (update.RoleARN != nil || update.ExternalID != nil) && acct.State == account.StateVerified {
		next, err := acct.State.Transition(account.StatePending)
		if err != nil {
			return nil, errors.Conflict(err.Error())
		}
		if err := s.repo.SetState(ctx, id, next); err != nil {
			return nil, err
		}
		acct.State = next
		s.logger.Infof("Account %s credentials changed, verification reset", id)
	}

	return acct, nil
}

// Disable moves the account into the disabled state. Disabling is
// idempotent and allowed from any state.
func (s *AccountService) Disable(ctx context.Context, id string) error {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acct.State == account.StateDisabled {
		return nil
	}
	next, err := acct.State.Transition(account.StateDisabled)
	if err != nil {
		return errors.Conflict(err.Error())
	}
	if err := s.repo.SetState(ctx, id, next); err != nil {
		return err
	}

	s.logger.Warnf("Account %s (%s) disabled", acct.ID, acct.AWSAccountID)
	refreshAccountGauges(ctx, s.repo)
	return nil
}

// Unlink removes the account permanently. Works from any state,
// including disabled.
func (s *AccountService) Unlink(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("Account %s unlinked", id)
	refreshAccountGauges(ctx, s.repo)
	return nil
}
