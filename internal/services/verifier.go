package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"

	infraws "github.com/fleetscope/fleetscope/internal/aws"
	"github.com/fleetscope/fleetscope/internal/config"
	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/metrics"
)

// VerifierService implements account.Verifier: it proves a linked
// account's trust role actually works by assuming it and asking STS who
// we became.
type VerifierService struct {
	repo      account.Repository
	federator infraws.Federator
	clients   infraws.ClientFactory
	cfg       config.AWSConfig
	logger    *logger.Logger
}

// NewVerifierService creates the one-shot identity verifier.
func NewVerifierService(repo account.Repository, fed infraws.Federator, clients infraws.ClientFactory, cfg config.AWSConfig, log *logger.Logger) *VerifierService {
	return &VerifierService{
		repo:      repo,
		federator: fed,
		clients:   clients,
		cfg:       cfg,
		logger:    log,
	}
}

// Verify assumes the account's role in the default region and calls
// GetCallerIdentity through the federated credentials. The stored state
// and the returned result always reflect the same outcome: a stored
// "verified" never pairs with a failure result or vice versa.
func (s *VerifierService) Verify(ctx context.Context, id string) (*account.VerificationResult, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acct.State.CanTransition(account.StateVerified) {
		return nil, errors.Conflict("account is disabled and cannot be verified")
	}

	creds, err := s.federator.Assume(ctx, acct, s.cfg.DefaultRegion)
	if err != nil {
		return s.recordFailure(ctx, acct, "role assumption failed: the trust role could not be assumed")
	}

	identity, err := s.clients.ForCredentials(creds).STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		s.logger.ErrorWithErr(err, "GetCallerIdentity failed after role assumption")
		return s.recordFailure(ctx, acct, "identity check failed after role assumption")
	}

	if gotID := awssdk.ToString(identity.Account); gotID != acct.AWSAccountID {
		s.logger.Warnf("Account %s role resolves to AWS account %s, expected %s", acct.ID, gotID, acct.AWSAccountID)
		return s.recordFailure(ctx, acct, "assumed role belongs to a different AWS account")
	}

	if err := s.repo.MarkVerified(ctx, acct.ID); err != nil {
		return nil, err
	}
	metrics.RecordVerification("success")
	refreshAccountGauges(ctx, s.repo)

	s.logger.WithFields(map[string]interface{}{
		"account_id":     acct.ID,
		"aws_account_id": acct.AWSAccountID,
	}).Info("Account verified")

	return &account.VerificationResult{
		Success:   true,
		AccountID: acct.AWSAccountID,
		ARN:       awssdk.ToString(identity.Arn),
	}, nil
}

// recordFailure stores the failed state and returns the matching result.
// The failure itself is not an error to the caller: the verification
// ran, its outcome was negative.
func (s *VerifierService) recordFailure(ctx context.Context, acct *account.LinkedAccount, message string) (*account.VerificationResult, error) {
	next, err := acct.State.Transition(account.StateFailed)
	if err != nil {
		return nil, errors.Conflict(err.Error())
	}
	if err := s.repo.SetState(ctx, acct.ID, next); err != nil {
		return nil, err
	}
	metrics.RecordVerification("failure")
	refreshAccountGauges(ctx, s.repo)

	return &account.VerificationResult{
		Success:   false,
		AccountID: acct.AWSAccountID,
		Message:   message,
	}, nil
}
