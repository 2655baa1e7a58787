// Package aws wraps the AWS SDK v2: role-assumption federation into
// linked accounts and region-scoped service clients built from the
// resulting temporary credentials.
package aws

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/fleetscope/fleetscope/internal/config"
	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/metrics"
)

// Credentials is a short-lived, region-scoped credential bundle derived
// from a linked account. It is never persisted and never reused across
// regions.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
	Region          string
}

// Federator exchanges a linked account's trust role for temporary
// credentials scoped to one region.
type Federator interface {
	Assume(ctx context.Context, acct *account.LinkedAccount, region string) (*Credentials, error)
}

// STSFederator implements Federator against the real STS endpoint using
// the platform's own base credentials.
type STSFederator struct {
	client  STSAPI
	cfg     config.AWSConfig
	logger  *logger.Logger
	nowNano func() int64
}

// NewFederator loads the platform's base AWS configuration and returns
// a ready STS federator.
func NewFederator(ctx context.Context, cfg config.AWSConfig, log *logger.Logger) (*STSFederator, error) {
	base, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DefaultRegion))
	if err != nil {
		return nil, fmt.Errorf("loading base AWS config: %w", err)
	}
	return &STSFederator{
		client:  sts.NewFromConfig(base),
		cfg:     cfg,
		logger:  log,
		nowNano: func() int64 { return time.Now().UnixNano() },
	}, nil
}

// NewFederatorWithClient wires a custom STS client, used in tests.
func NewFederatorWithClient(client STSAPI, cfg config.AWSConfig, log *logger.Logger) *STSFederator {
	return &STSFederator{
		client:  client,
		cfg:     cfg,
		logger:  log,
		nowNano: func() int64 { return time.Now().UnixNano() },
	}
}

// sessionSeq disambiguates session names when concurrent calls read
// the same clock value.
var sessionSeq atomic.Int64

// Assume performs sts:AssumeRole for the account's trust role. The
// session name is unique per call so provider-side audit trails stay
// attributable. The confirmation secret is attached only when present;
// an empty string is never sent.
func (f *STSFederator) Assume(ctx context.Context, acct *account.LinkedAccount, region string) (*Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.FederationTimeout)
	defer cancel()

	sessionName := fmt.Sprintf("%s-%d-%d", f.cfg.SessionNamePrefix, f.nowNano(), sessionSeq.Add(1))
	durationSecs := int32(f.cfg.SessionDuration.Seconds())

	input := &sts.AssumeRoleInput{
		RoleArn:         awssdk.String(acct.RoleARN),
		RoleSessionName: awssdk.String(sessionName),
		DurationSeconds: awssdk.Int32(durationSecs),
	}
	if acct.ExternalID != "" {
		input.ExternalId = awssdk.String(acct.ExternalID)
	}

	out, err := f.client.AssumeRole(ctx, input)
	if err != nil {
		metrics.RecordFederationRequest("failure")
		f.logger.WithFields(map[string]interface{}{
			"aws_account_id": acct.AWSAccountID,
			"role_arn":       acct.RoleARN,
			"region":         region,
		}).ErrorWithErr(err, "Role assumption failed")
		return nil, errors.FederationError(
			fmt.Sprintf("could not assume role for account %s", acct.AWSAccountID), err)
	}

	metrics.RecordFederationRequest("success")

	creds := &Credentials{
		AccessKeyID:     awssdk.ToString(out.Credentials.AccessKeyId),
		SecretAccessKey: awssdk.ToString(out.Credentials.SecretAccessKey),
		SessionToken:    awssdk.ToString(out.Credentials.SessionToken),
		Region:          region,
	}
	if out.Credentials.Expiration != nil {
		creds.Expiration = *out.Credentials.Expiration
	}
	return creds, nil
}
