package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	infraws "github.com/fleetscope/fleetscope/internal/aws"
	"github.com/fleetscope/fleetscope/internal/config"
	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/domain/inventory"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/metrics"
)

// unit is one (account, region) cell of the fan-out cross product.
type unit struct {
	acct   *account.LinkedAccount
	region string
}

func (u unit) origin() inventory.Origin {
	return inventory.Origin{
		AccountID:   u.acct.AWSAccountID,
		AccountName: u.acct.Name,
		Region:      u.region,
	}
}

// unitResult carries either the records of one unit or its failure.
// Exactly one of the two fields is meaningful; callers branch on err.
type unitResult[T any] struct {
	records []T
	err     error
}

// lister runs the per-kind listing call against one unit's clients.
type lister[T any] func(ctx context.Context, clients *infraws.Clients, origin inventory.Origin) ([]T, error)

// AggregatorService implements inventory.Service by fanning each query
// out across verified accounts and operating regions, federating into
// every unit independently.
type AggregatorService struct {
	repo      account.Repository
	federator infraws.Federator
	clients   infraws.ClientFactory
	cfg       config.AWSConfig
	logger    *logger.Logger
}

// NewAggregatorService creates the cross-account inventory aggregator.
func NewAggregatorService(repo account.Repository, fed infraws.Federator, clients infraws.ClientFactory, cfg config.AWSConfig, log *logger.Logger) *AggregatorService {
	return &AggregatorService{
		repo:      repo,
		federator: fed,
		clients:   clients,
		cfg:       cfg,
		logger:    log,
	}
}

// ListInstances aggregates EC2 instances across the fleet.
func (s *AggregatorService) ListInstances(ctx context.Context, filter inventory.Filter) ([]inventory.Instance, error) {
	return aggregate(ctx, s, inventory.KindInstance, filter,
		func(ctx context.Context, c *infraws.Clients, origin inventory.Origin) ([]inventory.Instance, error) {
			return infraws.ListInstances(ctx, c.EC2, origin)
		})
}

// ListDBInstances aggregates RDS databases across the fleet.
func (s *AggregatorService) ListDBInstances(ctx context.Context, filter inventory.Filter) ([]inventory.DBInstance, error) {
	return aggregate(ctx, s, inventory.KindDBInstance, filter,
		func(ctx context.Context, c *infraws.Clients, origin inventory.Origin) ([]inventory.DBInstance, error) {
			return infraws.ListDBInstances(ctx, c.RDS, origin)
		})
}

// ListBuckets aggregates S3 buckets across the fleet. Buckets live in a
// global namespace, so each account contributes exactly one unit in the
// canonical listing region and any region filter is ignored.
func (s *AggregatorService) ListBuckets(ctx context.Context, filter inventory.Filter) ([]inventory.Bucket, error) {
	filter.Region = nil
	return aggregate(ctx, s, inventory.KindBucket, filter,
		func(ctx context.Context, c *infraws.Clients, origin inventory.Origin) ([]inventory.Bucket, error) {
			return infraws.ListBuckets(ctx, c.S3, origin)
		})
}

// ListVPCs aggregates VPCs across the fleet.
func (s *AggregatorService) ListVPCs(ctx context.Context, filter inventory.Filter) ([]inventory.VPC, error) {
	return aggregate(ctx, s, inventory.KindVPC, filter,
		func(ctx context.Context, c *infraws.Clients, origin inventory.Origin) ([]inventory.VPC, error) {
			return infraws.ListVPCs(ctx, c.EC2, origin)
		})
}

// aggregate is the shared fan-out: resolve units, run the lister against
// each with its own federated credentials, then flatten in unit order.
// A unit that fails contributes zero records; only unit resolution
// itself can fail the whole query.
func aggregate[T any](ctx context.Context, s *AggregatorService, kind inventory.Kind, filter inventory.Filter, list lister[T]) ([]T, error) {
	units, err := s.resolveUnits(ctx, kind, filter)
	if err != nil {
		return nil, err
	}

	results := runUnits(ctx, s, kind, units, list)

	merged := make([]T, 0)
	for i, res := range results {
		if res.err != nil {
			u := units[i]
			s.logger.WithFields(map[string]interface{}{
				"kind":           string(kind),
				"aws_account_id": u.acct.AWSAccountID,
				"region":         u.region,
			}).ErrorWithErr(res.err, "Aggregation unit failed")
			continue
		}
		merged = append(merged, res.records...)
	}
	return merged, nil
}

// resolveUnits builds the ordered (account, region) cross product.
// Accounts come first in creation order, regions in configured order, so
// two identical queries always merge in the same sequence.
func (s *AggregatorService) resolveUnits(ctx context.Context, kind inventory.Kind, filter inventory.Filter) ([]unit, error) {
	var accounts []*account.LinkedAccount

	if filter.AccountID != nil {
		acct, err := s.repo.GetByAWSAccountID(ctx, *filter.AccountID)
		switch {
		case err == nil && acct.Eligible():
			accounts = []*account.LinkedAccount{acct}
		case err == nil || errors.IsNotFound(err):
			// A filter naming a missing or unverified account is a
			// query with no matching fleet, not a client error.
			return nil, nil
		default:
			return nil, err
		}
	} else {
		verified, err := s.repo.ListByState(ctx, account.StateVerified)
		if err != nil {
			return nil, err
		}
		accounts = verified
	}

	var regions []string
	switch {
	case kind.Global():
		regions = []string{s.cfg.BucketRegion}
	case filter.Region != nil:
		regions = []string{*filter.Region}
	default:
		regions = s.cfg.DefaultRegions
	}

	units := make([]unit, 0, len(accounts)*len(regions))
	for _, acct := range accounts {
		for _, region := range regions {
			units = append(units, unit{acct: acct, region: region})
		}
	}
	return units, nil
}

// runUnits executes every unit, bounded by MaxConcurrentUnits, and
// returns results indexed by unit position so merge order never depends
// on completion order.
func runUnits[T any](ctx context.Context, s *AggregatorService, kind inventory.Kind, units []unit, list lister[T]) []unitResult[T] {
	results := make([]unitResult[T], len(units))

	workers := s.cfg.MaxConcurrentUnits
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range units {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = runUnit(ctx, s, kind, units[i], list)
		}(i)
	}
	wg.Wait()

	return results
}

// runUnit federates into one unit and runs the listing call. Every
// failure mode, including a panic in the lister, becomes a unitResult
// error so one bad unit can never take down the query.
func runUnit[T any](ctx context.Context, s *AggregatorService, kind inventory.Kind, u unit, list lister[T]) (res unitResult[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = unitResult[T]{err: errors.Internal(fmt.Sprintf("panic in %s lister", kind), fmt.Errorf("%v", r))}
		}
		status := "success"
		if res.err != nil {
			status = "failure"
		}
		metrics.RecordAggregationUnit(string(kind), status, time.Since(start))
	}()

	creds, err := s.federator.Assume(ctx, u.acct, u.region)
	if err != nil {
		return unitResult[T]{err: err}
	}

	records, err := list(ctx, s.clients.ForCredentials(creds), u.origin())
	if err != nil {
		return unitResult[T]{err: err}
	}
	return unitResult[T]{records: records}
}
