package inventory

import "context"

// Service aggregates resources across every verified linked account.
type Service interface {
	ListInstances(ctx context.Context, filter Filter) ([]Instance, error)
	ListDBInstances(ctx context.Context, filter Filter) ([]DBInstance, error)
	ListBuckets(ctx context.Context, filter Filter) ([]Bucket, error)
	ListVPCs(ctx context.Context, filter Filter) ([]VPC, error)
}
