package client

import (
	"context"
	"net/http"
	"net/url"
)

// InventoryService handles aggregated fleet listings
type InventoryService struct {
	client *Client
}

// InventoryOptions narrows an aggregated listing.
type InventoryOptions struct {
	AccountID string
	Region    string
}

func (o *InventoryOptions) query() string {
	if o == nil {
		return ""
	}
	q := url.Values{}
	if o.AccountID != "" {
		q.Set("account_id", o.AccountID)
	}
	if o.Region != "" {
		q.Set("region", o.Region)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// listing is the aggregated response shape.
type listing[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

// Instances lists EC2 instances across the fleet.
func (s *InventoryService) Instances(ctx context.Context, opts *InventoryOptions) ([]Instance, error) {
	var resp listing[Instance]
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/inventory/instances"+opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Databases lists RDS databases across the fleet.
func (s *InventoryService) Databases(ctx context.Context, opts *InventoryOptions) ([]DBInstance, error) {
	var resp listing[DBInstance]
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/inventory/databases"+opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Buckets lists S3 buckets across the fleet. The region option is
// ignored server-side for the global bucket namespace.
func (s *InventoryService) Buckets(ctx context.Context, opts *InventoryOptions) ([]Bucket, error) {
	var resp listing[Bucket]
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/inventory/buckets"+opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Networks lists VPCs across the fleet.
func (s *InventoryService) Networks(ctx context.Context, opts *InventoryOptions) ([]VPC, error) {
	var resp listing[VPC]
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/inventory/networks"+opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
