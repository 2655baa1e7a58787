package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AccountsService handles linked-account API calls
type AccountsService struct {
	client *Client
}

// LinkAccountRequest registers a new linked account.
type LinkAccountRequest struct {
	AWSAccountID string `json:"aws_account_id"`
	Name         string `json:"name"`
	RoleARN      string `json:"role_arn"`
	ExternalID   string `json:"external_id,omitempty"`
	Description  string `json:"description,omitempty"`
}

// UpdateAccountRequest applies a partial account update.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	RoleARN     *string `json:"role_arn,omitempty"`
	ExternalID  *string `json:"external_id,omitempty"`
}

// List retrieves linked accounts, optionally filtered by state.
func (s *AccountsService) List(ctx context.Context, state string) ([]Account, error) {
	path := "/api/v1/accounts/"
	if state != "" {
		path += "?state=" + url.QueryEscape(state)
	}
	var accounts []Account
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Link registers a new account.
func (s *AccountsService) Link(ctx context.Context, req LinkAccountRequest) (*Account, error) {
	var acct Account
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/accounts/", req, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// Get retrieves one linked account by id.
func (s *AccountsService) Get(ctx context.Context, id string) (*Account, error) {
	var acct Account
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/accounts/"+url.PathEscape(id), nil, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// Update applies a partial update.
func (s *AccountsService) Update(ctx context.Context, id string, req UpdateAccountRequest) (*Account, error) {
	var acct Account
	if err := s.client.doRequest(ctx, http.MethodPatch, "/api/v1/accounts/"+url.PathEscape(id), req, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// Verify runs the identity check against a linked account.
func (s *AccountsService) Verify(ctx context.Context, id string) (*VerificationResult, error) {
	var result VerificationResult
	path := fmt.Sprintf("/api/v1/accounts/%s/verify", url.PathEscape(id))
	if err := s.client.doRequest(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Disable moves an account into the disabled state.
func (s *AccountsService) Disable(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/accounts/%s/disable", url.PathEscape(id))
	return s.client.doRequest(ctx, http.MethodPost, path, nil, nil)
}

// Unlink removes an account permanently.
func (s *AccountsService) Unlink(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodDelete, "/api/v1/accounts/"+url.PathEscape(id), nil, nil)
}
