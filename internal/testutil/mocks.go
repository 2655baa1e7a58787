package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fleetscope/fleetscope/internal/aws"
	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
)

// MockAccountRepository is an in-memory implementation of
// account.Repository. Error fields, when set, override the happy path.
type MockAccountRepository struct {
	mu       sync.Mutex
	Accounts map[string]*account.LinkedAccount
	seq      int

	CreateError error
	GetError    error
	ListError   error
	UpdateError error
	DeleteError error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[string]*account.LinkedAccount),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.LinkedAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Accounts {
		if existing.AWSAccountID == a.AWSAccountID {
			return errors.Conflict("account " + a.AWSAccountID + " is already linked")
		}
	}
	m.seq++
	now := time.Now().UTC()
	a.CreatedAt = now.Add(time.Duration(m.seq) * time.Millisecond)
	a.UpdatedAt = a.CreatedAt
	copied := *a
	m.Accounts[a.ID] = &copied
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*account.LinkedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return nil, errors.NotFound("linked account")
	}
	copied := *a
	return &copied, nil
}

func (m *MockAccountRepository) GetByAWSAccountID(ctx context.Context, awsAccountID string) (*account.LinkedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, a := range m.Accounts {
		if a.AWSAccountID == awsAccountID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, errors.NotFound("linked account")
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*account.LinkedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.sortedLocked(func(*account.LinkedAccount) bool { return true }), nil
}

func (m *MockAccountRepository) ListByState(ctx context.Context, state account.VerificationState) ([]*account.LinkedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.sortedLocked(func(a *account.LinkedAccount) bool { return a.State == state }), nil
}

func (m *MockAccountRepository) Update(ctx context.Context, id string, update account.Update) (*account.LinkedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return nil, errors.NotFound("linked account")
	}
	if update.Name != nil {
		a.Name = *update.Name
	}
	if update.Description != nil {
		a.Description = *update.Description
	}
	if update.RoleARN != nil {
		a.RoleARN = *update.RoleARN
	}
	if update.ExternalID != nil {
		a.ExternalID = *update.ExternalID
	}
	a.UpdatedAt = time.Now().UTC()
	copied := *a
	return &copied, nil
}

func (m *MockAccountRepository) SetState(ctx context.Context, id string, state account.VerificationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return errors.NotFound("linked account")
	}
	a.State = state
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockAccountRepository) MarkVerified(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return errors.NotFound("linked account")
	}
	now := time.Now().UTC()
	a.State = account.StateVerified
	a.LastVerified = &now
	a.UpdatedAt = now
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Accounts[id]; !ok {
		return errors.NotFound("linked account")
	}
	delete(m.Accounts, id)
	return nil
}

func (m *MockAccountRepository) sortedLocked(keep func(*account.LinkedAccount) bool) []*account.LinkedAccount {
	out := make([]*account.LinkedAccount, 0, len(m.Accounts))
	for _, a := range m.Accounts {
		if keep(a) {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MockFederator is an in-memory implementation of aws.Federator.
// AssumeFunc, when set, decides per call; otherwise every call succeeds
// with static credentials.
type MockFederator struct {
	mu         sync.Mutex
	Calls      []FederationCall
	AssumeFunc func(acct *account.LinkedAccount, region string) (*aws.Credentials, error)
}

// FederationCall records one Assume invocation.
type FederationCall struct {
	AWSAccountID string
	Region       string
}

func NewMockFederator() *MockFederator {
	return &MockFederator{}
}

func (m *MockFederator) Assume(ctx context.Context, acct *account.LinkedAccount, region string) (*aws.Credentials, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, FederationCall{AWSAccountID: acct.AWSAccountID, Region: region})
	m.mu.Unlock()

	if m.AssumeFunc != nil {
		return m.AssumeFunc(acct, region)
	}
	return &aws.Credentials{
		AccessKeyID:     "AKIAMOCK",
		SecretAccessKey: "mock-secret",
		SessionToken:    "mock-token",
		Expiration:      time.Now().Add(15 * time.Minute),
		Region:          region,
	}, nil
}

// MockClientFactory returns the same client bundle for every credential
// set, so tests can stub the SDK interfaces behind it.
type MockClientFactory struct {
	Clients *aws.Clients
}

func (m *MockClientFactory) ForCredentials(creds *aws.Credentials) *aws.Clients {
	return m.Clients
}
