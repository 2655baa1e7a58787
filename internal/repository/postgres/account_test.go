package postgres

import (
	"context"
	"testing"

	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/testutil"
)

func newAccount(id, awsID string) *account.LinkedAccount {
	return &account.LinkedAccount{
		ID:           id,
		AWSAccountID: awsID,
		Name:         "acct-" + awsID,
		RoleARN:      "arn:aws:iam::" + awsID + ":role/FleetScopeAudit",
		ExternalID:   "ext-" + awsID,
		State:        account.StatePending,
	}
}

func TestAccountRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := newAccount("acc-1", "123456789012")
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "acc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.AWSAccountID != "123456789012" || got.State != account.StatePending {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.ExternalID != "ext-123456789012" {
		t.Errorf("ExternalID = %q, not round-tripped", got.ExternalID)
	}

	byAWS, err := repo.GetByAWSAccountID(ctx, "123456789012")
	if err != nil {
		t.Fatalf("GetByAWSAccountID() error = %v", err)
	}
	if byAWS.ID != "acc-1" {
		t.Errorf("GetByAWSAccountID() id = %s", byAWS.ID)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("GetByID(missing) error = %v, want not found", err)
	}
}

func TestAccountRepository_DuplicateAWSAccountID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newAccount("acc-1", "123456789012")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := repo.Create(ctx, newAccount("acc-2", "123456789012"))
	if !errors.IsConflict(err) {
		t.Errorf("duplicate Create() error = %v, want conflict", err)
	}
}

func TestAccountRepository_ListByState(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	for _, awsID := range []string{"111111111111", "222222222222", "333333333333"} {
		a := newAccount("acc-"+awsID[:1], awsID)
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := repo.SetState(ctx, "acc-2", account.StateVerified); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	verified, err := repo.ListByState(ctx, account.StateVerified)
	if err != nil {
		t.Fatalf("ListByState() error = %v", err)
	}
	if len(verified) != 1 || verified[0].ID != "acc-2" {
		t.Errorf("ListByState(verified) = %d rows", len(verified))
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() = %d rows, want 3", len(all))
	}
	// Creation order is the contract.
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Errorf("List() out of creation order at %d", i)
		}
	}
}

func TestAccountRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newAccount("acc-1", "123456789012")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	name := "renamed"
	got, err := repo.Update(ctx, "acc-1", account.Update{Name: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "renamed" {
		t.Errorf("Name = %q", got.Name)
	}
	// Untouched fields survive a partial update.
	if got.RoleARN != "arn:aws:iam::123456789012:role/FleetScopeAudit" {
		t.Errorf("RoleARN changed: %q", got.RoleARN)
	}

	if _, err := repo.Update(ctx, "missing", account.Update{Name: &name}); !errors.IsNotFound(err) {
		t.Errorf("Update(missing) error = %v, want not found", err)
	}
}

func TestAccountRepository_MarkVerified(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newAccount("acc-1", "123456789012")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.MarkVerified(ctx, "acc-1"); err != nil {
		t.Fatalf("MarkVerified() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, "acc-1")
	if got.State != account.StateVerified {
		t.Errorf("State = %s, want verified", got.State)
	}
	if got.LastVerified == nil {
		t.Error("LastVerified not stored with the state")
	}

	if err := repo.MarkVerified(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("MarkVerified(missing) error = %v, want not found", err)
	}
}

func TestAccountRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newAccount("acc-1", "123456789012")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Delete(ctx, "acc-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, "acc-1"); !errors.IsNotFound(err) {
		t.Errorf("GetByID after delete error = %v, want not found", err)
	}
	if err := repo.Delete(ctx, "acc-1"); !errors.IsNotFound(err) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
}
