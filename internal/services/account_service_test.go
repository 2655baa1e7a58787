package services

import (
	"context"
	"testing"

	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/testutil"
)

func newAccountService() (*AccountService, *testutil.MockAccountRepository) {
	repo := testutil.NewMockAccountRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewAccountService(repo, log), repo
}

func validInput() account.CreateInput {
	return account.CreateInput{
		AWSAccountID: "123456789012",
		Name:         "staging",
		RoleARN:      "arn:aws:iam::123456789012:role/FleetScopeAudit",
		ExternalID:   "fs-external-42",
	}
}

func TestAccountService_Link(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*account.CreateInput)
		wantErr string
	}{
		{
			name:   "valid input",
			mutate: func(in *account.CreateInput) {},
		},
		{
			name:   "whitespace is trimmed",
			mutate: func(in *account.CreateInput) { in.AWSAccountID = " 123456789012 " },
		},
		{
			name:    "malformed account id",
			mutate:  func(in *account.CreateInput) { in.AWSAccountID = "12345" },
			wantErr: errors.ErrCodeValidation,
		},
		{
			name:    "malformed role ARN",
			mutate:  func(in *account.CreateInput) { in.RoleARN = "arn:aws:s3:::bucket" },
			wantErr: errors.ErrCodeValidation,
		},
		{
			name:    "empty name",
			mutate:  func(in *account.CreateInput) { in.Name = "  " },
			wantErr: errors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newAccountService()
			input := validInput()
			tt.mutate(&input)

			acct, err := service.Link(context.Background(), input)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("Link() expected error, got nil")
				}
				appErr, ok := err.(*errors.AppError)
				if !ok || appErr.Code != tt.wantErr {
					t.Errorf("Link() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Link() error = %v", err)
			}
			if acct.State != account.StatePending {
				t.Errorf("new account state = %s, want pending", acct.State)
			}
			if acct.ID == "" {
				t.Error("new account has no id")
			}
			if acct.AWSAccountID != "123456789012" {
				t.Errorf("AWSAccountID = %q, want trimmed 12 digits", acct.AWSAccountID)
			}
		})
	}
}

func TestAccountService_LinkDuplicate(t *testing.T) {
	service, _ := newAccountService()
	ctx := context.Background()

	if _, err := service.Link(ctx, validInput()); err != nil {
		t.Fatalf("first Link() error = %v", err)
	}

	in := validInput()
	in.Name = "staging-again"
	_, err := service.Link(ctx, in)
	if !errors.IsConflict(err) {
		t.Errorf("second Link() error = %v, want conflict", err)
	}
}

func TestAccountService_UpdateResetsVerification(t *testing.T) {
	service, repo := newAccountService()
	ctx := context.Background()

	acct, err := service.Link(ctx, validInput())
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if err := repo.MarkVerified(ctx, acct.ID); err != nil {
		t.Fatalf("MarkVerified() error = %v", err)
	}

	newARN := "arn:aws:iam::123456789012:role/FleetScopeAudit-v2"
	updated, err := service.Update(ctx, acct.ID, account.Update{RoleARN: &newARN})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.State != account.StatePending {
		t.Errorf("state after role change = %s, want pending", updated.State)
	}
	if updated.RoleARN != newARN {
		t.Errorf("RoleARN = %q, want %q", updated.RoleARN, newARN)
	}
}

func TestAccountService_UpdateNameKeepsVerification(t *testing.T) {
	service, repo := newAccountService()
	ctx := context.Background()

	acct, _ := service.Link(ctx, validInput())
	if err := repo.MarkVerified(ctx, acct.ID); err != nil {
		t.Fatalf("MarkVerified() error = %v", err)
	}

	name := "renamed"
	updated, err := service.Update(ctx, acct.ID, account.Update{Name: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.State != account.StateVerified {
		t.Errorf("state after rename = %s, want verified", updated.State)
	}
}

func TestAccountService_Disable(t *testing.T) {
	service, repo := newAccountService()
	ctx := context.Background()

	acct, _ := service.Link(ctx, validInput())

	if err := service.Disable(ctx, acct.ID); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, acct.ID)
	if got.State != account.StateDisabled {
		t.Errorf("state = %s, want disabled", got.State)
	}

	// Idempotent
	if err := service.Disable(ctx, acct.ID); err != nil {
		t.Errorf("second Disable() error = %v", err)
	}

	if err := service.Disable(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("Disable(missing) error = %v, want not found", err)
	}
}

func TestAccountService_Unlink(t *testing.T) {
	service, _ := newAccountService()
	ctx := context.Background()

	acct, _ := service.Link(ctx, validInput())
	if err := service.Disable(ctx, acct.ID); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}

	// Deletion works even from disabled.
	if err := service.Unlink(ctx, acct.ID); err != nil {
		t.Fatalf("Unlink() error = %v", err)
	}
	if _, err := service.Get(ctx, acct.ID); !errors.IsNotFound(err) {
		t.Errorf("Get() after Unlink error = %v, want not found", err)
	}
	if err := service.Unlink(ctx, acct.ID); !errors.IsNotFound(err) {
		t.Errorf("second Unlink() error = %v, want not found", err)
	}
}

func TestAccountService_ListByState(t *testing.T) {
	service, repo := newAccountService()
	ctx := context.Background()

	a1, _ := service.Link(ctx, validInput())
	in2 := validInput()
	in2.AWSAccountID = "210987654321"
	in2.Name = "production"
	if _, err := service.Link(ctx, in2); err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if err := repo.MarkVerified(ctx, a1.ID); err != nil {
		t.Fatalf("MarkVerified() error = %v", err)
	}

	verified := account.StateVerified
	got, err := service.List(ctx, &verified)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != a1.ID {
		t.Errorf("List(verified) = %d accounts, want the one verified account", len(got))
	}

	all, err := service.List(ctx, nil)
	if err != nil {
		t.Fatalf("List(nil) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List(nil) = %d accounts, want 2", len(all))
	}

	bogus := account.VerificationState("archived")
	if _, err := service.List(ctx, &bogus); err == nil {
		t.Error("List(unknown state) expected error")
	}
}
