package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/validator"
	"github.com/fleetscope/fleetscope/internal/services"
	"github.com/fleetscope/fleetscope/internal/testutil"
)

// stubVerifier lets handler tests control the verification outcome
// without an STS round trip.
type stubVerifier struct {
	result *account.VerificationResult
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, id string) (*account.VerificationResult, error) {
	return s.result, s.err
}

func accountHandlerFixture(verifier account.Verifier) (*AccountHandler, *testutil.MockAccountRepository) {
	repo := testutil.NewMockAccountRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := services.NewAccountService(repo, log)
	return NewAccountHandler(service, verifier, log, validator.New()), repo
}

// newRouter mounts the handler the way the real router does, so URL
// params resolve.
func newAccountRouter(h *AccountHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Link)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Unlink)
		r.Post("/{id}/verify", h.Verify)
		r.Post("/{id}/disable", h.Disable)
	})
	return r
}

func TestAccountHandler_Link(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid request",
			body:           `{"aws_account_id":"123456789012","name":"staging","role_arn":"arn:aws:iam::123456789012:role/FleetScopeAudit","external_id":"fs-42"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "short account id",
			body:           `{"aws_account_id":"1234","name":"staging","role_arn":"arn:aws:iam::123456789012:role/FleetScopeAudit"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "role arn is not an iam arn",
			body:           `{"aws_account_id":"123456789012","name":"staging","role_arn":"arn:aws:s3:::bucket"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           `{"aws_account_id":"123456789012","role_arn":"arn:aws:iam::123456789012:role/FleetScopeAudit"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := accountHandlerFixture(&stubVerifier{})
			router := newAccountRouter(handler)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestAccountHandler_LinkHidesExternalID(t *testing.T) {
	handler, _ := accountHandlerFixture(&stubVerifier{})
	router := newAccountRouter(handler)

	body := `{"aws_account_id":"123456789012","name":"staging","role_arn":"arn:aws:iam::123456789012:role/FleetScopeAudit","external_id":"super-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("super-secret")) {
		t.Error("external id leaked into the response body")
	}
}

func TestAccountHandler_LinkConflict(t *testing.T) {
	handler, _ := accountHandlerFixture(&stubVerifier{})
	router := newAccountRouter(handler)

	body := `{"aws_account_id":"123456789012","name":"staging","role_arn":"arn:aws:iam::123456789012:role/FleetScopeAudit"}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("request %d: status = %d, want %d", i, rr.Code, want)
		}
	}
}

func TestAccountHandler_GetNotFound(t *testing.T) {
	handler, _ := accountHandlerFixture(&stubVerifier{})
	router := newAccountRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAccountHandler_ListByState(t *testing.T) {
	handler, repo := accountHandlerFixture(&stubVerifier{})
	router := newAccountRouter(handler)
	ctx := context.Background()

	acct := &account.LinkedAccount{
		ID: "acc-1", AWSAccountID: "123456789012", Name: "staging",
		RoleARN: "arn:aws:iam::123456789012:role/FleetScopeAudit",
		State:   account.StatePending,
	}
	if err := repo.Create(ctx, acct); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/?state=pending", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("got %d accounts, want 1", len(resp.Data))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/?state=archived", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown state: status = %d, want 400", rr.Code)
	}
}

func TestAccountHandler_Verify(t *testing.T) {
	handler, repo := accountHandlerFixture(&stubVerifier{
		result: &account.VerificationResult{
			Success:   true,
			AccountID: "123456789012",
			ARN:       "arn:aws:sts::123456789012:assumed-role/FleetScopeAudit/s",
		},
	})
	router := newAccountRouter(handler)

	acct := &account.LinkedAccount{
		ID: "acc-1", AWSAccountID: "123456789012", Name: "staging",
		RoleARN: "arn:aws:iam::123456789012:role/FleetScopeAudit",
		State:   account.StatePending,
	}
	if err := repo.Create(context.Background(), acct); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/acc-1/verify", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			Success bool   `json:"success"`
			ARN     string `json:"arn"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Success || resp.Data.ARN == "" {
		t.Errorf("verify response = %+v, want success with ARN", resp.Data)
	}
}

func TestAccountHandler_DisableAndUnlink(t *testing.T) {
	handler, repo := accountHandlerFixture(&stubVerifier{})
	router := newAccountRouter(handler)
	ctx := context.Background()

	acct := &account.LinkedAccount{
		ID: "acc-1", AWSAccountID: "123456789012", Name: "staging",
		RoleARN: "arn:aws:iam::123456789012:role/FleetScopeAudit",
		State:   account.StateVerified,
	}
	if err := repo.Create(ctx, acct); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/acc-1/disable", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("disable status = %d", rr.Code)
	}
	stored, _ := repo.GetByID(ctx, "acc-1")
	if stored.State != account.StateDisabled {
		t.Errorf("state = %s, want disabled", stored.State)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("unlink status = %d", rr.Code)
	}
	if _, err := repo.GetByID(ctx, "acc-1"); err == nil {
		t.Error("account still present after unlink")
	}
}
