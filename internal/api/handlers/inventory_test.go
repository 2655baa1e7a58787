package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fleetscope/fleetscope/internal/domain/inventory"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
)

// stubInventory returns canned records and captures the filter it saw.
type stubInventory struct {
	lastFilter inventory.Filter
	instances  []inventory.Instance
}

func (s *stubInventory) ListInstances(ctx context.Context, f inventory.Filter) ([]inventory.Instance, error) {
	s.lastFilter = f
	return s.instances, nil
}

func (s *stubInventory) ListDBInstances(ctx context.Context, f inventory.Filter) ([]inventory.DBInstance, error) {
	s.lastFilter = f
	return []inventory.DBInstance{}, nil
}

func (s *stubInventory) ListBuckets(ctx context.Context, f inventory.Filter) ([]inventory.Bucket, error) {
	s.lastFilter = f
	return []inventory.Bucket{}, nil
}

func (s *stubInventory) ListVPCs(ctx context.Context, f inventory.Filter) ([]inventory.VPC, error) {
	s.lastFilter = f
	return []inventory.VPC{}, nil
}

func inventoryRouter(h *InventoryHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/instances", h.Instances)
		r.Get("/databases", h.Databases)
		r.Get("/buckets", h.Buckets)
		r.Get("/networks", h.Networks)
	})
	return r
}

func TestInventoryHandler_FilterParsing(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantAccount *string
		wantRegion  *string
	}{
		{name: "no filters", url: "/api/v1/inventory/instances"},
		{name: "account filter", url: "/api/v1/inventory/instances?account_id=123456789012", wantAccount: strPtr("123456789012")},
		{name: "region filter", url: "/api/v1/inventory/instances?region=eu-west-1", wantRegion: strPtr("eu-west-1")},
		{name: "empty params are absent", url: "/api/v1/inventory/instances?account_id=&region="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubInventory{}
			log := logger.New(logger.Config{Level: "error", Format: "json"})
			router := inventoryRouter(NewInventoryHandler(stub, log))

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			if !strPtrEqual(stub.lastFilter.AccountID, tt.wantAccount) {
				t.Errorf("AccountID filter = %v, want %v", strOrNil(stub.lastFilter.AccountID), strOrNil(tt.wantAccount))
			}
			if !strPtrEqual(stub.lastFilter.Region, tt.wantRegion) {
				t.Errorf("Region filter = %v, want %v", strOrNil(stub.lastFilter.Region), strOrNil(tt.wantRegion))
			}
		})
	}
}

func TestInventoryHandler_ResponseShape(t *testing.T) {
	stub := &stubInventory{
		instances: []inventory.Instance{
			{
				Origin:     inventory.Origin{AccountID: "123456789012", AccountName: "staging", Region: "us-east-1"},
				InstanceID: "i-1",
				State:      "running",
			},
		},
	}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	router := inventoryRouter(NewInventoryHandler(stub, log))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/instances", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var resp struct {
		Data struct {
			Count int               `json:"count"`
			Items []json.RawMessage `json:"items"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Count != 1 || len(resp.Data.Items) != 1 {
		t.Errorf("count = %d items = %d, want 1/1", resp.Data.Count, len(resp.Data.Items))
	}
}

func TestInventoryHandler_EmptyListIsNotAnError(t *testing.T) {
	stub := &stubInventory{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	router := inventoryRouter(NewInventoryHandler(stub, log))

	for _, path := range []string{"databases", "buckets", "networks"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/"+path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rr.Code)
		}
	}
}

func strPtr(s string) *string { return &s }

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
