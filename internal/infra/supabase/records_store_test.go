package supabase_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
	"github.com/gestorgrafica/grafica-reports-go/internal/infra/resilience"
	"github.com/gestorgrafica/grafica-reports-go/internal/infra/supabase"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*supabase.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := supabase.NewClient(
		&http.Client{Timeout: 5 * time.Second},
		server.URL,
		"anon-key",
		"service-key",
		resilience.NewCircuitBreaker("supabase-test"),
		resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxConcurrency: 4},
		zap.NewNop(),
	)
	return client, server
}

func TestListOrders_QueryShapeAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotAPIKey, gotAuth string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"ord-1","order_number":"42","status":"finalizado","total":150.5,"payment_status":"pago","amount_paid":150.5,"created_at":"2025-03-10T12:00:00Z"}]`))
	})
	client, _ := newTestClient(t, handler)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	orders, err := client.ListOrders(context.Background(), from, to, "pago")
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}

	if gotPath != "/rest/v1/orders" {
		t.Errorf("path = %q, want /rest/v1/orders", gotPath)
	}
	for _, frag := range []string{"created_at=gte.", "created_at=lte.", "status=eq.pago", "order=created_at.desc", "limit=10000"} {
		if !strings.Contains(gotQuery, frag) {
			t.Errorf("query %q missing %q", gotQuery, frag)
		}
	}
	if gotAPIKey != "anon-key" {
		t.Errorf("apikey header = %q, want anon-key", gotAPIKey)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("Authorization header = %q, want Bearer service-key", gotAuth)
	}

	if len(orders) != 1 || orders[0].ID != "ord-1" || orders[0].Total != 150.5 {
		t.Fatalf("unexpected orders decoded: %+v", orders)
	}
}

func TestListOrders_AllStatusSkipsFilter(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, handler)

	if _, err := client.ListOrders(context.Background(), time.Now().Add(-time.Hour), time.Now(), "all"); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if strings.Contains(gotQuery, "status=eq.") {
		t.Errorf("query %q should not carry a status filter for %q", gotQuery, "all")
	}
}

func TestIDSetJoins_EmptySetSkipsRequest(t *testing.T) {
	var requests atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, handler)
	ctx := context.Background()

	items, err := client.ListOrderItems(ctx, nil)
	if err != nil {
		t.Fatalf("ListOrderItems: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("ListOrderItems(nil) = %v, want empty slice", items)
	}
	if _, err := client.ListSaleItems(ctx, nil); err != nil {
		t.Fatalf("ListSaleItems: %v", err)
	}
	if _, err := client.ListCustomers(ctx, nil); err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if _, err := client.ListProducts(ctx, nil); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if _, err := client.ListProductSupplies(ctx, nil); err != nil {
		t.Fatalf("ListProductSupplies: %v", err)
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("empty id sets issued %d requests, want 0", n)
	}
}

func TestListProductSupplies_EmbeddedSupplyDecodes(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id":"ps-1","product_id":"prod-1","quantity":2,"supply":{"id":"sup-1","name":"Papel couché","cost_per_unit":1.25}}]`))
	})
	client, _ := newTestClient(t, handler)

	supplies, err := client.ListProductSupplies(context.Background(), []string{"prod-1", "prod-2"})
	if err != nil {
		t.Fatalf("ListProductSupplies: %v", err)
	}

	if !strings.Contains(gotQuery, "product_id=in.(prod-1,prod-2)") {
		t.Errorf("query %q missing id-set filter", gotQuery)
	}
	if !strings.Contains(gotQuery, "select=*,supply:supplies(*)") {
		t.Errorf("query %q missing embedded supply select", gotQuery)
	}
	if len(supplies) != 1 {
		t.Fatalf("got %d supplies, want 1", len(supplies))
	}
	if got := supplies[0].LineCost(); got != 2.5 {
		t.Errorf("LineCost = %v, want 2.5", got)
	}
}

func TestListOrderPaymentsBefore_FiltersPaidBeforeCutoff(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, handler)

	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := client.ListOrderPaymentsBefore(context.Background(), cutoff); err != nil {
		t.Fatalf("ListOrderPaymentsBefore: %v", err)
	}
	for _, frag := range []string{"status=eq.pago", "created_at=lt."} {
		if !strings.Contains(gotQuery, frag) {
			t.Errorf("query %q missing %q", gotQuery, frag)
		}
	}
}

func TestFetch_NotFoundMeansEmpty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client, _ := newTestClient(t, handler)

	categories, err := client.ListExpenseCategories(context.Background())
	if err != nil {
		t.Fatalf("ListExpenseCategories: %v", err)
	}
	if categories == nil || len(categories) != 0 {
		t.Errorf("404 should decode to empty slice, got %v", categories)
	}
}

func TestFetch_ServerErrorWrapsExternalService(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	})
	client, _ := newTestClient(t, handler)

	_, err := client.ListSales(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
	var extErr *domain.ErrExternalService
	if !errors.As(err, &extErr) {
		t.Fatalf("error = %v, want *domain.ErrExternalService", err)
	}
	if extErr.Service != "supabase/sales" {
		t.Errorf("Service = %q, want supabase/sales", extErr.Service)
	}
}
