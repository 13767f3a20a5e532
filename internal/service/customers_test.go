package service

import (
	"strings"
	"testing"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

func TestBuildCustomerReport_ActivityAggregation(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	ds := &DataSet{
		Orders: []domain.Order{
			{ID: "ord-1", CustomerID: strPtr("cust-1"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 200, AmountPaid: 200, CreatedAt: base},
			{ID: "ord-2", CustomerID: strPtr("cust-1"), Status: "producao", PaymentStatus: domain.StatusPendente, Total: 100, AmountPaid: 40, CreatedAt: base.Add(24 * time.Hour)},
			{ID: "ord-3", CustomerID: strPtr("cust-1"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 50, AmountPaid: 80, CreatedAt: base.Add(-24 * time.Hour)},
		},
		Customers: []domain.Customer{{ID: "cust-1", Name: "Editora Sol"}},
	}

	report := buildCustomerReport(ds)

	if len(report.History) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(report.History))
	}
	activity := report.History[0]

	if activity.Name != "Editora Sol" {
		t.Errorf("name = %q, want Editora Sol", activity.Name)
	}
	if activity.Orders != 3 {
		t.Errorf("orders = %d, want 3 (all statuses count)", activity.Orders)
	}
	if activity.Total != 250 {
		t.Errorf("total = %f, want 250 (paid orders only)", activity.Total)
	}
	// ord-2 owes 60; ord-3's overpayment must not offset it.
	if activity.Balance != 60 {
		t.Errorf("balance = %f, want 60", activity.Balance)
	}
	if activity.LastOrderAt == nil || !activity.LastOrderAt.Equal(base.Add(24*time.Hour)) {
		t.Errorf("lastOrderAt = %v, want most recent order date", activity.LastOrderAt)
	}
}

func TestBuildCustomerReport_AdHocNamesGroupSeparately(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	ds := &DataSet{
		Orders: []domain.Order{
			{ID: "ord-1", CustomerName: strPtr("João"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 10, AmountPaid: 10, CreatedAt: base},
			{ID: "ord-2", CustomerName: strPtr("Maria"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 20, AmountPaid: 20, CreatedAt: base},
			{ID: "ord-3", Status: "concluido", PaymentStatus: domain.StatusPago, Total: 30, AmountPaid: 30, CreatedAt: base},
		},
	}

	report := buildCustomerReport(ds)
	if len(report.History) != 3 {
		t.Fatalf("expected 3 groups (João, Maria, sem-cliente), got %d", len(report.History))
	}

	var anonymous *domain.CustomerActivity
	for i := range report.History {
		if report.History[i].ID == domain.SemClienteKey {
			anonymous = &report.History[i]
		}
	}
	if anonymous == nil {
		t.Fatal("orders without customer should group under the sem-cliente key")
	}
	if anonymous.Name != domain.ClienteFallback {
		t.Errorf("anonymous group name = %q, want %q", anonymous.Name, domain.ClienteFallback)
	}
}

func TestBuildCustomerReport_RankingsAndInsights(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	orders := []domain.Order{
		// cust-1: most orders (3), low revenue
		{ID: "o1", CustomerID: strPtr("cust-1"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 10, AmountPaid: 10, CreatedAt: base},
		{ID: "o2", CustomerID: strPtr("cust-1"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 10, AmountPaid: 10, CreatedAt: base},
		{ID: "o3", CustomerID: strPtr("cust-1"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 10, AmountPaid: 10, CreatedAt: base},
		// cust-2: highest revenue
		{ID: "o4", CustomerID: strPtr("cust-2"), Status: "concluido", PaymentStatus: domain.StatusPago, Total: 900, AmountPaid: 900, CreatedAt: base},
		// cust-3: open balance
		{ID: "o5", CustomerID: strPtr("cust-3"), Status: "producao", PaymentStatus: domain.StatusPendente, Total: 300, AmountPaid: 100, CreatedAt: base},
	}
	ds := &DataSet{
		Orders: orders,
		Customers: []domain.Customer{
			{ID: "cust-1", Name: "Frequente"},
			{ID: "cust-2", Name: "Grande"},
			{ID: "cust-3", Name: "Devedor"},
		},
	}

	report := buildCustomerReport(ds)

	if report.MostActive[0].ID != "cust-1" {
		t.Errorf("most active = %s, want cust-1", report.MostActive[0].ID)
	}
	if report.HighestRevenue[0].ID != "cust-2" {
		t.Errorf("highest revenue = %s, want cust-2", report.HighestRevenue[0].ID)
	}
	if len(report.PendingBalances) != 1 || report.PendingBalances[0].ID != "cust-3" {
		t.Errorf("pending balances = %+v, want only cust-3", report.PendingBalances)
	}

	if len(report.Insights) != 3 {
		t.Fatalf("expected 3 insights, got %d", len(report.Insights))
	}
	if !strings.Contains(report.Insights[0], "Frequente") || !strings.Contains(report.Insights[0], "mais ativo") {
		t.Errorf("first insight = %q", report.Insights[0])
	}
	if !strings.Contains(report.Insights[1], "Grande") || !strings.Contains(report.Insights[1], "maior receita") {
		t.Errorf("second insight = %q", report.Insights[1])
	}
	if !strings.Contains(report.Insights[2], "Devedor") || !strings.Contains(report.Insights[2], "saldo em aberto") {
		t.Errorf("third insight = %q", report.Insights[2])
	}
}

func TestBuildCustomerReport_Empty(t *testing.T) {
	report := buildCustomerReport(&DataSet{})

	if len(report.History) != 0 || len(report.MostActive) != 0 {
		t.Errorf("empty dataset should yield empty rankings: %+v", report)
	}
	if len(report.Insights) != 0 {
		t.Errorf("empty dataset should yield no insights, got %v", report.Insights)
	}
	if report.Insights == nil {
		t.Error("insights should be an empty slice, not nil")
	}
}
