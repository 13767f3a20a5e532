package service

import (
	"testing"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestUnifyTransactions_MapsAllThreeSources(t *testing.T) {
	paidAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	payments := []domain.OrderPayment{
		{ID: "pay-1", OrderID: "ord-1", Amount: 150, Status: domain.StatusPago, Method: strPtr("pix"), PaidAt: &paidAt, CreatedAt: paidAt.Add(-48 * time.Hour)},
		{ID: "pay-2", OrderID: "ord-2", Amount: 80, Status: domain.StatusPendente, CreatedAt: paidAt},
	}
	sales := []domain.Sale{
		{ID: "sale-1", Total: 45, AmountPaid: 45, PaymentMethod: strPtr("dinheiro"), CreatedAt: paidAt},
		{ID: "sale-2", Total: 100, AmountPaid: 60, CreatedAt: paidAt}, // partial, excluded
	}
	entries := []domain.FinancialEntry{
		{ID: "fe-1", Type: domain.EntryReceita, Description: "Aluguel de equipamento", Amount: 200, Status: domain.StatusPago, OccurredAt: paidAt},
		{ID: "fe-2", Type: domain.EntryDespesa, Description: "Tinta", Amount: 70, Status: domain.StatusPago, PaymentMethod: strPtr("cartao"), OccurredAt: paidAt},
		{ID: "fe-3", Type: domain.EntryDespesa, Description: "Papel", Amount: 30, Status: domain.StatusPendente, OccurredAt: paidAt},
	}

	txns := unifyTransactions(payments, sales, entries)
	if len(txns) != 4 {
		t.Fatalf("expected 4 unified transactions, got %d", len(txns))
	}

	byID := make(map[string]domain.CashTransaction)
	for _, tx := range txns {
		byID[tx.ID] = tx
	}

	pay := byID["pay-1"]
	if pay.Type != domain.TypeEntrada || pay.Origin != domain.OriginPedido {
		t.Errorf("payment mapped to %s/%s, want entrada/pedido", pay.Type, pay.Origin)
	}
	if pay.Description != "Recebimento de pedido" {
		t.Errorf("payment description = %q", pay.Description)
	}
	if !pay.Date.Equal(paidAt) {
		t.Errorf("payment date = %v, want paid_at %v", pay.Date, paidAt)
	}

	sale := byID["sale-1"]
	if sale.Type != domain.TypeEntrada || sale.Origin != domain.OriginPDV {
		t.Errorf("sale mapped to %s/%s, want entrada/pdv", sale.Type, sale.Origin)
	}
	if sale.Description != "Venda PDV" {
		t.Errorf("sale description = %q", sale.Description)
	}

	receita := byID["fe-1"]
	if receita.Type != domain.TypeEntrada || receita.Origin != domain.OriginManual {
		t.Errorf("receita mapped to %s/%s, want entrada/manual", receita.Type, receita.Origin)
	}
	if receita.Description != "Aluguel de equipamento" {
		t.Errorf("receita keeps its own description, got %q", receita.Description)
	}

	despesa := byID["fe-2"]
	if despesa.Type != domain.TypeSaida {
		t.Errorf("despesa mapped to %s, want saida", despesa.Type)
	}
	if despesa.Method != "cartao" {
		t.Errorf("despesa method = %q", despesa.Method)
	}

	if _, ok := byID["pay-2"]; ok {
		t.Error("pending payment leaked into the unified ledger")
	}
	if _, ok := byID["sale-2"]; ok {
		t.Error("partially paid sale leaked into the unified ledger")
	}
	if _, ok := byID["fe-3"]; ok {
		t.Error("pending despesa leaked into the unified ledger")
	}
}

func TestUnifyTransactions_DateFallsBackWhenPaidAtMissing(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	occurred := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	txns := unifyTransactions(
		[]domain.OrderPayment{{ID: "pay-1", Amount: 10, Status: domain.StatusPago, CreatedAt: created}},
		nil,
		[]domain.FinancialEntry{{ID: "fe-1", Type: domain.EntryReceita, Amount: 10, Status: domain.StatusPago, OccurredAt: occurred}},
	)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	for _, tx := range txns {
		switch tx.ID {
		case "pay-1":
			if !tx.Date.Equal(created) {
				t.Errorf("payment without paid_at should use created_at, got %v", tx.Date)
			}
		case "fe-1":
			if !tx.Date.Equal(occurred) {
				t.Errorf("entry without paid_at should use occurred_at, got %v", tx.Date)
			}
		}
	}
}

func TestUnifyTransactions_MissingMethodBecomesIndefinido(t *testing.T) {
	txns := unifyTransactions(
		[]domain.OrderPayment{{ID: "pay-1", Amount: 10, Status: domain.StatusPago, CreatedAt: time.Now()}},
		[]domain.Sale{{ID: "sale-1", Total: 20, AmountPaid: 20, CreatedAt: time.Now()}},
		nil,
	)
	for _, tx := range txns {
		if tx.Method != domain.MethodIndefinido {
			t.Errorf("transaction %s method = %q, want %q", tx.ID, tx.Method, domain.MethodIndefinido)
		}
	}
}

func TestNetBalance_SignsBySide(t *testing.T) {
	txns := []domain.CashTransaction{
		{Type: domain.TypeEntrada, Amount: 100},
		{Type: domain.TypeEntrada, Amount: 50},
		{Type: domain.TypeSaida, Amount: 30},
	}
	if got := netBalance(txns); got != 120 {
		t.Errorf("netBalance = %f, want 120", got)
	}
	if got := netBalance(nil); got != 0 {
		t.Errorf("netBalance(nil) = %f, want 0", got)
	}
}
