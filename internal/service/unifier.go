package service

import (
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// The unifier normalizes the three realized-cash sources (order payments,
// POS sales, manual ledger entries) into the single CashTransaction shape.
// Every realized event maps to exactly one transaction; pending or partially
// paid events never appear.

// paymentCashDate is the single resolver for "when did this payment's cash
// move". The opening balance calculator uses the same resolver so the two
// can never disagree.
func paymentCashDate(p domain.OrderPayment) time.Time {
	if p.PaidAt != nil {
		return *p.PaidAt
	}
	return p.CreatedAt
}

// entryCashDate resolves the effective cash date of a manual ledger entry.
func entryCashDate(e domain.FinancialEntry) time.Time {
	if e.PaidAt != nil {
		return *e.PaidAt
	}
	return e.OccurredAt
}

// deref returns *s, or fallback when s is nil or empty.
func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// unifyTransactions maps the realized subset of the three sources into cash
// transactions. Output order is unspecified; callers sort as needed.
func unifyTransactions(payments []domain.OrderPayment, sales []domain.Sale, entries []domain.FinancialEntry) []domain.CashTransaction {
	txns := make([]domain.CashTransaction, 0, len(payments)+len(sales)+len(entries))

	for _, p := range payments {
		if p.Status != domain.StatusPago {
			continue
		}
		txns = append(txns, domain.CashTransaction{
			ID:          p.ID,
			Date:        paymentCashDate(p),
			Type:        domain.TypeEntrada,
			Origin:      domain.OriginPedido,
			Description: "Recebimento de pedido",
			Amount:      p.Amount,
			Method:      deref(p.Method, domain.MethodIndefinido),
			Status:      domain.StatusPago,
		})
	}

	for _, sale := range sales {
		if !sale.IsRealized() {
			continue
		}
		txns = append(txns, domain.CashTransaction{
			ID:          sale.ID,
			Date:        sale.CreatedAt,
			Type:        domain.TypeEntrada,
			Origin:      domain.OriginPDV,
			Description: "Venda PDV",
			Amount:      sale.Total,
			Method:      deref(sale.PaymentMethod, domain.MethodIndefinido),
			Status:      domain.StatusPago,
		})
	}

	for _, e := range entries {
		if e.Status != domain.StatusPago {
			continue
		}
		txType := domain.TypeEntrada
		if e.Type == domain.EntryDespesa {
			txType = domain.TypeSaida
		}
		txns = append(txns, domain.CashTransaction{
			ID:          e.ID,
			Date:        entryCashDate(e),
			Type:        txType,
			Origin:      deref(e.Origin, domain.OriginManual),
			Description: e.Description,
			Amount:      e.Amount,
			Method:      deref(e.PaymentMethod, domain.MethodIndefinido),
			Status:      domain.StatusPago,
		})
	}

	return txns
}

// netBalance nets a unified transaction list: entradas add, saídas subtract.
func netBalance(txns []domain.CashTransaction) float64 {
	total := 0.0
	for _, t := range txns {
		total += t.Signed()
	}
	return total
}
