package service

import (
	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// buildFinancialReport derives the revenue/expense view. Revenue comes from
// all three realized sources; expenses exist only as realized despesa ledger
// entries (orders and sales never produce an expense).
func buildFinancialReport(ds *DataSet) domain.FinancialReport {
	revenueByOrigin := map[string]float64{
		domain.OriginPedido: 0,
		domain.OriginPDV:    0,
		domain.OriginManual: 0,
	}
	revenueByMethod := make(map[string]float64)
	expensesByCategory := make(map[string]float64)
	expensesByStatus := make(map[string]float64)

	categoryNames := make(map[string]string, len(ds.ExpenseCategories))
	for _, c := range ds.ExpenseCategories {
		categoryNames[c.ID] = c.Name
	}

	var revenueTotal, expenseTotal float64

	for _, p := range ds.OrderPayments {
		if p.Status != domain.StatusPago {
			continue
		}
		revenueTotal += p.Amount
		revenueByOrigin[domain.OriginPedido] += p.Amount
		revenueByMethod[deref(p.Method, domain.MethodIndefinido)] += p.Amount
	}

	for _, sale := range ds.Sales {
		if !sale.IsRealized() {
			continue
		}
		revenueTotal += sale.Total
		revenueByOrigin[domain.OriginPDV] += sale.Total
		revenueByMethod[deref(sale.PaymentMethod, domain.MethodIndefinido)] += sale.Total
	}

	for _, e := range ds.FinancialEntries {
		switch e.Type {
		case domain.EntryReceita:
			if e.Status != domain.StatusPago {
				continue
			}
			revenueTotal += e.Amount
			revenueByOrigin[domain.OriginManual] += e.Amount
			revenueByMethod[deref(e.PaymentMethod, domain.MethodIndefinido)] += e.Amount

		case domain.EntryDespesa:
			// Status distribution covers every despesa in the window;
			// totals and the category split only count realized rows.
			expensesByStatus[e.Status] += e.Amount
			if e.Status != domain.StatusPago {
				continue
			}
			expenseTotal += e.Amount

			category := domain.SemCategoria
			if e.CategoryID != nil {
				if name, ok := categoryNames[*e.CategoryID]; ok && name != "" {
					category = name
				}
			}
			expensesByCategory[category] += e.Amount
		}
	}

	profit := revenueTotal - expenseTotal
	margin := 0.0
	if revenueTotal != 0 {
		margin = profit / revenueTotal * 100
	}

	unified := unifyTransactions(ds.OrderPayments, ds.Sales, ds.FinancialEntries)

	return domain.FinancialReport{
		RevenueTotal:       revenueTotal,
		ExpenseTotal:       expenseTotal,
		Profit:             profit,
		Margin:             margin,
		RevenueByOrigin:    revenueByOrigin,
		RevenueByMethod:    revenueByMethod,
		ExpensesByCategory: expensesByCategory,
		ExpensesByStatus:   expensesByStatus,
		Cashflow:           buildPeriodSeries(unified, GranularityDaily),
	}
}
