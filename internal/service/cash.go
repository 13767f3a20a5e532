package service

import (
	"sort"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// buildCashReport reconciles the unified ledger for the window into the cash
// view. This is the only report whose transaction ordering is part of the
// contract: most recent first, for display.
func buildCashReport(ds *DataSet, openingBalance float64) domain.CashReport {
	txns := unifyTransactions(ds.OrderPayments, ds.Sales, ds.FinancialEntries)

	var totalIn, totalOut float64
	for _, t := range txns {
		if t.Type == domain.TypeSaida {
			totalOut += t.Amount
		} else {
			totalIn += t.Amount
		}
	}

	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date.After(txns[j].Date) })

	return domain.CashReport{
		Transactions: txns,
		Summary: domain.CashSummary{
			TotalIn:        totalIn,
			TotalOut:       totalOut,
			OpeningBalance: openingBalance,
			ClosingBalance: openingBalance + totalIn - totalOut,
		},
	}
}
