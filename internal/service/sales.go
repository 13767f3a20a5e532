package service

import (
	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// buildSalesReport derives the sales analytics view. Revenue numbers count
// only paid orders and fully paid POS sales, while the status distribution
// tallies every order in the window, quotes and cancellations included.
func buildSalesReport(ds *DataSet) domain.SalesReport {
	statusCounts := make(map[string]int)
	for _, o := range ds.Orders {
		statusCounts[o.Status]++
	}

	paidOrders := make(map[string]domain.Order)
	var totalSales float64
	for _, o := range ds.Orders {
		if o.IsPaidRevenue() {
			paidOrders[o.ID] = o
			totalSales += o.Total
		}
	}
	realizedSales := make(map[string]domain.Sale)
	for _, sale := range ds.Sales {
		if sale.IsRealized() {
			realizedSales[sale.ID] = sale
			totalSales += sale.Total
		}
	}

	transactionCount := len(paidOrders) + len(realizedSales)
	ticketAverage := 0.0
	if transactionCount > 0 {
		ticketAverage = totalSales / float64(transactionCount)
	}

	return domain.SalesReport{
		TotalSales:      totalSales,
		OrderCount:      len(paidOrders),
		TicketAverage:   ticketAverage,
		StatusCounts:    statusCounts,
		SalesByPeriod:   salesTrend(ds, paidOrders, realizedSales),
		SalesByProduct:  salesByProduct(ds, paidOrders, realizedSales),
		SalesByCustomer: salesByCustomer(ds, paidOrders),
	}
}

// salesTrend buckets a synthetic transaction list built from paid orders and
// realized sales (manual ledger entries are deliberately excluded from the
// sales trend) at all four calendar granularities.
func salesTrend(ds *DataSet, paidOrders map[string]domain.Order, realizedSales map[string]domain.Sale) domain.SalesByPeriod {
	// Iterate the fetched slices, not the membership maps, so bucket sums
	// accumulate in a stable order.
	txns := make([]domain.CashTransaction, 0, len(paidOrders)+len(realizedSales))
	for _, o := range ds.Orders {
		if _, ok := paidOrders[o.ID]; !ok {
			continue
		}
		txns = append(txns, domain.CashTransaction{
			ID:     o.ID,
			Date:   o.CreatedAt,
			Type:   domain.TypeEntrada,
			Amount: o.Total,
		})
	}
	for _, sale := range ds.Sales {
		if _, ok := realizedSales[sale.ID]; !ok {
			continue
		}
		txns = append(txns, domain.CashTransaction{
			ID:     sale.ID,
			Date:   sale.CreatedAt,
			Type:   domain.TypeEntrada,
			Amount: sale.Total,
		})
	}

	return domain.SalesByPeriod{
		Daily:   toPeriodPoints(buildPeriodSeries(txns, GranularityDaily)),
		Weekly:  toPeriodPoints(buildPeriodSeries(txns, GranularityWeekly)),
		Monthly: toPeriodPoints(buildPeriodSeries(txns, GranularityMonthly)),
		Annual:  toPeriodPoints(buildPeriodSeries(txns, GranularityAnnual)),
	}
}

// salesByProduct merges paid-order items and realized-sale items under the
// shared product identity, summing quantity and revenue.
func salesByProduct(ds *DataSet, paidOrders map[string]domain.Order, realizedSales map[string]domain.Sale) []domain.ProductSales {
	productNames := make(map[string]string, len(ds.Products))
	for _, p := range ds.Products {
		productNames[p.ID] = p.Name
	}

	agg := make(map[string]*domain.ProductSales)
	add := func(key, name string, quantity, total float64) {
		row, ok := agg[key]
		if !ok {
			if name == "" {
				name = productNames[key]
			}
			row = &domain.ProductSales{ID: key, Name: name}
			agg[key] = row
		}
		row.Quantity += quantity
		row.Total += total
	}

	for _, it := range ds.OrderItems {
		if _, ok := paidOrders[it.OrderID]; !ok {
			continue
		}
		add(orderItemProductKey(it), it.ProductName, it.Quantity, it.Total)
	}
	for _, it := range ds.SaleItems {
		if _, ok := realizedSales[it.SaleID]; !ok {
			continue
		}
		add(saleItemProductKey(it), it.ProductName, it.Quantity, it.Total)
	}

	rows := make([]domain.ProductSales, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, *row)
	}
	// Tie-break on id so equal totals still order deterministically.
	return topN(rows, len(rows), func(a, b domain.ProductSales) bool {
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.ID < b.ID
	})
}

// salesByCustomer groups paid orders by the shared customer identity.
func salesByCustomer(ds *DataSet, paidOrders map[string]domain.Order) []domain.CustomerSales {
	customerNames := make(map[string]string, len(ds.Customers))
	for _, c := range ds.Customers {
		customerNames[c.ID] = c.Name
	}

	orders := make([]domain.Order, 0, len(paidOrders))
	for _, o := range ds.Orders {
		if _, ok := paidOrders[o.ID]; ok {
			orders = append(orders, o)
		}
	}

	rows := make([]domain.CustomerSales, 0)
	for key, group := range groupBy(orders, customerKey) {
		row := domain.CustomerSales{ID: key, Name: displayCustomerName(key, group[0], customerNames)}
		for _, o := range group {
			row.Orders++
			row.Total += o.Total
		}
		rows = append(rows, row)
	}
	return topN(rows, len(rows), func(a, b domain.CustomerSales) bool {
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.ID < b.ID
	})
}

// displayCustomerName resolves a display name for a customer group: lookup
// row, else the order's free-text name, else the generic fallback.
func displayCustomerName(key string, sample domain.Order, customerNames map[string]string) string {
	if name, ok := customerNames[key]; ok && name != "" {
		return name
	}
	if sample.CustomerName != nil && *sample.CustomerName != "" {
		return *sample.CustomerName
	}
	return domain.ClienteFallback
}
