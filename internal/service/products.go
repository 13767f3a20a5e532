package service

import (
	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// buildProductReport derives per-product performance and margin. Only items
// of paid orders feed quantity and revenue here; POS sale items belong to
// the sales report, not this one.
func buildProductReport(ds *DataSet) domain.ProductReport {
	products := make(map[string]domain.Product, len(ds.Products))
	for _, p := range ds.Products {
		products[p.ID] = p
	}
	supplyCosts := make(map[string]float64)
	for _, ps := range ds.ProductSupplies {
		supplyCosts[ps.ProductID] += ps.LineCost()
	}

	paidOrders := make(map[string]struct{})
	for _, o := range ds.Orders {
		if o.IsPaidRevenue() {
			paidOrders[o.ID] = struct{}{}
		}
	}

	type productAgg struct {
		name     string
		quantity float64
		revenue  float64
	}
	agg := make(map[string]*productAgg)
	ordered := make([]string, 0) // first-seen key order, for stable sums

	for _, it := range ds.OrderItems {
		if _, ok := paidOrders[it.OrderID]; !ok {
			continue
		}
		key := orderItemProductKey(it)
		row, ok := agg[key]
		if !ok {
			name := it.ProductName
			if name == "" {
				name = products[key].Name
			}
			row = &productAgg{name: name}
			agg[key] = row
			ordered = append(ordered, key)
		}
		row.quantity += it.Quantity
		row.revenue += it.Total
	}

	performance := make([]domain.ProductPerformance, 0, len(ordered))
	margins := make([]domain.ProductMargin, 0, len(ordered))
	for _, key := range ordered {
		row := agg[key]
		performance = append(performance, domain.ProductPerformance{
			ID:       key,
			Name:     row.name,
			Quantity: row.quantity,
			Total:    row.revenue,
		})

		unitCost := unitCostWithWaste(products[key], supplyCosts[key])
		margin := row.revenue - unitCost*row.quantity
		marginPct := 0.0
		if row.revenue != 0 {
			marginPct = margin / row.revenue * 100
		}
		margins = append(margins, domain.ProductMargin{
			ID:        key,
			Name:      row.name,
			Quantity:  row.quantity,
			Revenue:   row.revenue,
			UnitCost:  unitCost,
			Margin:    margin,
			MarginPct: marginPct,
		})
	}

	byQuantityDesc := func(a, b domain.ProductPerformance) bool {
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ID < b.ID
	}
	byQuantityAsc := func(a, b domain.ProductPerformance) bool {
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		return a.ID < b.ID
	}

	leastSold := topN(performance, 5, byQuantityAsc)
	lowTurnover := make([]domain.ProductTurnover, 0, len(leastSold))
	for _, p := range leastSold {
		lowTurnover = append(lowTurnover, domain.ProductTurnover{ID: p.ID, Name: p.Name, Quantity: p.Quantity})
	}

	return domain.ProductReport{
		MostSold:  topN(performance, 5, byQuantityDesc),
		LeastSold: leastSold,
		RevenueByProduct: topN(performance, 10, func(a, b domain.ProductPerformance) bool {
			if a.Total != b.Total {
				return a.Total > b.Total
			}
			return a.ID < b.ID
		}),
		MarginByProduct: topN(margins, len(margins), func(a, b domain.ProductMargin) bool {
			if a.Margin != b.Margin {
				return a.Margin > b.Margin
			}
			return a.ID < b.ID
		}),
		LowTurnover: lowTurnover,
	}
}

// unitCostWithWaste computes the fully loaded unit cost of a product:
// (base + labor + supplies) inflated by the waste percentage. Items sold
// without a product row cost zero, so their margin equals their revenue.
func unitCostWithWaste(p domain.Product, supplyCost float64) float64 {
	return (p.BaseCost + p.LaborCost + supplyCost) * (1 + p.WastePercentage/100)
}
