package service

import (
	"fmt"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// buildCustomerReport groups every order in the window (any status) under
// the shared customer identity and derives the activity rankings.
func buildCustomerReport(ds *DataSet) domain.CustomerReport {
	customerNames := make(map[string]string, len(ds.Customers))
	for _, c := range ds.Customers {
		customerNames[c.ID] = c.Name
	}

	groups := groupBy(ds.Orders, customerKey)

	activities := make([]domain.CustomerActivity, 0, len(groups))
	for key, orders := range groups {
		activity := domain.CustomerActivity{
			ID:   key,
			Name: displayCustomerName(key, orders[0], customerNames),
		}
		for _, o := range orders {
			activity.Orders++
			if o.IsPaidRevenue() {
				activity.Total += o.Total
			}
			// Outstanding receivable is clamped per order: an overpaid
			// order never offsets another order's open balance.
			if open := o.Total - o.AmountPaid; open > 0 {
				activity.Balance += open
			}
			if activity.LastOrderAt == nil || o.CreatedAt.After(*activity.LastOrderAt) {
				last := o.CreatedAt
				activity.LastOrderAt = &last
			}
		}
		activities = append(activities, activity)
	}

	mostActive := topN(activities, 5, func(a, b domain.CustomerActivity) bool {
		if a.Orders != b.Orders {
			return a.Orders > b.Orders
		}
		return a.ID < b.ID
	})

	highestRevenue := topN(activities, 5, func(a, b domain.CustomerActivity) bool {
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.ID < b.ID
	})

	withBalance := make([]domain.CustomerActivity, 0)
	for _, a := range activities {
		if a.Balance > 0 {
			withBalance = append(withBalance, a)
		}
	}
	pendingBalances := topN(withBalance, 5, func(a, b domain.CustomerActivity) bool {
		if a.Balance != b.Balance {
			return a.Balance > b.Balance
		}
		return a.ID < b.ID
	})

	history := topN(activities, len(activities), func(a, b domain.CustomerActivity) bool {
		switch {
		case a.LastOrderAt == nil && b.LastOrderAt == nil:
			return a.ID < b.ID
		case a.LastOrderAt == nil:
			return false // customers with no orders sort last
		case b.LastOrderAt == nil:
			return true
		case !a.LastOrderAt.Equal(*b.LastOrderAt):
			return a.LastOrderAt.After(*b.LastOrderAt)
		default:
			return a.ID < b.ID
		}
	})

	return domain.CustomerReport{
		MostActive:      mostActive,
		HighestRevenue:  highestRevenue,
		PendingBalances: pendingBalances,
		Insights:        customerInsights(mostActive, highestRevenue, pendingBalances),
		History:         history,
	}
}

// customerInsights derives headline strings naming the top entry of each
// ranking. Empty rankings contribute nothing.
func customerInsights(mostActive, highestRevenue, pendingBalances []domain.CustomerActivity) []string {
	insights := make([]string, 0, 3)
	if len(mostActive) > 0 {
		top := mostActive[0]
		insights = append(insights, fmt.Sprintf("%s é o cliente mais ativo, com %d pedidos no período", top.Name, top.Orders))
	}
	if len(highestRevenue) > 0 {
		top := highestRevenue[0]
		insights = append(insights, fmt.Sprintf("%s gerou a maior receita: R$ %.2f", top.Name, top.Total))
	}
	if len(pendingBalances) > 0 {
		top := pendingBalances[0]
		insights = append(insights, fmt.Sprintf("%s tem o maior saldo em aberto: R$ %.2f", top.Name, top.Balance))
	}
	return insights
}
