package service

import (
	"context"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DataSet is the immutable snapshot of raw record store collections one
// report bundle is computed from. Nothing in the engine mutates it after
// loading, so the five builders can read it concurrently.
type DataSet struct {
	Orders            []domain.Order
	OrderItems        []domain.OrderItem
	OrderPayments     []domain.OrderPayment
	Sales             []domain.Sale
	SaleItems         []domain.SaleItem
	FinancialEntries  []domain.FinancialEntry
	ExpenseCategories []domain.ExpenseCategory
	Customers         []domain.Customer
	Products          []domain.Product
	ProductSupplies   []domain.ProductSupply

	Window domain.ReportPeriod
}

// defaultWindowDays is how far back the window reaches when the caller
// supplies no start date.
const defaultWindowDays = 30

// resolveWindow applies the single default-window policy: end defaults to
// the end of today (23:59:59.999 local), start to the beginning of the day
// 30 days before the end. Explicit bounds override independently.
func resolveWindow(filter domain.ReportFilter, now time.Time) (time.Time, time.Time) {
	end := now
	if filter.EndDate != nil {
		end = *filter.EndDate
	}
	end = endOfDay(end)

	start := end.AddDate(0, 0, -defaultWindowDays)
	if filter.StartDate != nil {
		start = *filter.StartDate
	}
	start = startOfDay(start)

	return start, end
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// loadDataSet fetches the nine raw collections for the window. Independent
// collections are fetched concurrently; id-set joins (items, payments,
// lookups) run in follow-up concurrent waves once their parent ids are
// known. Any single fetch failure aborts the whole load: the engine never
// fabricates empty sections on I/O error.
func (s *ReportsService) loadDataSet(ctx context.Context, filter domain.ReportFilter, from, to time.Time) (*DataSet, error) {
	ds := &DataSet{Window: domain.ReportPeriod{From: from, To: to}}

	// Wave 1: collections that only depend on the window.
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.store.ListOrders(gCtx, from, to, filter.Status)
		if err != nil {
			return s.fetchFailed("orders", err)
		}
		ds.Orders = rows
		s.metrics.AddRowsLoaded("orders", len(rows))
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListSales(gCtx, from, to)
		if err != nil {
			return s.fetchFailed("sales", err)
		}
		ds.Sales = rows
		s.metrics.AddRowsLoaded("sales", len(rows))
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListFinancialEntries(gCtx, from, to)
		if err != nil {
			return s.fetchFailed("financial_entries", err)
		}
		ds.FinancialEntries = rows
		s.metrics.AddRowsLoaded("financial_entries", len(rows))
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListExpenseCategories(gCtx)
		if err != nil {
			return s.fetchFailed("expense_categories", err)
		}
		ds.ExpenseCategories = rows
		s.metrics.AddRowsLoaded("expense_categories", len(rows))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	orderIDs := make([]string, 0, len(ds.Orders))
	customerIDs := make(map[string]struct{})
	for _, o := range ds.Orders {
		orderIDs = append(orderIDs, o.ID)
		if o.CustomerID != nil {
			customerIDs[*o.CustomerID] = struct{}{}
		}
	}
	saleIDs := make([]string, 0, len(ds.Sales))
	for _, sale := range ds.Sales {
		saleIDs = append(saleIDs, sale.ID)
	}

	// Wave 2: child rows and lookups joined by the parent id sets.
	g, gCtx = errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.store.ListOrderItems(gCtx, orderIDs)
		if err != nil {
			return s.fetchFailed("order_items", err)
		}
		ds.OrderItems = rows
		s.metrics.AddRowsLoaded("order_items", len(rows))
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListOrderPayments(gCtx, orderIDs, from, to)
		if err != nil {
			return s.fetchFailed("order_payments", err)
		}
		ds.OrderPayments = rows
		s.metrics.AddRowsLoaded("order_payments", len(rows))
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListSaleItems(gCtx, saleIDs)
		if err != nil {
			return s.fetchFailed("sale_items", err)
		}
		ds.SaleItems = rows
		s.metrics.AddRowsLoaded("sale_items", len(rows))
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListCustomers(gCtx, keys(customerIDs))
		if err != nil {
			return s.fetchFailed("customers", err)
		}
		ds.Customers = rows
		s.metrics.AddRowsLoaded("customers", len(rows))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	productIDs := make(map[string]struct{})
	for _, it := range ds.OrderItems {
		if it.ProductID != nil {
			productIDs[*it.ProductID] = struct{}{}
		}
	}
	for _, it := range ds.SaleItems {
		if it.ProductID != nil {
			productIDs[*it.ProductID] = struct{}{}
		}
	}

	// Wave 3: product cost basis, referenced by the loaded line items.
	g, gCtx = errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.store.ListProducts(gCtx, keys(productIDs))
		if err != nil {
			return s.fetchFailed("products", err)
		}
		ds.Products = rows
		s.metrics.AddRowsLoaded("products", len(rows))
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListProductSupplies(gCtx, keys(productIDs))
		if err != nil {
			return s.fetchFailed("product_supplies", err)
		}
		ds.ProductSupplies = rows
		s.metrics.AddRowsLoaded("product_supplies", len(rows))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("dataset loaded",
		zap.Int("orders", len(ds.Orders)),
		zap.Int("sales", len(ds.Sales)),
		zap.Int("financial_entries", len(ds.FinancialEntries)),
		zap.Time("from", from),
		zap.Time("to", to),
	)

	return ds, nil
}

func (s *ReportsService) fetchFailed(collection string, err error) error {
	s.metrics.IncrStoreError(collection)
	s.logger.Error("record store fetch failed",
		zap.String("collection", collection),
		zap.Error(err),
	)
	return err
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
