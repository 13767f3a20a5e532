// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the reporting
// engine from the concrete record store implementation.
package port

import (
	"context"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// RecordStore is the query surface the engine needs from the durable record
// store. Any backend able to filter by date window, by status and by id set
// (relational DB, document store or remote API) can implement it. The engine
// only ever reads.
type RecordStore interface {
	// Window-filtered primary collections.
	ListOrders(ctx context.Context, from, to time.Time, status string) ([]domain.Order, error)
	ListSales(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
	ListFinancialEntries(ctx context.Context, from, to time.Time) ([]domain.FinancialEntry, error)

	// Id-set joins derived from the primary collections.
	ListOrderItems(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error)
	ListOrderPayments(ctx context.Context, orderIDs []string, from, to time.Time) ([]domain.OrderPayment, error)
	ListSaleItems(ctx context.Context, saleIDs []string) ([]domain.SaleItem, error)

	// Lookups restricted to the referenced ids.
	ListCustomers(ctx context.Context, ids []string) ([]domain.Customer, error)
	ListProducts(ctx context.Context, ids []string) ([]domain.Product, error)
	ListProductSupplies(ctx context.Context, productIDs []string) ([]domain.ProductSupply, error)
	ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error)

	// Realized rows strictly before an instant, for the opening balance.
	ListOrderPaymentsBefore(ctx context.Context, before time.Time) ([]domain.OrderPayment, error)
	ListSalesBefore(ctx context.Context, before time.Time) ([]domain.Sale, error)
	ListFinancialEntriesBefore(ctx context.Context, before time.Time) ([]domain.FinancialEntry, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
