package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// Implements port.RecordStore. Tables belong to the management app's
// Supabase project; all queries are read-only window/id-set filters.

const fetchLimit = 10000

func ts(t time.Time) string {
	return url.QueryEscape(t.Format(time.RFC3339))
}

func idList(ids []string) string {
	return strings.Join(ids, ",")
}

func (c *Client) wrapErr(collection string, err error) error {
	return &domain.ErrExternalService{Service: "supabase/" + collection, Err: err}
}

// ============================================================
// Window-filtered primary collections
// ============================================================

// ListOrders returns orders created inside the inclusive window, optionally
// restricted to one status ("" or "all" means any).
func (c *Client) ListOrders(ctx context.Context, from, to time.Time, status string) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOrders")
	defer span.End()
	span.SetAttributes(attribute.String("report.status_filter", status))

	path := fmt.Sprintf("orders?created_at=gte.%s&created_at=lte.%s&order=created_at.desc&limit=%d",
		ts(from), ts(to), fetchLimit)
	if status != "" && status != "all" {
		path += "&status=eq." + url.QueryEscape(status)
	}

	rows, err := fetchRows[domain.Order](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("orders", err)
	}
	return rows, nil
}

// ListSales returns POS sales created inside the inclusive window.
func (c *Client) ListSales(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSales")
	defer span.End()

	path := fmt.Sprintf("sales?created_at=gte.%s&created_at=lte.%s&order=created_at.desc&limit=%d",
		ts(from), ts(to), fetchLimit)

	rows, err := fetchRows[domain.Sale](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("sales", err)
	}
	return rows, nil
}

// ListFinancialEntries returns manual ledger entries whose occurrence date
// falls inside the inclusive window.
func (c *Client) ListFinancialEntries(ctx context.Context, from, to time.Time) ([]domain.FinancialEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListFinancialEntries")
	defer span.End()

	path := fmt.Sprintf("financial_entries?occurred_at=gte.%s&occurred_at=lte.%s&order=occurred_at.desc&limit=%d",
		ts(from), ts(to), fetchLimit)

	rows, err := fetchRows[domain.FinancialEntry](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("financial_entries", err)
	}
	return rows, nil
}

// ============================================================
// Id-set joins
// ============================================================

// ListOrderItems returns the line items of the given orders.
func (c *Client) ListOrderItems(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOrderItems")
	defer span.End()

	if len(orderIDs) == 0 {
		return []domain.OrderItem{}, nil
	}
	path := fmt.Sprintf("order_items?order_id=in.(%s)&limit=%d", idList(orderIDs), fetchLimit)

	rows, err := fetchRows[domain.OrderItem](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("order_items", err)
	}
	return rows, nil
}

// ListOrderPayments returns payments of the given orders registered inside
// the inclusive window.
func (c *Client) ListOrderPayments(ctx context.Context, orderIDs []string, from, to time.Time) ([]domain.OrderPayment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOrderPayments")
	defer span.End()

	if len(orderIDs) == 0 {
		return []domain.OrderPayment{}, nil
	}
	path := fmt.Sprintf("order_payments?order_id=in.(%s)&created_at=gte.%s&created_at=lte.%s&limit=%d",
		idList(orderIDs), ts(from), ts(to), fetchLimit)

	rows, err := fetchRows[domain.OrderPayment](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("order_payments", err)
	}
	return rows, nil
}

// ListSaleItems returns the line items of the given POS sales.
func (c *Client) ListSaleItems(ctx context.Context, saleIDs []string) ([]domain.SaleItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSaleItems")
	defer span.End()

	if len(saleIDs) == 0 {
		return []domain.SaleItem{}, nil
	}
	path := fmt.Sprintf("sale_items?sale_id=in.(%s)&limit=%d", idList(saleIDs), fetchLimit)

	rows, err := fetchRows[domain.SaleItem](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("sale_items", err)
	}
	return rows, nil
}

// ============================================================
// Lookups
// ============================================================

// ListCustomers returns the customer lookup rows for the given ids.
func (c *Client) ListCustomers(ctx context.Context, ids []string) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCustomers")
	defer span.End()

	if len(ids) == 0 {
		return []domain.Customer{}, nil
	}
	path := fmt.Sprintf("customers?id=in.(%s)&limit=%d", idList(ids), fetchLimit)

	rows, err := fetchRows[domain.Customer](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("customers", err)
	}
	return rows, nil
}

// ListProducts returns the product cost rows for the given ids.
func (c *Client) ListProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProducts")
	defer span.End()

	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	path := fmt.Sprintf("products?id=in.(%s)&limit=%d", idList(ids), fetchLimit)

	rows, err := fetchRows[domain.Product](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("products", err)
	}
	return rows, nil
}

// ListProductSupplies returns the supply consumption rows of the given
// products, with the supply row embedded so cost_per_unit comes along.
func (c *Client) ListProductSupplies(ctx context.Context, productIDs []string) ([]domain.ProductSupply, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProductSupplies")
	defer span.End()

	if len(productIDs) == 0 {
		return []domain.ProductSupply{}, nil
	}
	path := fmt.Sprintf("product_supplies?product_id=in.(%s)&select=*,supply:supplies(*)&limit=%d",
		idList(productIDs), fetchLimit)

	rows, err := fetchRows[domain.ProductSupply](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("product_supplies", err)
	}
	return rows, nil
}

// ListExpenseCategories returns the full expense category lookup.
func (c *Client) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListExpenseCategories")
	defer span.End()

	path := fmt.Sprintf("expense_categories?order=name.asc&limit=%d", fetchLimit)

	rows, err := fetchRows[domain.ExpenseCategory](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("expense_categories", err)
	}
	return rows, nil
}

// ============================================================
// Opening balance (strictly before an instant)
// ============================================================

// ListOrderPaymentsBefore returns realized payments registered strictly
// before the given instant.
func (c *Client) ListOrderPaymentsBefore(ctx context.Context, before time.Time) ([]domain.OrderPayment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOrderPaymentsBefore")
	defer span.End()

	path := fmt.Sprintf("order_payments?status=eq.pago&created_at=lt.%s&limit=%d", ts(before), fetchLimit)

	rows, err := fetchRows[domain.OrderPayment](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("order_payments", err)
	}
	return rows, nil
}

// ListSalesBefore returns POS sales created strictly before the given
// instant. Realization (amount_paid >= total) is checked by the unifier,
// PostgREST cannot compare two columns.
func (c *Client) ListSalesBefore(ctx context.Context, before time.Time) ([]domain.Sale, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSalesBefore")
	defer span.End()

	path := fmt.Sprintf("sales?created_at=lt.%s&limit=%d", ts(before), fetchLimit)

	rows, err := fetchRows[domain.Sale](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("sales", err)
	}
	return rows, nil
}

// ListFinancialEntriesBefore returns realized ledger entries that occurred
// strictly before the given instant.
func (c *Client) ListFinancialEntriesBefore(ctx context.Context, before time.Time) ([]domain.FinancialEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListFinancialEntriesBefore")
	defer span.End()

	path := fmt.Sprintf("financial_entries?status=eq.pago&occurred_at=lt.%s&limit=%d", ts(before), fetchLimit)

	rows, err := fetchRows[domain.FinancialEntry](ctx, c, path)
	if err != nil {
		return nil, c.wrapErr("financial_entries", err)
	}
	return rows, nil
}
