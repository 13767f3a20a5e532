// Package domain defines the core business entities for the reporting engine.
// These models mirror the management app's record store tables and are
// independent of the transport used to fetch them.
package domain

import "time"

// ============================================================
// Enumerations / well-known values
// ============================================================

// Cash flow direction of a transaction.
const (
	TypeEntrada = "entrada"
	TypeSaida   = "saida"
)

// Origin of a cash transaction (which subsystem generated the movement).
const (
	OriginPedido = "pedido"
	OriginPDV    = "pdv"
	OriginManual = "manual"
)

// Statuses shared across orders, payments and ledger entries.
const (
	StatusPago     = "pago"
	StatusPendente = "pendente"
	StatusAtrasado = "atrasado"

	// OrderStatusOrcamento marks a quote: never counted as revenue.
	OrderStatusOrcamento = "orcamento"
)

// Ledger entry kinds.
const (
	EntryReceita = "receita"
	EntryDespesa = "despesa"
)

// Fallback sentinels used when optional fields are missing.
const (
	MethodIndefinido = "indefinido"
	SemCategoria     = "Sem categoria"
	ClienteFallback  = "Cliente"
	SemClienteKey    = "sem-cliente"
)

// ============================================================
// Orders
// ============================================================

// Order is a print-shop order header.
type Order struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	CustomerID    *string   `json:"customer_id"`
	CustomerName  *string   `json:"customer_name"`
	Status        string    `json:"status"`
	Subtotal      float64   `json:"subtotal"`
	Discount      float64   `json:"discount"`
	Total         float64   `json:"total"`
	PaymentMethod *string   `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	AmountPaid    float64   `json:"amount_paid"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsQuote reports whether the order is still a quote (orçamento).
func (o Order) IsQuote() bool {
	return o.Status == OrderStatusOrcamento
}

// IsPaidRevenue reports whether the order counts as realized revenue.
func (o Order) IsPaidRevenue() bool {
	return !o.IsQuote() && o.PaymentStatus == StatusPago
}

// OrderItem is a line item of an Order.
type OrderItem struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   *string `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// OrderPayment is a payment event against an Order.
// Only status "pago" rows represent realized cash.
type OrderPayment struct {
	ID        string     `json:"id"`
	OrderID   string     `json:"order_id"`
	Amount    float64    `json:"amount"`
	Status    string     `json:"status"`
	Method    *string    `json:"method"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// ============================================================
// Point of sale
// ============================================================

// Sale is a POS checkout. Realized only when AmountPaid >= Total.
type Sale struct {
	ID            string    `json:"id"`
	CustomerID    *string   `json:"customer_id"`
	Subtotal      float64   `json:"subtotal"`
	Discount      float64   `json:"discount"`
	Total         float64   `json:"total"`
	PaymentMethod *string   `json:"payment_method"`
	AmountPaid    float64   `json:"amount_paid"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsRealized reports whether the sale has been fully paid.
// Comparison is exact: partial payments never count.
func (s Sale) IsRealized() bool {
	return s.AmountPaid >= s.Total
}

// SaleItem is a line item of a POS Sale.
type SaleItem struct {
	ID          string  `json:"id"`
	SaleID      string  `json:"sale_id"`
	ProductID   *string `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// ============================================================
// Manual ledger
// ============================================================

// FinancialEntry is a manually registered ledger entry (receita or despesa).
type FinancialEntry struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Origin        *string    `json:"origin"`
	CategoryID    *string    `json:"category_id"`
	Description   string     `json:"description"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	PaymentMethod *string    `json:"payment_method"`
	OccurredAt    time.Time  `json:"occurred_at"`
	PaidAt        *time.Time `json:"paid_at"`
}

// ExpenseCategory is the lookup table for FinancialEntry.CategoryID.
type ExpenseCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ============================================================
// Lookups
// ============================================================

// Customer is the customer lookup row.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product carries the cost basis used for margin math.
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BaseCost        float64 `json:"base_cost"`
	LaborCost       float64 `json:"labor_cost"`
	WastePercentage float64 `json:"waste_percentage"`
}

// ProductSupply links a product to a consumed supply. The record store embeds
// the supply row so cost_per_unit comes along in the same fetch.
type ProductSupply struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Supply    *Supply `json:"supply"`
}

// Supply is the embedded supply lookup.
type Supply struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CostPerUnit float64 `json:"cost_per_unit"`
}

// LineCost returns the supply cost contribution of one supply line,
// tolerating a missing embedded supply row.
func (ps ProductSupply) LineCost() float64 {
	if ps.Supply == nil {
		return 0
	}
	return ps.Quantity * ps.Supply.CostPerUnit
}
