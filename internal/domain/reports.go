package domain

import "time"

// ============================================================
// Report filter
// ============================================================

// ReportFilter bounds a report computation. Nil dates fall back to the
// default window (last 30 days); Status filters orders, "all"/"" means any.
type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

// ============================================================
// Unified cash ledger
// ============================================================

// CashTransaction is the normalized shape every realized money movement from
// any source (order payment, POS sale, manual entry) is mapped into. It lives
// only for the duration of a single report computation.
type CashTransaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"` // entrada | saida
	Origin      string    `json:"origin"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
}

// Signed returns the amount with direction applied (saida is negative).
func (t CashTransaction) Signed() float64 {
	if t.Type == TypeSaida {
		return -t.Amount
	}
	return t.Amount
}

// PeriodBucket aggregates transactions of one labeled time slot.
type PeriodBucket struct {
	Label   string  `json:"label"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

// PeriodPoint is a single-series period aggregate (sales trend).
type PeriodPoint struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// ============================================================
// Cash report
// ============================================================

// CashSummary is the reconciled cash position for the window.
type CashSummary struct {
	TotalIn        float64 `json:"totalIn"`
	TotalOut       float64 `json:"totalOut"`
	OpeningBalance float64 `json:"openingBalance"`
	ClosingBalance float64 `json:"closingBalance"`
}

// CashReport is the unified ledger view: every realized movement in the
// window, most recent first, plus opening/closing balances.
type CashReport struct {
	Transactions []CashTransaction `json:"transactions"`
	Summary      CashSummary       `json:"summary"`
}

// ============================================================
// Financial report
// ============================================================

// FinancialReport breaks realized revenue and expenses down by origin,
// payment method, category and status, with a daily cashflow series.
type FinancialReport struct {
	RevenueTotal       float64            `json:"revenueTotal"`
	ExpenseTotal       float64            `json:"expenseTotal"`
	Profit             float64            `json:"profit"`
	Margin             float64            `json:"margin"`
	RevenueByOrigin    map[string]float64 `json:"revenueByOrigin"`
	RevenueByMethod    map[string]float64 `json:"revenueByMethod"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
	ExpensesByStatus   map[string]float64 `json:"expensesByStatus"`
	Cashflow           []PeriodBucket     `json:"cashflow"`
}

// ============================================================
// Sales report
// ============================================================

// ProductSales aggregates quantity and revenue per product.
type ProductSales struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Total    float64 `json:"total"`
}

// CustomerSales aggregates paid orders per customer.
type CustomerSales struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Orders int     `json:"orders"`
	Total  float64 `json:"total"`
}

// SalesByPeriod carries the sales trend at all calendar granularities.
type SalesByPeriod struct {
	Daily   []PeriodPoint `json:"daily"`
	Weekly  []PeriodPoint `json:"weekly"`
	Monthly []PeriodPoint `json:"monthly"`
	Annual  []PeriodPoint `json:"annual"`
}

// SalesReport is the sales analytics view.
type SalesReport struct {
	TotalSales      float64         `json:"totalSales"`
	OrderCount      int             `json:"orderCount"`
	TicketAverage   float64         `json:"ticketAverage"`
	StatusCounts    map[string]int  `json:"statusCounts"`
	SalesByPeriod   SalesByPeriod   `json:"salesByPeriod"`
	SalesByProduct  []ProductSales  `json:"salesByProduct"`
	SalesByCustomer []CustomerSales `json:"salesByCustomer"`
}

// ============================================================
// Customer report
// ============================================================

// CustomerActivity is one customer's aggregate across ALL orders (any status).
type CustomerActivity struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Orders      int        `json:"orders"`
	Total       float64    `json:"total"`   // realized (paid) revenue only
	Balance     float64    `json:"balance"` // outstanding receivable, never negative
	LastOrderAt *time.Time `json:"lastOrderAt"`
}

// CustomerReport is the customer analytics view.
type CustomerReport struct {
	MostActive      []CustomerActivity `json:"mostActive"`
	HighestRevenue  []CustomerActivity `json:"highestRevenue"`
	PendingBalances []CustomerActivity `json:"pendingBalances"`
	Insights        []string           `json:"insights"`
	History         []CustomerActivity `json:"history"`
}

// ============================================================
// Product report
// ============================================================

// ProductPerformance is one product's sold quantity and revenue.
type ProductPerformance struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Total    float64 `json:"total"`
}

// ProductMargin carries the fully loaded cost and margin per product.
type ProductMargin struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Revenue   float64 `json:"revenue"`
	UnitCost  float64 `json:"unitCost"` // with waste applied
	Margin    float64 `json:"margin"`
	MarginPct float64 `json:"marginPct"`
}

// ProductTurnover is the slim shape used by the low-turnover list.
type ProductTurnover struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// ProductReport is the product analytics view (paid order items only).
type ProductReport struct {
	MostSold         []ProductPerformance `json:"mostSold"`
	LeastSold        []ProductPerformance `json:"leastSold"`
	RevenueByProduct []ProductPerformance `json:"revenueByProduct"`
	MarginByProduct  []ProductMargin      `json:"marginByProduct"`
	LowTurnover      []ProductTurnover    `json:"lowTurnover"`
}

// ============================================================
// Bundle
// ============================================================

// ReportPeriod echoes the effective window back to the caller.
type ReportPeriod struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ReportBundle is the full output of one engine invocation. All five views
// are computed from the same immutable snapshot of the record store. The
// bundle is deterministic: identical inputs over an unchanged store produce
// identical bundles (generation metadata lives in the HTTP envelope).
type ReportBundle struct {
	Period      ReportPeriod    `json:"period"`
	Cash        CashReport      `json:"cash"`
	Financial   FinancialReport `json:"financial"`
	Sales       SalesReport     `json:"sales"`
	Customers   CustomerReport  `json:"customers"`
	Products    ProductReport   `json:"products"`
}
