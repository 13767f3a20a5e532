// Package service implements the reporting engine: one batch computation
// per invocation that reconciles order payments, POS sales and the manual
// ledger into five analytical views over a shared immutable snapshot.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
	"github.com/gestorgrafica/grafica-reports-go/internal/infra/observability"
	"github.com/gestorgrafica/grafica-reports-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/reports")

// ReportsService coordinates the record store, the report cache and the
// five builders. It holds no state between invocations.
type ReportsService struct {
	store   port.RecordStore
	cache   port.Cache[*domain.ReportBundle]
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportsService creates the reporting service with all dependencies injected.
func NewReportsService(
	store port.RecordStore,
	cache port.Cache[*domain.ReportBundle],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ReportsService {
	return &ReportsService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// BuildBundle computes the full five-report bundle for the filter. The five
// builders read the same snapshot and run as a fan-out; a failure in any
// raw-source fetch fails the whole bundle, never a partially zeroed one.
func (s *ReportsService) BuildBundle(ctx context.Context, filter domain.ReportFilter) (*domain.ReportBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Reports.BuildBundle")
	defer span.End()

	from, to := resolveWindow(filter, s.now())
	span.SetAttributes(
		attribute.String("report.from", from.Format(time.RFC3339)),
		attribute.String("report.to", to.Format(time.RFC3339)),
		attribute.String("report.status_filter", filter.Status),
	)

	cacheKey := fmt.Sprintf("bundle:%d:%d:%s", from.UnixMilli(), to.UnixMilli(), filter.Status)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("bundle")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("bundle")

	start := time.Now()

	// The snapshot load and the opening balance are independent fetch
	// trees; run them side by side.
	var (
		ds      *DataSet
		opening float64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := s.loadDataSet(gCtx, filter, from, to)
		if err != nil {
			return err
		}
		ds = loaded
		return nil
	})
	g.Go(func() error {
		balance, err := s.openingBalance(gCtx, filter)
		if err != nil {
			return err
		}
		opening = balance
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrBundle("error")
		return nil, err
	}

	bundle := &domain.ReportBundle{Period: ds.Window}

	// Builders are pure functions over the snapshot: embarrassingly
	// parallel, no shared mutable state.
	g, _ = errgroup.WithContext(ctx)
	g.Go(func() error {
		bundle.Cash = timedBuild(s, "cash", func() domain.CashReport { return buildCashReport(ds, opening) })
		return nil
	})
	g.Go(func() error {
		bundle.Financial = timedBuild(s, "financial", func() domain.FinancialReport { return buildFinancialReport(ds) })
		return nil
	})
	g.Go(func() error {
		bundle.Sales = timedBuild(s, "sales", func() domain.SalesReport { return buildSalesReport(ds) })
		return nil
	})
	g.Go(func() error {
		bundle.Customers = timedBuild(s, "customers", func() domain.CustomerReport { return buildCustomerReport(ds) })
		return nil
	})
	g.Go(func() error {
		bundle.Products = timedBuild(s, "products", func() domain.ProductReport { return buildProductReport(ds) })
		return nil
	})
	_ = g.Wait()

	s.metrics.RecordBuildDuration("bundle", time.Since(start))
	s.metrics.IncrBundle("success")
	s.cache.Set(cacheKey, bundle)

	s.logger.Info("report bundle built",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.String("status_filter", filter.Status),
		zap.Int("transactions", len(bundle.Cash.Transactions)),
		zap.Duration("took", time.Since(start)),
	)

	return bundle, nil
}

// timedBuild runs one builder and records its duration.
func timedBuild[T any](s *ReportsService, report string, build func() T) T {
	start := time.Now()
	out := build()
	s.metrics.RecordBuildDuration(report, time.Since(start))
	return out
}

// openingBalance nets every realized movement strictly before the start of
// the report window, using the very same unification rules as the window
// itself. Without an explicit start date the report is unanchored and the
// opening balance is zero.
func (s *ReportsService) openingBalance(ctx context.Context, filter domain.ReportFilter) (float64, error) {
	if filter.StartDate == nil {
		return 0, nil
	}

	ctx, span := tracer.Start(ctx, "Reports.OpeningBalance")
	defer span.End()

	cutoff := startOfDay(*filter.StartDate)

	var (
		payments []domain.OrderPayment
		sales    []domain.Sale
		entries  []domain.FinancialEntry
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListOrderPaymentsBefore(gCtx, cutoff)
		if err != nil {
			return s.fetchFailed("order_payments", err)
		}
		payments = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListSalesBefore(gCtx, cutoff)
		if err != nil {
			return s.fetchFailed("sales", err)
		}
		sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListFinancialEntriesBefore(gCtx, cutoff)
		if err != nil {
			return s.fetchFailed("financial_entries", err)
		}
		entries = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// The store filters on the row's registration timestamp; the effective
	// cash date (paid_at when present) is what actually decides whether a
	// movement precedes the window.
	balance := 0.0
	for _, t := range unifyTransactions(payments, sales, entries) {
		if t.Date.Before(cutoff) {
			balance += t.Signed()
		}
	}
	return balance, nil
}

// CashSeries buckets the window's unified ledger at the given granularity.
func (s *ReportsService) CashSeries(ctx context.Context, filter domain.ReportFilter, granularity Granularity) ([]domain.PeriodBucket, error) {
	ctx, span := tracer.Start(ctx, "Reports.CashSeries")
	defer span.End()
	span.SetAttributes(attribute.String("report.granularity", string(granularity)))

	bundle, err := s.BuildBundle(ctx, filter)
	if err != nil {
		return nil, err
	}
	return buildPeriodSeries(bundle.Cash.Transactions, granularity), nil
}

// Section accessors used by the per-report routes. They share the bundle
// cache, so asking for one view after another does not reload the store.

func (s *ReportsService) CashReport(ctx context.Context, filter domain.ReportFilter) (*domain.CashReport, error) {
	bundle, err := s.BuildBundle(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &bundle.Cash, nil
}

func (s *ReportsService) FinancialReport(ctx context.Context, filter domain.ReportFilter) (*domain.FinancialReport, error) {
	bundle, err := s.BuildBundle(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &bundle.Financial, nil
}

func (s *ReportsService) SalesReport(ctx context.Context, filter domain.ReportFilter) (*domain.SalesReport, error) {
	bundle, err := s.BuildBundle(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &bundle.Sales, nil
}

func (s *ReportsService) CustomerReport(ctx context.Context, filter domain.ReportFilter) (*domain.CustomerReport, error) {
	bundle, err := s.BuildBundle(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &bundle.Customers, nil
}

func (s *ReportsService) ProductReport(ctx context.Context, filter domain.ReportFilter) (*domain.ProductReport, error) {
	bundle, err := s.BuildBundle(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &bundle.Products, nil
}
