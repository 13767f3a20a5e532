package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
	"github.com/gestorgrafica/grafica-reports-go/internal/infra/observability"
	"github.com/gestorgrafica/grafica-reports-go/internal/service"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// reportEnvelope stamps a generation id and timestamp onto a computed
// report payload. The payload itself is deterministic for a given filter
// and store state; only the envelope varies between generations.
type reportEnvelope struct {
	ID          string `json:"id"`
	GeneratedAt string `json:"generatedAt"`
	Report      any    `json:"report"`
}

func envelope(payload any) reportEnvelope {
	return reportEnvelope{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Report:      payload,
	}
}

// ============================================================
// 1. Bundle — GET /v1/reports
// ============================================================

func getBundleHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports")
		defer span.End()

		filter, err := parseReportFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		bundle, err := svc.BuildBundle(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, envelope(bundle))
	}
}

// ============================================================
// 2. Sections — GET /v1/reports/{cash,financial,sales,customers,products}
// ============================================================

func getCashReportHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/cash")
		defer span.End()

		filter, err := parseReportFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.CashReport(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, envelope(report))
	}
}

func getFinancialReportHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/financial")
		defer span.End()

		filter, err := parseReportFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.FinancialReport(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, envelope(report))
	}
}

func getSalesReportHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/sales")
		defer span.End()

		filter, err := parseReportFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.SalesReport(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, envelope(report))
	}
}

func getCustomerReportHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/customers")
		defer span.End()

		filter, err := parseReportFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.CustomerReport(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, envelope(report))
	}
}

func getProductReportHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/products")
		defer span.End()

		filter, err := parseReportFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.ProductReport(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, envelope(report))
	}
}

// ============================================================
// 3. Cash series — GET /v1/reports/cash/series?granularity=
// ============================================================

func getCashSeriesHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/cash/series")
		defer span.End()

		filter, err := parseReportFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		granularity, err := service.ParseGranularity(r.URL.Query().Get("granularity"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("report.granularity", string(granularity)))

		series, err := svc.CashSeries(ctx, filter, granularity)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"granularity": granularity,
			"series":      series,
		})
	}
}

// ============================================================
// 4. Métricas & Health
// ============================================================

func engineMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetEngineSnapshot()
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func healthzHandler(store storeProber, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		storeStatus := "healthy"
		if store != nil {
			if _, err := store.ListExpenseCategories(ctx); err != nil {
				logger.Warn("healthz: record store probe failed", zap.Error(err))
				storeStatus = "degraded"
			}
		}

		overall := "healthy"
		if storeStatus != "healthy" {
			overall = "degraded"
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:  overall,
			Service: "grafica-reports",
			Store:   storeStatus,
		})
	}
}

// storeProber is the slice of the record store the health check needs.
type storeProber interface {
	ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error)
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
