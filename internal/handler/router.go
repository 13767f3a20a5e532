package handler

import (
	"net/http"

	"github.com/gestorgrafica/grafica-reports-go/internal/infra/observability"
	"github.com/gestorgrafica/grafica-reports-go/internal/port"
	"github.com/gestorgrafica/grafica-reports-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract consumed by the management frontend.
func NewRouter(svc *service.ReportsService, tokenSvc *service.TokenService, store port.RecordStore, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(store, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 📊 Relatórios
		// =============================================
		r.Group(func(r chi.Router) {
			if tokenSvc != nil {
				r.Use(JWTAuthMiddleware(tokenSvc, logger))
			}
			r.Get("/reports", getBundleHandler(svc, logger))
			r.Get("/reports/cash", getCashReportHandler(svc, logger))
			r.Get("/reports/cash/series", getCashSeriesHandler(svc, logger))
			r.Get("/reports/financial", getFinancialReportHandler(svc, logger))
			r.Get("/reports/sales", getSalesReportHandler(svc, logger))
			r.Get("/reports/customers", getCustomerReportHandler(svc, logger))
			r.Get("/reports/products", getProductReportHandler(svc, logger))
		})

		// =============================================
		// 2. 🔧 Métricas do motor
		// =============================================
		r.Get("/metrics/engine", engineMetricsHandler(metrics, logger))
	})

	return r
}
