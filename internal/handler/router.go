// Package handler exposes the gateway's HTTP surface: one thin JSON
// endpoint per integration operation, plus health and metrics. Session,
// auth and business routing live in the surrounding application.
package handler

import (
	"net/http"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(
	provisioningSvc *service.ProvisioningService,
	fiscalSvc *service.FiscalService,
	invoicingSvc *service.InvoicingService,
	financeSvc *service.FinanceService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		// Subaccount onboarding + fiscal enablement
		r.Post("/tenants/provision", provisionHandler(provisioningSvc, logger))
		r.Post("/tenants/fiscal", configureFiscalHandler(fiscalSvc, logger))

		// Per-sale flows
		r.Post("/customers/resolve", resolveCustomerHandler(invoicingSvc, logger))
		r.Post("/invoices/product", productInvoiceHandler(invoicingSvc, logger))
		r.Post("/invoices/service", serviceInvoiceHandler(invoicingSvc, logger))

		// Finance mirror
		r.Post("/finance/balance", balanceHandler(financeSvc, logger))
		r.Post("/finance/statement", statementHandler(financeSvc, logger))

		// Metrics snapshot
		r.Get("/metrics/integration", integrationMetricsHandler(metrics))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:  "healthy",
			Service: "marketplace-gateway",
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func integrationMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetIntegrationSnapshot())
	}
}
