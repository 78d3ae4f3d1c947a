package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/config"
	"github.com/sistemclass/marketplace-gateway-go/internal/handler"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/asaas"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/resilience"
	"github.com/sistemclass/marketplace-gateway-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("asaas_base_url", cfg.AsaasBaseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	if cfg.AsaasMasterKey == "" {
		logger.Warn("ASAAS_MASTER_API_KEY is empty: platform calls will be rejected upstream")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "marketplace-gateway")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	cb := resilience.NewCircuitBreaker("asaas")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Platform client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	platformClient := asaas.NewClient(
		httpClient,
		cfg.AsaasBaseURL,
		cfg.AsaasMasterKey,
		cfg.UserAgent,
		cb,
		bulkhead,
		logger,
	)

	// --- Services ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	provisioningSvc := service.NewProvisioningService(platformClient, handler.ProfileEcho{}, metrics, logger)
	fiscalSvc := service.NewFiscalService(platformClient, platformClient, metrics, logger)
	invoicingSvc := service.NewInvoicingService(platformClient, platformClient, metrics, logger)
	financeSvc := service.NewFinanceService(platformClient, resilienceCfg, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(provisioningSvc, fiscalSvc, invoicingSvc, financeSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
