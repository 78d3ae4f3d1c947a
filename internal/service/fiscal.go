package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var fiscalTracer = otel.Tracer("service/fiscal")

// FiscalService uploads a subaccount's fiscal configuration and
// certificate, enabling invoice issuance. It is invoked from best-effort
// enablement workflows, so every failure comes back as an error value;
// nothing panics through this layer.
type FiscalService struct {
	accounts port.AccountAPI
	fiscal   port.FiscalAPI
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewFiscalService wires the fiscal enablement workflow.
func NewFiscalService(accounts port.AccountAPI, fiscal port.FiscalAPI, metrics *observability.Metrics, logger *zap.Logger) *FiscalService {
	return &FiscalService{
		accounts: accounts,
		fiscal:   fiscal,
		metrics:  metrics,
		logger:   logger,
	}
}

// Configure pushes the tenant's fiscal settings and certificate to the
// platform. The subaccount API key is a hard precondition: configuring
// with an empty credential would silently hit the wrong account, so the
// call refuses instead. When the subaccount-scoped endpoint answers 404
// (fiscal features not enabled for it yet), the configuration is retried
// once through the tenant-scoped endpoint with the master key.
func (s *FiscalService) Configure(ctx context.Context, tenant *domain.TenantProfile, certificate []byte) error {
	ctx, span := fiscalTracer.Start(ctx, "FiscalService.Configure")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("configure_fiscal", time.Since(start)) }()

	if !tenant.Remote.HasKey() {
		return &domain.ErrPrecondition{
			Message: "subaccount API key is not set: provision the tenant before configuring fiscal data",
		}
	}
	cred := domain.SubaccountKey(tenant.Remote.APIKey)

	// Best effort: the platform refuses fiscal setup for subaccounts
	// without commercial data. The outcome is deliberately not checked.
	if _, err := s.accounts.UpdateCommercialInfo(ctx, cred, tenant.CompanyType()); err != nil {
		s.logger.Warn("fiscal: commercial info update failed, continuing",
			zap.String("account_id", tenant.Remote.AccountID),
			zap.Error(err),
		)
	}

	setup := domain.NewFiscalSetup(tenant, certificate)

	env, err := s.fiscal.ConfigureFiscal(ctx, cred, setup)
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return err
	}

	if env.StatusCode == http.StatusNotFound {
		s.logger.Info("fiscal: subaccount endpoint not found, retrying via master key",
			zap.String("account_id", tenant.Remote.AccountID),
		)
		env, err = s.fiscal.ConfigureFiscalForAccount(ctx, tenant.Remote.AccountID, setup)
		if err != nil {
			s.metrics.IncrExternalError("asaas")
			return err
		}
	}

	if env.StatusCode == http.StatusOK || env.StatusCode == http.StatusCreated {
		s.logger.Info("fiscal: configuration accepted",
			zap.String("account_id", tenant.Remote.AccountID),
			zap.Int("status", env.StatusCode),
		)
		return nil
	}

	desc := env.FirstErrorDescription()
	if desc == "" {
		desc = env.RawText
	}
	return &domain.ErrPlatformValidation{
		StatusCode:  env.StatusCode,
		Description: fmt.Sprintf("Erro %d: %s", env.StatusCode, desc),
	}
}
