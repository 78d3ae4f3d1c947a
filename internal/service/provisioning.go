// Package service implements the gateway workflows on top of the platform
// ports: subaccount provisioning, fiscal enablement, customer resolution,
// invoice emission and the finance mirror.
package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var provTracer = otel.Tracer("service/provisioning")

// Fallback message when the platform's error list is absent or malformed.
const unknownPlatformError = "Erro desconhecido"

// ProvisioningService creates marketplace subaccounts for tenants, or
// reconciles pre-existing ones. The platform is the source of truth for
// uniqueness by tax document: a second provisioning call for the same
// document converges onto the existing subaccount instead of duplicating.
type ProvisioningService struct {
	accounts port.AccountAPI
	profiles port.ProfileStore
	metrics  *observability.Metrics
	logger   *zap.Logger

	group singleflight.Group
}

// NewProvisioningService wires the provisioning workflow.
func NewProvisioningService(accounts port.AccountAPI, profiles port.ProfileStore, metrics *observability.Metrics, logger *zap.Logger) *ProvisioningService {
	return &ProvisioningService{
		accounts: accounts,
		profiles: profiles,
		metrics:  metrics,
		logger:   logger,
	}
}

// isAlreadyInUseConflict detects the platform's duplicate-document answer.
// The platform reports it only as free text inside the validation error
// list, so detection is a substring match. Kept isolated so the predicate
// can change without touching the provisioning control flow.
func isAlreadyInUseConflict(env *domain.Envelope) bool {
	if env.StatusCode != http.StatusBadRequest {
		return false
	}
	for _, desc := range env.ErrorDescriptions() {
		if strings.Contains(strings.ToLower(desc), "já está em uso") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(env.RawText), "já está em uso")
}

// Provision creates a subaccount for the tenant, adopting the returned
// remote id and API key onto the profile and persisting it. When the tax
// document is already registered, it reconciles: looks the subaccount up
// by document, adopts its identity (key too, when the platform returns
// one) and reports Reconciled.
func (s *ProvisioningService) Provision(ctx context.Context, tenant *domain.TenantProfile) (*domain.ProvisionResult, error) {
	ctx, span := provTracer.Start(ctx, "ProvisioningService.Provision")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("provision", time.Since(start)) }()

	document := domain.Digits(tenant.Document)
	span.SetAttributes(attribute.String("tenant.document", document))

	env, err := s.accounts.CreateAccount(ctx, tenant)
	if err != nil {
		s.metrics.IncrProvisioning(observability.OutcomeError)
		s.metrics.IncrExternalError("asaas")
		return nil, err
	}

	if isAlreadyInUseConflict(env) {
		s.logger.Info("provision: document already in use, reconciling",
			zap.String("document", document),
		)
		return s.reconcile(ctx, tenant, document)
	}

	if env.StatusCode == http.StatusOK && !env.NonStructured {
		tenant.Remote = domain.RemoteAccount{
			AccountID: env.Str("id"),
			APIKey:    env.Str("apiKey"),
		}
		if err := s.profiles.SaveProfile(ctx, tenant); err != nil {
			s.metrics.IncrProvisioning(observability.OutcomeError)
			return nil, err
		}

		s.metrics.IncrProvisioning(observability.OutcomeCreated)
		s.logger.Info("provision: subaccount created",
			zap.String("document", document),
			zap.String("account_id", tenant.Remote.AccountID),
		)
		return &domain.ProvisionResult{
			AccountID: tenant.Remote.AccountID,
			APIKey:    tenant.Remote.APIKey,
		}, nil
	}

	s.metrics.IncrProvisioning(observability.OutcomeError)
	return nil, platformValidationError(env)
}

// reconcile adopts an existing subaccount after a creation conflict. When
// the lookup result carries no API key, the key field stays empty and
// later operations fall back to master-key endpoints scoped by account id.
func (s *ProvisioningService) reconcile(ctx context.Context, tenant *domain.TenantProfile, document string) (*domain.ProvisionResult, error) {
	env, err := s.accounts.FindAccountByDocument(ctx, document)
	if err != nil {
		s.metrics.IncrProvisioning(observability.OutcomeError)
		s.metrics.IncrExternalError("asaas")
		return nil, err
	}

	data := env.Data()
	if env.StatusCode != http.StatusOK || len(data) == 0 {
		s.metrics.IncrProvisioning(observability.OutcomeError)
		return nil, platformValidationError(env)
	}

	existing := data[0]
	tenant.Remote.AccountID, _ = existing["id"].(string)
	if key, ok := existing["apiKey"].(string); ok && key != "" {
		tenant.Remote.APIKey = key
	}

	if err := s.profiles.SaveProfile(ctx, tenant); err != nil {
		s.metrics.IncrProvisioning(observability.OutcomeError)
		return nil, err
	}

	s.metrics.IncrProvisioning(observability.OutcomeReconciled)
	s.logger.Info("provision: adopted existing subaccount",
		zap.String("document", document),
		zap.String("account_id", tenant.Remote.AccountID),
		zap.Bool("api_key_known", tenant.Remote.HasKey()),
	)
	return &domain.ProvisionResult{
		AccountID:  tenant.Remote.AccountID,
		APIKey:     tenant.Remote.APIKey,
		Reconciled: true,
	}, nil
}

// ProvisionOnce serializes concurrent provisioning calls per tax document.
// The bare Provision is already convergent (the loser of a create race
// reconciles), but single-flight closes the window in which both callers
// hit the platform.
func (s *ProvisioningService) ProvisionOnce(ctx context.Context, tenant *domain.TenantProfile) (*domain.ProvisionResult, error) {
	v, err, _ := s.group.Do(domain.Digits(tenant.Document), func() (any, error) {
		return s.Provision(ctx, tenant)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ProvisionResult), nil
}

// platformValidationError surfaces the first error description the
// platform returned, or a generic message when the list is missing.
func platformValidationError(env *domain.Envelope) error {
	desc := env.FirstErrorDescription()
	if desc == "" {
		desc = unknownPlatformError
	}
	return &domain.ErrPlatformValidation{StatusCode: env.StatusCode, Description: desc}
}
