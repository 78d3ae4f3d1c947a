package service

import (
	"context"
	"net/http"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/resilience"
	"github.com/sistemclass/marketplace-gateway-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var finTracer = otel.Tracer("service/finance")

// FinanceService mirrors the subaccount's balance and financial statement.
// Both calls are read-only, so they are the one place the gateway retries
// with backoff.
type FinanceService struct {
	api     port.FinanceAPI
	cfg     resilience.Config
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewFinanceService wires the finance mirror.
func NewFinanceService(api port.FinanceAPI, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *FinanceService {
	return &FinanceService{api: api, cfg: cfg, metrics: metrics, logger: logger}
}

func (s *FinanceService) credential(tenant *domain.TenantProfile) (domain.Credential, error) {
	if !tenant.Remote.HasKey() {
		return domain.Credential{}, &domain.ErrPrecondition{
			Message: "subaccount API key is not set: provision the tenant before reading finance data",
		}
	}
	return domain.SubaccountKey(tenant.Remote.APIKey), nil
}

// Balance returns the subaccount's available balance.
func (s *FinanceService) Balance(ctx context.Context, tenant *domain.TenantProfile) (float64, error) {
	ctx, span := finTracer.Start(ctx, "FinanceService.Balance")
	defer span.End()

	cred, err := s.credential(tenant)
	if err != nil {
		return 0, err
	}

	var balance float64
	err = resilience.RetryWithBackoff(ctx, s.cfg, func() error {
		env, err := s.api.GetBalance(ctx, cred)
		if err != nil {
			return err
		}
		if env.StatusCode != http.StatusOK || env.NonStructured {
			return platformValidationError(env)
		}
		balance, _ = env.Body["balance"].(float64)
		return nil
	})
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return 0, err
	}
	return balance, nil
}

// Statement fetches the financial movements for the period, normalized to
// absolute values with a credit/debit kind (the raw statement reports
// outflows as negative values).
func (s *FinanceService) Statement(ctx context.Context, tenant *domain.TenantProfile, start, end time.Time) ([]domain.StatementEntry, error) {
	ctx, span := finTracer.Start(ctx, "FinanceService.Statement")
	defer span.End()

	cred, err := s.credential(tenant)
	if err != nil {
		return nil, err
	}

	var entries []domain.StatementEntry
	err = resilience.RetryWithBackoff(ctx, s.cfg, func() error {
		env, err := s.api.ListFinancialTransactions(ctx, cred, start, end)
		if err != nil {
			return err
		}
		if env.StatusCode != http.StatusOK || env.NonStructured {
			return platformValidationError(env)
		}

		data := env.Data()
		entries = make([]domain.StatementEntry, 0, len(data))
		for _, item := range data {
			value, _ := item["value"].(float64)
			id, _ := item["id"].(string)
			date, _ := item["date"].(string)
			description, _ := item["description"].(string)
			movementType, _ := item["type"].(string)
			if description == "" {
				description = "Movimento: " + movementType
			}

			kind := domain.EntryCredit
			if value < 0 {
				kind = domain.EntryDebit
				value = -value
			}

			entries = append(entries, domain.StatementEntry{
				RemoteID:    id,
				Date:        date,
				Description: description,
				Value:       value,
				Kind:        kind,
			})
		}
		return nil
	})
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return nil, err
	}

	s.logger.Debug("finance: statement fetched",
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}
