package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/service"

	"go.uber.org/zap"
)

func provisionedTenant() *domain.TenantProfile {
	tenant := testTenant()
	tenant.Remote = domain.RemoteAccount{AccountID: "acc_1", APIKey: "key_1"}
	return tenant
}

func TestConfigure_RequiresSubaccountKey(t *testing.T) {
	accounts := &accountAPIStub{}
	fiscal := &fiscalAPIStub{}
	svc := service.NewFiscalService(accounts, fiscal, observability.NewMetrics(), zap.NewNop())

	tenant := testTenant() // never provisioned, no key
	err := svc.Configure(context.Background(), tenant, nil)

	var precondition *domain.ErrPrecondition
	if !errors.As(err, &precondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if fiscal.configureCalls != 0 || accounts.commercialCalls != 0 {
		t.Error("no platform call expected without a subaccount key")
	}
}

func TestConfigure_Accepted(t *testing.T) {
	accounts := &accountAPIStub{commercialEnv: jsonEnv(t, 200, map[string]any{})}
	fiscal := &fiscalAPIStub{configureEnv: jsonEnv(t, 200, map[string]any{"status": "ok"})}
	svc := service.NewFiscalService(accounts, fiscal, observability.NewMetrics(), zap.NewNop())

	if err := svc.Configure(context.Background(), provisionedTenant(), []byte{0x01}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if accounts.commercialCalls != 1 {
		t.Errorf("commercial info called %d times, want 1", accounts.commercialCalls)
	}
	if fiscal.configureCalls != 1 {
		t.Errorf("configure called %d times, want 1", fiscal.configureCalls)
	}
	if fiscal.forAccountCalls != 0 {
		t.Error("fallback endpoint must not be used on success")
	}
}

func TestConfigure_404FallsBackOnceToAccountEndpoint(t *testing.T) {
	accounts := &accountAPIStub{commercialEnv: jsonEnv(t, 200, map[string]any{})}
	fiscal := &fiscalAPIStub{
		configureEnv:  rawEnv(404, ""),
		forAccountEnv: jsonEnv(t, 200, map[string]any{"status": "ok"}),
	}
	svc := service.NewFiscalService(accounts, fiscal, observability.NewMetrics(), zap.NewNop())

	if err := svc.Configure(context.Background(), provisionedTenant(), []byte{0x01}); err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}

	if fiscal.configureCalls != 1 || fiscal.forAccountCalls != 1 {
		t.Errorf("calls = %d/%d, want exactly one of each", fiscal.configureCalls, fiscal.forAccountCalls)
	}
	if fiscal.forAccountID != "acc_1" {
		t.Errorf("fallback account id = %q", fiscal.forAccountID)
	}
}

func TestConfigure_FallbackFailureSurfacesStatusAndText(t *testing.T) {
	accounts := &accountAPIStub{commercialEnv: jsonEnv(t, 200, map[string]any{})}
	fiscal := &fiscalAPIStub{
		configureEnv:  rawEnv(404, ""),
		forAccountEnv: rawEnv(500, "fiscal indisponivel"),
	}
	svc := service.NewFiscalService(accounts, fiscal, observability.NewMetrics(), zap.NewNop())

	err := svc.Configure(context.Background(), provisionedTenant(), []byte{0x01})

	var platformErr *domain.ErrPlatformValidation
	if !errors.As(err, &platformErr) {
		t.Fatalf("expected platform validation error, got %v", err)
	}
	if platformErr.StatusCode != 500 {
		t.Errorf("status = %d", platformErr.StatusCode)
	}
	if !strings.Contains(platformErr.Description, "Erro 500") || !strings.Contains(platformErr.Description, "fiscal indisponivel") {
		t.Errorf("description = %q", platformErr.Description)
	}
}

func TestConfigure_CommercialInfoFailureIsIgnored(t *testing.T) {
	accounts := &accountAPIStub{commercialErr: errors.New("connection reset")}
	fiscal := &fiscalAPIStub{configureEnv: jsonEnv(t, 201, map[string]any{"status": "ok"})}
	svc := service.NewFiscalService(accounts, fiscal, observability.NewMetrics(), zap.NewNop())

	if err := svc.Configure(context.Background(), provisionedTenant(), []byte{0x01}); err != nil {
		t.Fatalf("commercial info failure must not block fiscal setup, got %v", err)
	}
	if fiscal.configureCalls != 1 {
		t.Errorf("configure called %d times, want 1", fiscal.configureCalls)
	}
}

func TestConfigure_TransportErrorPropagates(t *testing.T) {
	accounts := &accountAPIStub{commercialEnv: jsonEnv(t, 200, map[string]any{})}
	fiscal := &fiscalAPIStub{
		configureErr: &domain.ErrExternalService{Service: "asaas", Err: errors.New("timeout")},
	}
	svc := service.NewFiscalService(accounts, fiscal, observability.NewMetrics(), zap.NewNop())

	err := svc.Configure(context.Background(), provisionedTenant(), []byte{0x01})

	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if fiscal.forAccountCalls != 0 {
		t.Error("transport errors must not trigger the fallback endpoint")
	}
}
