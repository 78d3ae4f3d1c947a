package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

// jsonEnv builds a normalized envelope from a JSON-able body, the way the
// platform adapter would.
func jsonEnv(t *testing.T, status int, body any) *domain.Envelope {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal envelope body: %v", err)
	}
	return domain.NewEnvelope(status, raw)
}

// rawEnv builds an envelope from a raw (possibly non-JSON) body.
func rawEnv(status int, body string) *domain.Envelope {
	return domain.NewEnvelope(status, []byte(body))
}

type accountAPIStub struct {
	createEnv   *domain.Envelope
	createErr   error
	createCalls int

	findEnv      *domain.Envelope
	findErr      error
	findCalls    int
	findDocument string

	commercialEnv   *domain.Envelope
	commercialErr   error
	commercialCalls int
	commercialCred  domain.Credential
}

func (s *accountAPIStub) CreateAccount(ctx context.Context, tenant *domain.TenantProfile) (*domain.Envelope, error) {
	s.createCalls++
	return s.createEnv, s.createErr
}

func (s *accountAPIStub) FindAccountByDocument(ctx context.Context, document string) (*domain.Envelope, error) {
	s.findCalls++
	s.findDocument = document
	return s.findEnv, s.findErr
}

func (s *accountAPIStub) UpdateCommercialInfo(ctx context.Context, cred domain.Credential, companyType string) (*domain.Envelope, error) {
	s.commercialCalls++
	s.commercialCred = cred
	return s.commercialEnv, s.commercialErr
}

type fiscalAPIStub struct {
	configureEnv   *domain.Envelope
	configureErr   error
	configureCalls int
	configureCred  domain.Credential

	forAccountEnv   *domain.Envelope
	forAccountErr   error
	forAccountCalls int
	forAccountID    string
}

func (s *fiscalAPIStub) ConfigureFiscal(ctx context.Context, cred domain.Credential, setup *domain.FiscalSetup) (*domain.Envelope, error) {
	s.configureCalls++
	s.configureCred = cred
	return s.configureEnv, s.configureErr
}

func (s *fiscalAPIStub) ConfigureFiscalForAccount(ctx context.Context, accountID string, setup *domain.FiscalSetup) (*domain.Envelope, error) {
	s.forAccountCalls++
	s.forAccountID = accountID
	return s.forAccountEnv, s.forAccountErr
}

type customerAPIStub struct {
	findEnv   *domain.Envelope
	findErr   error
	findCalls int

	createEnv      *domain.Envelope
	createErr      error
	createCalls    int
	createCustomer *domain.Customer
}

func (s *customerAPIStub) FindCustomerByDocument(ctx context.Context, cred domain.Credential, document string) (*domain.Envelope, error) {
	s.findCalls++
	return s.findEnv, s.findErr
}

func (s *customerAPIStub) CreateCustomer(ctx context.Context, cred domain.Credential, customer *domain.Customer) (*domain.Envelope, error) {
	s.createCalls++
	s.createCustomer = customer
	return s.createEnv, s.createErr
}

type invoiceAPIStub struct {
	paymentEnv *domain.Envelope
	paymentErr error
	paymentReq *domain.ProductInvoiceRequest

	listEnv  *domain.Envelope
	listErr  error
	listCode string

	scheduleEnv *domain.Envelope
	scheduleErr error
	scheduleReq *domain.ServiceInvoiceRequest
}

func (s *invoiceAPIStub) CreatePaymentWithInvoice(ctx context.Context, cred domain.Credential, req *domain.ProductInvoiceRequest) (*domain.Envelope, error) {
	s.paymentReq = req
	return s.paymentEnv, s.paymentErr
}

func (s *invoiceAPIStub) ListMunicipalServices(ctx context.Context, cred domain.Credential, description string) (*domain.Envelope, error) {
	s.listCode = description
	return s.listEnv, s.listErr
}

func (s *invoiceAPIStub) ScheduleServiceInvoice(ctx context.Context, cred domain.Credential, req *domain.ServiceInvoiceRequest) (*domain.Envelope, error) {
	s.scheduleReq = req
	return s.scheduleEnv, s.scheduleErr
}

type financeAPIStub struct {
	balanceEnvs  []*domain.Envelope
	balanceCalls int

	listEnv   *domain.Envelope
	listErr   error
	listStart time.Time
	listEnd   time.Time
}

func (s *financeAPIStub) GetBalance(ctx context.Context, cred domain.Credential) (*domain.Envelope, error) {
	env := s.balanceEnvs[s.balanceCalls%len(s.balanceEnvs)]
	s.balanceCalls++
	return env, nil
}

func (s *financeAPIStub) ListFinancialTransactions(ctx context.Context, cred domain.Credential, start, end time.Time) (*domain.Envelope, error) {
	s.listStart = start
	s.listEnd = end
	return s.listEnv, s.listErr
}

type profileStoreStub struct {
	saved []*domain.TenantProfile
	err   error
}

func (s *profileStoreStub) SaveProfile(ctx context.Context, tenant *domain.TenantProfile) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, tenant)
	return nil
}
