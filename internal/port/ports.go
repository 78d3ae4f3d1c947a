// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the concrete platform adapter and from the application's storage.
package port

import (
	"context"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

// ProfileStore persists the tenant profile back to the surrounding
// application. Only the provisioning flow writes through it, and only the
// remote-identity pair changes.
type ProfileStore interface {
	SaveProfile(ctx context.Context, tenant *domain.TenantProfile) error
}

// AccountAPI covers the subaccount lifecycle endpoints.
type AccountAPI interface {
	// CreateAccount issues the create-subaccount call for the tenant.
	CreateAccount(ctx context.Context, tenant *domain.TenantProfile) (*domain.Envelope, error)
	// FindAccountByDocument looks up existing subaccounts filtered by the
	// digit-normalized tax document.
	FindAccountByDocument(ctx context.Context, document string) (*domain.Envelope, error)
	// UpdateCommercialInfo pushes the subaccount's commercial data. Used as
	// a best-effort prerequisite for enabling fiscal features.
	UpdateCommercialInfo(ctx context.Context, cred domain.Credential, companyType string) (*domain.Envelope, error)
}

// FiscalAPI covers the two fiscal-configuration endpoints: the
// subaccount-scoped one and the master-key tenant-scoped fallback.
type FiscalAPI interface {
	ConfigureFiscal(ctx context.Context, cred domain.Credential, setup *domain.FiscalSetup) (*domain.Envelope, error)
	ConfigureFiscalForAccount(ctx context.Context, accountID string, setup *domain.FiscalSetup) (*domain.Envelope, error)
}

// CustomerAPI covers remote customer lookup and creation.
type CustomerAPI interface {
	FindCustomerByDocument(ctx context.Context, cred domain.Credential, document string) (*domain.Envelope, error)
	CreateCustomer(ctx context.Context, cred domain.Credential, customer *domain.Customer) (*domain.Envelope, error)
}

// InvoiceAPI covers invoice emission and the municipal service catalog.
type InvoiceAPI interface {
	CreatePaymentWithInvoice(ctx context.Context, cred domain.Credential, req *domain.ProductInvoiceRequest) (*domain.Envelope, error)
	ListMunicipalServices(ctx context.Context, cred domain.Credential, description string) (*domain.Envelope, error)
	ScheduleServiceInvoice(ctx context.Context, cred domain.Credential, req *domain.ServiceInvoiceRequest) (*domain.Envelope, error)
}

// FinanceAPI mirrors the subaccount's balance and statement.
type FinanceAPI interface {
	GetBalance(ctx context.Context, cred domain.Credential) (*domain.Envelope, error)
	ListFinancialTransactions(ctx context.Context, cred domain.Credential, start, end time.Time) (*domain.Envelope, error)
}

// PlatformAPI is the full platform surface, implemented by the asaas
// adapter.
type PlatformAPI interface {
	AccountAPI
	FiscalAPI
	CustomerAPI
	InvoiceAPI
	FinanceAPI
}
