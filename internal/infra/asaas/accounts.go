package asaas

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

// Nominal declared income sent on subaccount creation. The platform
// requires a value; the real figure is irrelevant for marketplace
// subaccounts.
const declaredIncome = 5000.00

// Fixed site URL reported as the subaccount's commercial presence.
const commercialSite = "https://sistemclass.com.br"

// CreateAccount issues the create-subaccount call. Document, phone and
// postal code are sent digit-only.
func (c *Client) CreateAccount(ctx context.Context, tenant *domain.TenantProfile) (*domain.Envelope, error) {
	addressNumber := tenant.AddressNumber
	if addressNumber == "" {
		addressNumber = "S/N"
	}

	payload := map[string]any{
		"name":          tenant.LegalName,
		"email":         tenant.Email,
		"cpfCnpj":       domain.Digits(tenant.Document),
		"companyType":   tenant.CompanyType(),
		"mobilePhone":   domain.Digits(tenant.Phone),
		"address":       tenant.Address,
		"addressNumber": addressNumber,
		"province":      tenant.District,
		"postalCode":    domain.Digits(tenant.PostalCode),
		"incomeValue":   declaredIncome,
	}

	return c.doJSON(ctx, http.MethodPost, "/accounts", nil, payload, domain.MasterKey())
}

// FindAccountByDocument looks up subaccounts filtered by tax document.
// Used by the reconciliation path after a creation conflict.
func (c *Client) FindAccountByDocument(ctx context.Context, document string) (*domain.Envelope, error) {
	query := url.Values{"cpfCnpj": {domain.Digits(document)}}
	return c.doJSON(ctx, http.MethodGet, "/accounts", query, nil, domain.MasterKey())
}

// UpdateCommercialInfo pushes the subaccount's company type and site.
// The platform refuses to enable fiscal features for subaccounts without
// commercial data, so this runs as a prerequisite before fiscal setup.
func (c *Client) UpdateCommercialInfo(ctx context.Context, cred domain.Credential, companyType string) (*domain.Envelope, error) {
	payload := map[string]any{
		"companyType": companyType,
		"site":        commercialSite,
	}
	return c.doJSON(ctx, http.MethodPost, "/myAccount/commercialInfo", nil, payload, cred)
}
