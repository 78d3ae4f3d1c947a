package asaas

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

// FindCustomerByDocument looks up remote customers filtered by tax
// document, within the subaccount selected by the credential.
func (c *Client) FindCustomerByDocument(ctx context.Context, cred domain.Credential, document string) (*domain.Envelope, error) {
	query := url.Values{"cpfCnpj": {domain.Digits(document)}}
	return c.doJSON(ctx, http.MethodGet, "/customers", query, nil, cred)
}

// CreateCustomer creates a remote customer. The local id travels as
// externalReference and platform notifications stay disabled — the
// surrounding application owns customer communication.
func (c *Client) CreateCustomer(ctx context.Context, cred domain.Credential, customer *domain.Customer) (*domain.Envelope, error) {
	payload := map[string]any{
		"name":                 customer.Name,
		"cpfCnpj":              domain.Digits(customer.Document),
		"email":                customer.Email,
		"mobilePhone":          domain.Digits(customer.Phone),
		"address":              customer.Address,
		"addressNumber":        customer.AddressNumber,
		"province":             customer.District,
		"postalCode":           domain.Digits(customer.PostalCode),
		"externalReference":    customer.ID,
		"notificationDisabled": true,
	}
	return c.doJSON(ctx, http.MethodPost, "/customers", nil, payload, cred)
}
