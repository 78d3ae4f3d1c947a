package asaas

import (
	"context"
	"fmt"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

// Certificate part metadata. The blob is forwarded untouched; validation
// is the platform's problem.
const (
	certificateField       = "certificateFile"
	certificateFilename    = "certificado.pfx"
	certificateContentType = "application/x-pkcs12"
)

func fiscalFields(setup *domain.FiscalSetup) map[string]string {
	return map[string]string{
		"email":                    setup.Email,
		"municipalServiceId":       setup.MunicipalServiceID,
		"municipalInscription":     setup.MunicipalInscription,
		"simplesNacional":          setup.SimplesNacional,
		"certificatePassword":      setup.CertificatePassword,
		"regime":                   setup.Regime,
		"issAlid":                  setup.ISSRate,
		"nextServiceInvoiceNumber": setup.NextInvoiceNumber,
		"serviceInvoiceSeries":     setup.InvoiceSeries,
	}
}

func certificatePart(setup *domain.FiscalSetup) *formFile {
	return &formFile{
		Field:       certificateField,
		Name:        certificateFilename,
		ContentType: certificateContentType,
		Content:     setup.Certificate,
	}
}

// ConfigureFiscal submits the fiscal configuration to the
// subaccount-scoped endpoint.
func (c *Client) ConfigureFiscal(ctx context.Context, cred domain.Credential, setup *domain.FiscalSetup) (*domain.Envelope, error) {
	return c.doForm(ctx, "/config/fiscal", fiscalFields(setup), certificatePart(setup), cred)
}

// ConfigureFiscalForAccount submits the same configuration through the
// tenant-scoped endpoint, authenticated with the master key. Used when the
// subaccount-scoped endpoint answers 404.
func (c *Client) ConfigureFiscalForAccount(ctx context.Context, accountID string, setup *domain.FiscalSetup) (*domain.Envelope, error) {
	path := fmt.Sprintf("/accounts/%s/config/fiscal", accountID)
	return c.doForm(ctx, path, fiscalFields(setup), certificatePart(setup), domain.MasterKey())
}
