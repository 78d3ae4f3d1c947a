package domain

import "regexp"

var nonDigitRegex = regexp.MustCompile(`\D`)

// Digits strips every non-digit character from a document, phone or
// postal code before it is sent to or compared against the platform.
// "62.175.444/0001-15" → "62175444000115".
func Digits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// Tax regime codes as stored on the tenant profile.
// "1" = Simples Nacional, "2" = Simples (excesso), "3" = Regime Normal,
// "4" = MEI.
const (
	RegimeSimples        = "1"
	RegimeSimplesExcesso = "2"
	RegimeNormal         = "3"
	RegimeMEI            = "4"
)

// RemoteAccount is the pair of remote-identity fields the platform assigns
// to a tenant. It lives directly on the TenantProfile (1:1) and is written
// only by the provisioning flow.
type RemoteAccount struct {
	AccountID string `json:"accountId"`
	APIKey    string `json:"apiKey"`
}

// HasAccount reports whether the tenant already owns a remote subaccount.
func (r RemoteAccount) HasAccount() bool { return r.AccountID != "" }

// HasKey reports whether the subaccount API key is known. When it is not,
// subaccount-scoped calls must fall back to master-key endpoints scoped by
// the account id.
func (r RemoteAccount) HasKey() bool { return r.APIKey != "" }

// TenantProfile is the in-memory view of a business tenant, owned by the
// surrounding application. The gateway reads everything and writes only
// the Remote pair, persisting it through port.ProfileStore.
type TenantProfile struct {
	ID        string `json:"id"`
	LegalName string `json:"legalName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Document  string `json:"document"` // CNPJ, may carry punctuation

	Address       string `json:"address"`
	AddressNumber string `json:"addressNumber"`
	District      string `json:"district"`
	PostalCode    string `json:"postalCode"`

	TaxRegime            string  `json:"taxRegime"` // regime code, see constants above
	SimplesNacional      bool    `json:"simplesNacional"`
	MunicipalServiceID   string  `json:"municipalServiceId"` // município code used as municipalServiceId
	MunicipalInscription string  `json:"municipalInscription"`
	ISSRate              float64 `json:"issRate"` // municipal service tax rate (%)
	NextInvoiceNumber    int     `json:"nextInvoiceNumber"` // next NFS-e sequence number
	InvoiceSeries        int     `json:"invoiceSeries"`
	CertificatePassword  string  `json:"certificatePassword,omitempty"`

	Remote RemoteAccount `json:"remote"`
}

// CompanyType maps the tax regime to the platform's company classification.
// MEI ("4") registers as an individual, everything else as limited-liability.
func (t *TenantProfile) CompanyType() string {
	if t.TaxRegime == RegimeMEI {
		return "INDIVIDUAL"
	}
	return "LIMITED"
}

// FiscalRegime maps the tax regime to the platform's fiscal regime enum.
func (t *TenantProfile) FiscalRegime() string {
	switch t.TaxRegime {
	case RegimeSimples, RegimeSimplesExcesso, RegimeMEI:
		return "SIMPLES_NACIONAL"
	default:
		return "REAL_LUCRO_PRESUMIDO"
	}
}
