package domain

import "strconv"

// Defaults applied when the tenant profile leaves fiscal fields unset.
const (
	DefaultISSRate       = 2.0
	DefaultInvoiceNumber = 1
	DefaultInvoiceSeries = 1
)

// FiscalSetup is the fiscal-configuration payload pushed to the platform,
// already converted to the string form the multipart endpoint expects.
// The certificate binary is opaque; it is forwarded as-is.
type FiscalSetup struct {
	Email                string
	MunicipalServiceID   string
	MunicipalInscription string // digits only
	SimplesNacional      string // "true" / "false"
	CertificatePassword  string
	Regime               string // SIMPLES_NACIONAL or REAL_LUCRO_PRESUMIDO
	ISSRate              string
	NextInvoiceNumber    string
	InvoiceSeries        string

	Certificate []byte
}

// NewFiscalSetup builds the fiscal payload from a tenant profile, applying
// the platform defaults for unset rate, sequence number and series.
func NewFiscalSetup(t *TenantProfile, certificate []byte) *FiscalSetup {
	issRate := t.ISSRate
	if issRate == 0 {
		issRate = DefaultISSRate
	}
	nextNumber := t.NextInvoiceNumber
	if nextNumber == 0 {
		nextNumber = DefaultInvoiceNumber
	}
	series := t.InvoiceSeries
	if series == 0 {
		series = DefaultInvoiceSeries
	}

	simples := "false"
	if t.SimplesNacional {
		simples = "true"
	}

	return &FiscalSetup{
		Email:                t.Email,
		MunicipalServiceID:   t.MunicipalServiceID,
		MunicipalInscription: Digits(t.MunicipalInscription),
		SimplesNacional:      simples,
		CertificatePassword:  t.CertificatePassword,
		Regime:               t.FiscalRegime(),
		ISSRate:              strconv.FormatFloat(issRate, 'f', -1, 64),
		NextInvoiceNumber:    strconv.Itoa(nextNumber),
		InvoiceSeries:        strconv.Itoa(series),
		Certificate:          certificate,
	}
}
