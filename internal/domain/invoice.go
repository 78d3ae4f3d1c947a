package domain

// InvoiceItem is one line of a product invoice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Value       float64 `json:"value"`
	NCM         string  `json:"ncm"`
}

// ProductInvoiceRequest is the combined payment+invoice request for a
// goods sale. The payment is created together with its fiscal invoice in
// a single call.
type ProductInvoiceRequest struct {
	CustomerID         string
	Value              float64
	DueDate            string // YYYY-MM-DD
	ExternalReference  string // local sale id
	Description        string
	InvoiceDescription string
	EffectiveDate      string // YYYY-MM-DD
	Items              []InvoiceItem
}

// ServiceInvoiceRequest schedules a municipal service invoice (NFS-e)
// against an already-captured payment.
type ServiceInvoiceRequest struct {
	PaymentID            string
	Description          string
	Value                float64
	EffectiveDate        string // YYYY-MM-DD
	MunicipalServiceID   string // platform catalog id, may be empty
	MunicipalServiceCode string // municipality's public code, e.g. "1.01"
	MunicipalServiceName string
	ISSRate              float64
}

// ProvisionResult is the outcome of a successful provisioning call.
// Reconciled marks the conflict path: the subaccount already existed and
// its identity was adopted instead of creating a duplicate.
type ProvisionResult struct {
	AccountID  string
	APIKey     string
	Reconciled bool
}
