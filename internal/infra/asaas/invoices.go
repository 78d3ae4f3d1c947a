package asaas

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

// Payments created together with a product invoice always bill as boleto
// and let the platform drive the invoice issuance.
const (
	productBillingType = "BOLETO"
	invoiceStatus      = "POWERED_BY_ASAAS"
)

// CreatePaymentWithInvoice issues the combined payment+invoice call for a
// goods sale.
func (c *Client) CreatePaymentWithInvoice(ctx context.Context, cred domain.Credential, req *domain.ProductInvoiceRequest) (*domain.Envelope, error) {
	items := make([]map[string]any, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, map[string]any{
			"description": item.Description,
			"quantity":    item.Quantity,
			"value":       item.Value,
			"ncm":         domain.Digits(item.NCM),
		})
	}

	payload := map[string]any{
		"customer":          req.CustomerID,
		"billingType":       productBillingType,
		"value":             req.Value,
		"dueDate":           req.DueDate,
		"externalReference": req.ExternalReference,
		"description":       req.Description,
		"invoice": map[string]any{
			"description":   req.InvoiceDescription,
			"effectiveDate": req.EffectiveDate,
			"status":        invoiceStatus,
			"items":         items,
		},
	}

	return c.doJSON(ctx, http.MethodPost, "/payments", nil, payload, cred)
}

// ListMunicipalServices queries the platform's municipal-service catalog
// by description. The platform needs its own catalog id, not the
// municipality's public code, when scheduling a service invoice.
func (c *Client) ListMunicipalServices(ctx context.Context, cred domain.Credential, description string) (*domain.Envelope, error) {
	query := url.Values{"description": {description}}
	return c.doJSON(ctx, http.MethodGet, "/invoices/municipalServices", query, nil, cred)
}

// ScheduleServiceInvoice schedules an NFS-e against an already-captured
// payment.
func (c *Client) ScheduleServiceInvoice(ctx context.Context, cred domain.Credential, req *domain.ServiceInvoiceRequest) (*domain.Envelope, error) {
	payload := map[string]any{
		"payment":              req.PaymentID,
		"serviceDescription":   req.Description,
		"value":                req.Value,
		"effectiveDate":        req.EffectiveDate,
		"municipalServiceCode": req.MunicipalServiceCode,
		"municipalServiceName": req.MunicipalServiceName,
		"taxes": map[string]any{
			"iss": req.ISSRate,
		},
	}
	// An empty catalog id still travels as null so the platform can fall
	// back to its own resolution.
	if req.MunicipalServiceID != "" {
		payload["municipalServiceId"] = req.MunicipalServiceID
	} else {
		payload["municipalServiceId"] = nil
	}

	return c.doJSON(ctx, http.MethodPost, "/invoices", nil, payload, cred)
}
