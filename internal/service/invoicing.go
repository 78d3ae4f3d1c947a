package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var invTracer = otel.Tracer("service/invoicing")

// Message returned when the municipal-service catalog has no match for a
// local service code.
const municipalServiceNotFound = "Servico municipal nao identificado"

// wireDate is the platform's date format.
const wireDate = "2006-01-02"

// InvoicingService resolves remote customers and municipal services and
// emits both invoice variants: product (payment created together with its
// invoice) and service (NFS-e scheduled on an existing payment).
//
// The emitters hand the normalized platform response back verbatim; the
// caller interprets it, matching the upstream contract. Envelope.OK is the
// shortcut for the common check.
type InvoicingService struct {
	customers port.CustomerAPI
	invoices  port.InvoiceAPI
	metrics   *observability.Metrics
	logger    *zap.Logger

	// now is swappable in tests; emission stamps due/effective dates with
	// the current date.
	now func() time.Time
}

// NewInvoicingService wires the invoicing workflows.
func NewInvoicingService(customers port.CustomerAPI, invoices port.InvoiceAPI, metrics *observability.Metrics, logger *zap.Logger) *InvoicingService {
	return &InvoicingService{
		customers: customers,
		invoices:  invoices,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the emission clock. Test hook.
func (s *InvoicingService) WithClock(now func() time.Time) *InvoicingService {
	s.now = now
	return s
}

// ResolveCustomer finds the remote customer matching the buyer's tax
// document within the tenant's subaccount, creating it when absent. The
// document is the natural key; the platform enforces per-subaccount
// uniqueness. The returned id may be empty when creation failed — callers
// must check.
func (s *InvoicingService) ResolveCustomer(ctx context.Context, tenant *domain.TenantProfile, customer *domain.Customer) (string, error) {
	ctx, span := invTracer.Start(ctx, "InvoicingService.ResolveCustomer")
	defer span.End()

	cred := domain.SubaccountKey(tenant.Remote.APIKey)
	document := domain.Digits(customer.Document)

	env, err := s.customers.FindCustomerByDocument(ctx, cred, document)
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return "", err
	}

	if env.StatusCode == http.StatusOK {
		if data := env.Data(); len(data) > 0 {
			id, _ := data[0]["id"].(string)
			s.logger.Debug("customer: matched existing record",
				zap.String("document", document),
				zap.String("customer_id", id),
			)
			return id, nil
		}
	}

	env, err = s.customers.CreateCustomer(ctx, cred, customer)
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return "", err
	}

	id := env.Str("id")
	s.logger.Info("customer: created remote record",
		zap.String("document", document),
		zap.String("customer_id", id),
	)
	return id, nil
}

// ResolveMunicipalService maps a local municipal service code (e.g.
// "1.01") to the platform's internal catalog id and description. A miss —
// non-200, malformed body or empty result — yields an empty id and the
// not-identified message; scheduling proceeds anyway with a null id.
func (s *InvoicingService) ResolveMunicipalService(ctx context.Context, tenant *domain.TenantProfile, code string) (string, string, error) {
	ctx, span := invTracer.Start(ctx, "InvoicingService.ResolveMunicipalService")
	defer span.End()

	cred := domain.SubaccountKey(tenant.Remote.APIKey)

	env, err := s.invoices.ListMunicipalServices(ctx, cred, code)
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return "", "", err
	}

	if env.StatusCode == http.StatusOK && !env.NonStructured {
		if data := env.Data(); len(data) > 0 {
			id, _ := data[0]["id"].(string)
			name, _ := data[0]["description"].(string)
			return id, name, nil
		}
	}

	s.logger.Warn("invoice: municipal service not found in catalog",
		zap.String("code", code),
	)
	return "", municipalServiceNotFound, nil
}

// EmitProductInvoice creates a payment together with its product-linked
// fiscal invoice for the sale. Due date and effective date are today; the
// sale id travels as the payment's external reference.
func (s *InvoicingService) EmitProductInvoice(ctx context.Context, tenant *domain.TenantProfile, sale *domain.Sale, customerID string) (*domain.Envelope, error) {
	ctx, span := invTracer.Start(ctx, "InvoicingService.EmitProductInvoice")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("emit_product_invoice", time.Since(start)) }()

	today := s.now().Format(wireDate)

	items := make([]domain.InvoiceItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, domain.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Value:       item.UnitPrice,
			NCM:         item.NCM,
		})
	}

	req := &domain.ProductInvoiceRequest{
		CustomerID:         customerID,
		Value:              sale.NetTotal,
		DueDate:            today,
		ExternalReference:  sale.ID,
		Description:        fmt.Sprintf("Venda de produtos #%s", sale.ID),
		InvoiceDescription: fmt.Sprintf("Nota fiscal de produto ref. venda #%s", sale.ID),
		EffectiveDate:      today,
		Items:              items,
	}

	cred := domain.SubaccountKey(tenant.Remote.APIKey)
	env, err := s.invoices.CreatePaymentWithInvoice(ctx, cred, req)
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return nil, err
	}

	s.metrics.IncrInvoice(observability.InvoiceKindProduct)
	s.logger.Info("invoice: product invoice submitted",
		zap.String("sale_id", sale.ID),
		zap.Int("status", env.StatusCode),
	)
	return env, nil
}

// EmitServiceInvoice schedules an NFS-e against an already-captured
// payment, resolving the sale's municipal service code to the platform's
// catalog id first. The tenant's ISS rate becomes the invoice's ISS tax.
func (s *InvoicingService) EmitServiceInvoice(ctx context.Context, tenant *domain.TenantProfile, paymentID string, sale *domain.Sale) (*domain.Envelope, error) {
	ctx, span := invTracer.Start(ctx, "InvoicingService.EmitServiceInvoice")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("emit_service_invoice", time.Since(start)) }()

	code := sale.FirstServiceCode()
	serviceID, serviceName, err := s.ResolveMunicipalService(ctx, tenant, code)
	if err != nil {
		return nil, err
	}

	issRate := tenant.ISSRate
	if issRate == 0 {
		issRate = domain.DefaultISSRate
	}

	req := &domain.ServiceInvoiceRequest{
		PaymentID:            paymentID,
		Description:          fmt.Sprintf("Servicos ref. venda #%s", sale.ID),
		Value:                sale.NetTotal,
		EffectiveDate:        s.now().Format(wireDate),
		MunicipalServiceID:   serviceID,
		MunicipalServiceCode: code,
		MunicipalServiceName: serviceName,
		ISSRate:              issRate,
	}

	cred := domain.SubaccountKey(tenant.Remote.APIKey)
	env, err := s.invoices.ScheduleServiceInvoice(ctx, cred, req)
	if err != nil {
		s.metrics.IncrExternalError("asaas")
		return nil, err
	}

	s.metrics.IncrInvoice(observability.InvoiceKindService)
	s.logger.Info("invoice: service invoice scheduled",
		zap.String("sale_id", sale.ID),
		zap.String("payment_id", paymentID),
		zap.String("municipal_service_id", serviceID),
		zap.Int("status", env.StatusCode),
	)
	return env, nil
}
