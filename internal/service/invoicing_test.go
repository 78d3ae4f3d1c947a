package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/observability"
	"github.com/sistemclass/marketplace-gateway-go/internal/service"

	"go.uber.org/zap"
)

func testSale() *domain.Sale {
	return &domain.Sale{
		ID:       "sale-42",
		NetTotal: 150.50,
		Items: []domain.SaleItem{
			{Description: "Produto A", Quantity: 2, UnitPrice: 50.25, NCM: "8471.30.12"},
			{Description: "Produto B", Quantity: 1, UnitPrice: 50.00, NCM: "8517.62.55"},
		},
	}
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
}

func TestResolveCustomer_ExistingMatchSkipsCreation(t *testing.T) {
	customers := &customerAPIStub{
		findEnv: jsonEnv(t, 200, map[string]any{
			"data": []any{map[string]any{"id": "cus_existing"}},
		}),
	}
	svc := service.NewInvoicingService(customers, &invoiceAPIStub{}, observability.NewMetrics(), zap.NewNop())

	id, err := svc.ResolveCustomer(context.Background(), provisionedTenant(), &domain.Customer{
		ID: "local-9", Document: "123.456.789-09",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "cus_existing" {
		t.Errorf("customer id = %q", id)
	}
	if customers.createCalls != 0 {
		t.Error("existing customer must not trigger creation")
	}
}

func TestResolveCustomer_CreatesWhenMissing(t *testing.T) {
	customers := &customerAPIStub{
		findEnv:   jsonEnv(t, 200, map[string]any{"data": []any{}}),
		createEnv: jsonEnv(t, 200, map[string]any{"id": "cus_new"}),
	}
	svc := service.NewInvoicingService(customers, &invoiceAPIStub{}, observability.NewMetrics(), zap.NewNop())

	buyer := &domain.Customer{ID: "local-9", Name: "Cliente", Document: "123.456.789-09"}
	id, err := svc.ResolveCustomer(context.Background(), provisionedTenant(), buyer)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "cus_new" {
		t.Errorf("customer id = %q", id)
	}
	if customers.createCalls != 1 {
		t.Errorf("create called %d times, want 1", customers.createCalls)
	}
	if customers.createCustomer != buyer {
		t.Error("the buyer record must be forwarded to creation")
	}
}

func TestResolveCustomer_CreationFailureYieldsEmptyID(t *testing.T) {
	customers := &customerAPIStub{
		findEnv:   jsonEnv(t, 200, map[string]any{"data": []any{}}),
		createEnv: rawEnv(500, "internal error"),
	}
	svc := service.NewInvoicingService(customers, &invoiceAPIStub{}, observability.NewMetrics(), zap.NewNop())

	id, err := svc.ResolveCustomer(context.Background(), provisionedTenant(), &domain.Customer{Document: "123"})
	if err != nil {
		t.Fatalf("expected no transport error, got %v", err)
	}
	if id != "" {
		t.Errorf("customer id = %q, want empty on creation failure", id)
	}
}

func TestResolveMunicipalService_Match(t *testing.T) {
	invoices := &invoiceAPIStub{
		listEnv: jsonEnv(t, 200, map[string]any{
			"data": []any{map[string]any{"id": "ms_101", "description": "Analise e desenvolvimento de sistemas"}},
		}),
	}
	svc := service.NewInvoicingService(&customerAPIStub{}, invoices, observability.NewMetrics(), zap.NewNop())

	id, name, err := svc.ResolveMunicipalService(context.Background(), provisionedTenant(), "1.01")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != "ms_101" {
		t.Errorf("id = %q", id)
	}
	if name != "Analise e desenvolvimento de sistemas" {
		t.Errorf("name = %q", name)
	}
	if invoices.listCode != "1.01" {
		t.Errorf("queried code = %q", invoices.listCode)
	}
}

func TestResolveMunicipalService_MissIsNotAnError(t *testing.T) {
	tests := []struct {
		name string
		env  *domain.Envelope
	}{
		{"empty catalog", jsonEnv(t, 200, map[string]any{"data": []any{}})},
		{"non-200", rawEnv(404, "")},
		{"malformed body", rawEnv(200, "<html></html>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoices := &invoiceAPIStub{listEnv: tt.env}
			svc := service.NewInvoicingService(&customerAPIStub{}, invoices, observability.NewMetrics(), zap.NewNop())

			id, name, err := svc.ResolveMunicipalService(context.Background(), provisionedTenant(), "1.01")
			if err != nil {
				t.Fatalf("a catalog miss must not be an error, got %v", err)
			}
			if id != "" {
				t.Errorf("id = %q, want empty", id)
			}
			if name != "Servico municipal nao identificado" {
				t.Errorf("name = %q", name)
			}
		})
	}
}

func TestEmitProductInvoice_BuildsRequestFromSale(t *testing.T) {
	invoices := &invoiceAPIStub{
		paymentEnv: jsonEnv(t, 200, map[string]any{"id": "pay_1", "invoiceNumber": "123"}),
	}
	svc := service.NewInvoicingService(&customerAPIStub{}, invoices, observability.NewMetrics(), zap.NewNop()).
		WithClock(fixedClock())

	env, err := svc.EmitProductInvoice(context.Background(), provisionedTenant(), testSale(), "cus_1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !env.OK() {
		t.Errorf("envelope status = %d", env.StatusCode)
	}

	req := invoices.paymentReq
	if req == nil {
		t.Fatal("no payment request captured")
	}
	if req.CustomerID != "cus_1" {
		t.Errorf("customer = %q", req.CustomerID)
	}
	if req.Value != 150.50 {
		t.Errorf("value = %v", req.Value)
	}
	if req.DueDate != "2026-03-15" || req.EffectiveDate != "2026-03-15" {
		t.Errorf("dates = %q / %q, want today", req.DueDate, req.EffectiveDate)
	}
	if req.ExternalReference != "sale-42" {
		t.Errorf("external reference = %q", req.ExternalReference)
	}
	if req.Description != "Venda de produtos #sale-42" {
		t.Errorf("description = %q", req.Description)
	}
	if len(req.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(req.Items))
	}
	if req.Items[0].Value != 50.25 || req.Items[0].Quantity != 2 {
		t.Errorf("item 0 = %+v", req.Items[0])
	}
}

func TestEmitServiceInvoice_ResolvesServiceAndAppliesISS(t *testing.T) {
	invoices := &invoiceAPIStub{
		listEnv: jsonEnv(t, 200, map[string]any{
			"data": []any{map[string]any{"id": "ms_101", "description": "Desenvolvimento"}},
		}),
		scheduleEnv: jsonEnv(t, 200, map[string]any{"id": "inv_1"}),
	}
	svc := service.NewInvoicingService(&customerAPIStub{}, invoices, observability.NewMetrics(), zap.NewNop()).
		WithClock(fixedClock())

	tenant := provisionedTenant()
	tenant.ISSRate = 3.5
	sale := testSale()
	sale.Items[0].ServiceCode = "1.05"

	env, err := svc.EmitServiceInvoice(context.Background(), tenant, "pay_1", sale)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !env.OK() {
		t.Errorf("envelope status = %d", env.StatusCode)
	}

	req := invoices.scheduleReq
	if req == nil {
		t.Fatal("no schedule request captured")
	}
	if req.PaymentID != "pay_1" {
		t.Errorf("payment = %q", req.PaymentID)
	}
	if req.MunicipalServiceID != "ms_101" || req.MunicipalServiceCode != "1.05" {
		t.Errorf("municipal service = %q / %q", req.MunicipalServiceID, req.MunicipalServiceCode)
	}
	if req.ISSRate != 3.5 {
		t.Errorf("iss rate = %v", req.ISSRate)
	}
	if req.EffectiveDate != "2026-03-15" {
		t.Errorf("effective date = %q", req.EffectiveDate)
	}
	if invoices.listCode != "1.05" {
		t.Errorf("resolved code = %q", invoices.listCode)
	}
}

func TestEmitServiceInvoice_SchedulesDespiteCatalogMiss(t *testing.T) {
	invoices := &invoiceAPIStub{
		listEnv:     jsonEnv(t, 200, map[string]any{"data": []any{}}),
		scheduleEnv: jsonEnv(t, 200, map[string]any{"id": "inv_2"}),
	}
	svc := service.NewInvoicingService(&customerAPIStub{}, invoices, observability.NewMetrics(), zap.NewNop()).
		WithClock(fixedClock())

	sale := testSale() // no service codes set, falls back to the default
	env, err := svc.EmitServiceInvoice(context.Background(), provisionedTenant(), "pay_2", sale)
	if err != nil {
		t.Fatalf("a catalog miss must not block scheduling, got %v", err)
	}
	if !env.OK() {
		t.Errorf("envelope status = %d", env.StatusCode)
	}

	req := invoices.scheduleReq
	if req.MunicipalServiceID != "" {
		t.Errorf("municipal service id = %q, want empty", req.MunicipalServiceID)
	}
	if req.MunicipalServiceName != "Servico municipal nao identificado" {
		t.Errorf("municipal service name = %q", req.MunicipalServiceName)
	}
	if req.MunicipalServiceCode != domain.DefaultServiceCode {
		t.Errorf("code = %q, want default", req.MunicipalServiceCode)
	}
	if req.ISSRate != domain.DefaultISSRate {
		t.Errorf("iss rate = %v, want default", req.ISSRate)
	}
}
