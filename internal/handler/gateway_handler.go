package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/service"

	"go.uber.org/zap"
)

// The HTTP surface does not persist tenant profiles: each request carries
// the tenant, and the response echoes the updated remote-identity pair
// back so the surrounding application can store it.

// ProfileEcho is the port.ProfileStore used by the HTTP surface. Saving is
// a no-op because the mutated tenant travels back in the response.
type ProfileEcho struct{}

func (ProfileEcho) SaveProfile(_ context.Context, _ *domain.TenantProfile) error {
	return nil
}

// --- Provisioning ---

type provisionRequest struct {
	Tenant domain.TenantProfile `json:"tenant"`
}

type provisionResponse struct {
	Success    bool                 `json:"success"`
	AccountID  string               `json:"accountId"`
	APIKey     string               `json:"apiKey,omitempty"`
	Reconciled bool                 `json:"reconciled"`
	Tenant     domain.TenantProfile `json:"tenant"`
}

func provisionHandler(svc *service.ProvisioningService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req provisionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if domain.Digits(req.Tenant.Document) == "" {
			writeError(w, http.StatusBadRequest, "tenant.document is required")
			return
		}

		result, err := svc.ProvisionOnce(r.Context(), &req.Tenant)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, provisionResponse{
			Success:    true,
			AccountID:  result.AccountID,
			APIKey:     result.APIKey,
			Reconciled: result.Reconciled,
			Tenant:     req.Tenant,
		})
	}
}

// --- Fiscal configuration ---

type fiscalRequest struct {
	Tenant      domain.TenantProfile `json:"tenant"`
	Certificate []byte               `json:"certificate"` // base64 in JSON, opaque pfx blob
}

func configureFiscalHandler(svc *service.FiscalService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fiscalRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := svc.Configure(r.Context(), &req.Tenant, req.Certificate); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// --- Customer resolution ---

type resolveCustomerRequest struct {
	Tenant   domain.TenantProfile `json:"tenant"`
	Customer domain.Customer      `json:"customer"`
}

func resolveCustomerHandler(svc *service.InvoicingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveCustomerRequest
		if !decodeBody(w, r, &req) {
			return
		}

		id, err := svc.ResolveCustomer(r.Context(), &req.Tenant, &req.Customer)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    id != "",
			"customerId": id,
		})
	}
}

// --- Invoice emission ---

type productInvoiceHTTPRequest struct {
	Tenant     domain.TenantProfile `json:"tenant"`
	Sale       domain.Sale          `json:"sale"`
	CustomerID string               `json:"customerId"`
}

func productInvoiceHandler(svc *service.InvoicingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productInvoiceHTTPRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.CustomerID == "" {
			writeError(w, http.StatusBadRequest, "customerId is required")
			return
		}

		env, err := svc.EmitProductInvoice(r.Context(), &req.Tenant, &req.Sale, req.CustomerID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		// The platform response travels back verbatim; the caller owns
		// interpretation, as it does for the embedded-library surface.
		writeJSON(w, http.StatusOK, map[string]any{
			"statusCode":    env.StatusCode,
			"body":          env.Body,
			"nonStructured": env.NonStructured,
			"rawText":       env.RawText,
		})
	}
}

type serviceInvoiceHTTPRequest struct {
	Tenant    domain.TenantProfile `json:"tenant"`
	Sale      domain.Sale          `json:"sale"`
	PaymentID string               `json:"paymentId"`
}

func serviceInvoiceHandler(svc *service.InvoicingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serviceInvoiceHTTPRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.PaymentID == "" {
			writeError(w, http.StatusBadRequest, "paymentId is required")
			return
		}

		env, err := svc.EmitServiceInvoice(r.Context(), &req.Tenant, req.PaymentID, &req.Sale)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"statusCode":    env.StatusCode,
			"body":          env.Body,
			"nonStructured": env.NonStructured,
			"rawText":       env.RawText,
		})
	}
}

// --- Finance mirror ---

type financeRequest struct {
	Tenant    domain.TenantProfile `json:"tenant"`
	StartDate string               `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate   string               `json:"endDate,omitempty"`
}

func balanceHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req financeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		balance, err := svc.Balance(r.Context(), &req.Tenant)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "balance": balance})
	}
}

func statementHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req financeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return
		}
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
			return
		}

		entries, err := svc.Statement(r.Context(), &req.Tenant, start, end)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "entries": entries})
	}
}
