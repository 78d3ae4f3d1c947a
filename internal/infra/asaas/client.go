// Package asaas implements the platform ports against the marketplace's
// JSON-over-HTTPS API (subaccounts, fiscal configuration, customers,
// invoices and the finance mirror).
//
// Every response goes through normalization into a domain.Envelope: the
// platform sometimes answers with empty bodies or HTML error pages, and
// this adapter is the only place that handles them.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
	"github.com/sistemclass/marketplace-gateway-go/internal/infra/resilience"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("asaas")

const serviceName = "asaas"

// Client wraps HTTP calls to the marketplace platform API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	masterKey  string
	userAgent  string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	logger     *zap.Logger
}

// NewClient creates a platform client. The http.Client carries the fixed
// per-call timeout; masterKey is the platform-wide credential used by
// tenant-scoped endpoints and as the default access token.
func NewClient(httpClient *http.Client, baseURL, masterKey, userAgent string, cb *gobreaker.CircuitBreaker, bulkhead *resilience.Bulkhead, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		masterKey:  masterKey,
		userAgent:  userAgent,
		cb:         cb,
		bulkhead:   bulkhead,
		logger:     logger,
	}
}

// commonHeaders sets the authentication and negotiation headers shared by
// every call. The access token comes from the credential selector: the
// subaccount's own key, or the master key for tenant-scoped calls.
func (c *Client) commonHeaders(req *http.Request, cred domain.Credential) {
	req.Header.Set("access_token", cred.Resolve(c.masterKey))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
}

// doJSON executes a JSON request and normalizes the response. Non-2xx
// statuses still produce an envelope (conflict and fallback handling need
// the body); only transport-level faults return an error.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any, cred domain.Credential) (*domain.Envelope, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("asaas: encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("asaas: build request %s %s: %w", method, path, err)
	}
	c.commonHeaders(req, cred)
	req.Header.Set("Content-Type", "application/json")

	return c.execute(ctx, req, method, path)
}

// formFile is the opaque certificate blob attached to the fiscal
// configuration call.
type formFile struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// doForm executes a multipart/form-data POST (used by the fiscal
// configuration endpoints, which take string fields plus a file part).
func (c *Client) doForm(ctx context.Context, path string, fields map[string]string, file *formFile, cred domain.Credential) (*domain.Envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("asaas: write form field %s: %w", key, err)
		}
	}

	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
		header.Set("Content-Type", file.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("asaas: create file part: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, fmt.Errorf("asaas: write file part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("asaas: close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("asaas: build request POST %s: %w", path, err)
	}
	c.commonHeaders(req, cred)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.execute(ctx, req, http.MethodPost, path)
}

// execute runs the request through the bulkhead and circuit breaker and
// normalizes whatever comes back.
func (c *Client) execute(ctx context.Context, req *http.Request, method, path string) (*domain.Envelope, error) {
	ctx, span := tracer.Start(ctx, "Asaas."+method+" "+path)
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.path", path))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	defer c.bulkhead.Release()

	result, err := c.cb.Execute(func() (any, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			// Truncated transfers still get normalized with whatever arrived.
			return domain.NewEnvelope(resp.StatusCode, body), nil
		}
		return domain.NewEnvelope(resp.StatusCode, body), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("asaas: circuit breaker rejected call",
				zap.String("method", method),
				zap.String("path", path),
			)
			return nil, &domain.ErrCircuitOpen{Service: serviceName}
		}
		c.logger.Error("asaas: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}

	env := result.(*domain.Envelope)
	span.SetAttributes(attribute.Int("http.status_code", env.StatusCode))

	switch {
	case env.StatusCode >= 400:
		c.logger.Warn("asaas: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", env.StatusCode),
			zap.Bool("non_structured", env.NonStructured),
		)
	default:
		c.logger.Debug("asaas: request OK",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", env.StatusCode),
		)
	}

	return env, nil
}
