package observability

import (
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	provisionings   *prometheus.CounterVec
	invoices        *prometheus.CounterVec
}

// Provisioning outcome labels.
const (
	OutcomeCreated    = "created"
	OutcomeReconciled = "reconciled"
	OutcomeError      = "error"
)

// Invoice kind labels.
const (
	InvoiceKindProduct = "product"
	InvoiceKindService = "service"
)

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Duration of gateway operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_external_errors_total",
				Help: "Total transport-level errors from the platform.",
			},
			[]string{"service"},
		),
		provisionings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_provisionings_total",
				Help: "Subaccount provisioning attempts by outcome.",
			},
			[]string{"outcome"},
		),
		invoices: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_invoices_total",
				Help: "Invoice emission requests by kind.",
			},
			[]string{"kind"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrProvisioning increments the provisioning counter with an outcome label.
func (m *Metrics) IncrProvisioning(outcome string) {
	m.provisionings.WithLabelValues(outcome).Inc()
}

// IncrInvoice increments the invoice emission counter.
func (m *Metrics) IncrInvoice(kind string) {
	m.invoices.WithLabelValues(kind).Inc()
}

// GetIntegrationSnapshot returns a snapshot of the integration counters
// for the GET /v1/metrics/integration endpoint.
func (m *Metrics) GetIntegrationSnapshot() *domain.IntegrationMetrics {
	created := getCounterValue(m.provisionings, OutcomeCreated)
	reconciled := getCounterValue(m.provisionings, OutcomeReconciled)
	failed := getCounterValue(m.provisionings, OutcomeError)

	total := created + reconciled + failed
	errorRate := float64(0)
	if total > 0 {
		errorRate = failed / total
	}

	return &domain.IntegrationMetrics{
		ProvisionedAccounts: int64(created),
		ReconciledAccounts:  int64(reconciled),
		ProvisioningErrors:  int64(failed),
		ProductInvoices:     int64(getCounterValue(m.invoices, InvoiceKindProduct)),
		ServiceInvoices:     int64(getCounterValue(m.invoices, InvoiceKindService)),
		ExternalErrors:      getCounterValue(m.externalErrors, "asaas"),
		ErrorRate:           errorRate,
		Period:              "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
