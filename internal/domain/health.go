package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status  string `json:"status"` // healthy, degraded, unhealthy
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// IntegrationMetrics is returned by GET /v1/metrics/integration. It is a
// JSON snapshot of the Prometheus counters for dashboards that do not
// scrape /metrics directly.
type IntegrationMetrics struct {
	ProvisionedAccounts int64   `json:"provisionedAccounts"`
	ReconciledAccounts  int64   `json:"reconciledAccounts"`
	ProvisioningErrors  int64   `json:"provisioningErrors"`
	ProductInvoices     int64   `json:"productInvoices"`
	ServiceInvoices     int64   `json:"serviceInvoices"`
	ExternalErrors      float64 `json:"externalErrors"`
	ErrorRate           float64 `json:"errorRate"`
	Period              string  `json:"period"`
}
