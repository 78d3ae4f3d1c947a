package domain

import "strings"

// DefaultServiceCode is assumed when a sale item carries no municipal
// service code.
const DefaultServiceCode = "1.01"

// SaleItem is a single line of a sale.
type SaleItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	NCM         string  `json:"ncm"`         // tax classification code (products)
	ServiceCode string  `json:"serviceCode"` // municipal service code (services), e.g. "1.01"
}

// Sale is a read-only transaction input for invoice emission.
type Sale struct {
	ID       string     `json:"id"`
	NetTotal float64    `json:"netTotal"`
	Items    []SaleItem `json:"items"`
}

// FirstServiceCode returns the first item's municipal service code,
// falling back to DefaultServiceCode when the sale has none.
func (s *Sale) FirstServiceCode() string {
	if len(s.Items) > 0 {
		if code := strings.TrimSpace(s.Items[0].ServiceCode); code != "" {
			return code
		}
	}
	return DefaultServiceCode
}
