package domain

// Customer is a buyer record loaded by the surrounding application.
// The gateway never mutates it; the resolved remote id is returned to the
// caller, not persisted here.
type Customer struct {
	ID       string `json:"id"` // local id, sent as externalReference
	Name     string `json:"name"`
	Document string `json:"document"` // CPF/CNPJ, may carry punctuation
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	Address       string `json:"address"`
	AddressNumber string `json:"addressNumber"`
	District      string `json:"district"`
	PostalCode    string `json:"postalCode"`
}
