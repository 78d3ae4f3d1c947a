package domain

// Statement entry kinds, matching how the surrounding ledger stores them.
const (
	EntryCredit = "C"
	EntryDebit  = "D"
)

// StatementEntry is one movement of the platform's financial statement,
// normalized to an absolute value plus a credit/debit kind (the raw API
// reports outflows as negative values).
type StatementEntry struct {
	RemoteID    string  `json:"remoteId"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
	Value       float64 `json:"value"` // absolute
	Kind        string  `json:"kind"`  // EntryCredit or EntryDebit
}
