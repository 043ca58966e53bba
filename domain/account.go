package domain

// Account is a ledger-held account resource, identified by its URI.
// The owning ledger is authoritative for it; this library only reads it.
type Account struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Ledger string `json:"ledger,omitempty"`
}

// ConnectorRef points at a connector account advertised by a ledger.
type ConnectorRef struct {
	Connector string `json:"connector"`
}
