package domain

// Credential selects exactly one authentication form for talking to a
// ledger: basic username/password or a TLS client certificate. Both forms
// may carry an optional custom CA bundle.
type Credential interface {
	credential()
}

// BasicCredential authenticates with a username and password.
// An empty Username means "use the ledger-side account name" resolved at
// submission time.
type BasicCredential struct {
	Username string
	Password string
	CA       []byte // optional PEM trust anchor
}

func (BasicCredential) credential() {}

// CertCredential authenticates with a TLS client certificate.
type CertCredential struct {
	Cert []byte // PEM certificate
	Key  []byte // PEM private key
	CA   []byte // optional PEM trust anchor
}

func (CertCredential) credential() {}
