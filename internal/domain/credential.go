package domain

// Credential selects which API key authenticates a platform call. The
// platform has two scopes: the subaccount's own key, and the platform-wide
// master key able to act on any subaccount through tenant-scoped endpoints.
// Keeping this an explicit two-variant value (instead of ad hoc header
// building) makes the fiscal fallback path auditable on its own.
type Credential struct {
	key    string
	master bool
}

// SubaccountKey authenticates with the subaccount's own API key.
func SubaccountKey(key string) Credential {
	return Credential{key: key}
}

// MasterKey authenticates with the platform master credential configured
// at client construction.
func MasterKey() Credential {
	return Credential{master: true}
}

// IsMaster reports whether the master credential was selected.
func (c Credential) IsMaster() bool { return c.master }

// Resolve returns the access token to send: the explicit subaccount key,
// or the given master key for the master variant.
func (c Credential) Resolve(masterKey string) string {
	if c.master || c.key == "" {
		return masterKey
	}
	return c.key
}
