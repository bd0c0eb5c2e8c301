package authn

import "crypto/subtle"

// CredentialChecker validates a username/password pair. The ingest service
// consumes this boundary so the static demo check can be swapped for a real
// identity provider without touching the handlers.
type CredentialChecker interface {
	Verify(username, password string) bool
}

// StaticChecker accepts exactly one credential pair.
type StaticChecker struct {
	Username string
	Password string
}

// Verify compares in constant time.
func (c StaticChecker) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}
