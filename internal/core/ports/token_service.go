package ports

import "time"

// TokenClaims is the verified identity carried by a bearer token.
type TokenClaims struct {
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-bound identity tokens.
// Verification is a pure local signature check; it never touches the store.
type TokenService interface {
	Issue(userID, role string) (string, error)
	// Verify fails on a bad signature, wrong algorithm, malformed input, or
	// expiry. Callers must not distinguish these cases to the client.
	Verify(token string) (*TokenClaims, error)
}
