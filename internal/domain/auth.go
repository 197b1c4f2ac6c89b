package domain

import "time"

// AuthClaims carries the authenticated submitter identity extracted from a
// validated token.
type AuthClaims struct {
	Address   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthService validates relay tokens and issues new ones for a wallet
// address. Key custody stays with the relay's callers; the service only
// binds an address to a bearer token.
type AuthService interface {
	GenerateAccessToken(address string) (string, error)
	ValidateToken(token string) (*AuthClaims, error)
}
