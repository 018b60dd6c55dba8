package domain

import "time"

// Principal is the authenticated identity attached to a request after token
// verification. It lives for one request and is never persisted.
type Principal struct {
	Subject   string
	Issuer    string
	Audience  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RawClaims map[string]any
}
