package domain

import "time"

// TokenProvider identifies where an access token came from.
type TokenProvider string

const (
	TokenSourceFirebase TokenProvider = "firebase"
	TokenSourceBackend  TokenProvider = "backend"
	TokenSourceOAuth    TokenProvider = "oauth"
)

// AccessToken is an opaque provider token, cached in memory only.
// Expiry is the real provider expiry; callers apply their own safety margin.
type AccessToken struct {
	Value  string
	Expiry time.Time
	Source TokenProvider
}
