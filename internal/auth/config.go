package auth

import "os"

// Config holds auth configuration
type Config struct {
	Issuer   string
	JWKSURL  string
	Audience string
}

var (
	// Defaults are the hosted login realm for the CuraLedger suite.
	DefaultIssuer  = "https://auth.curaledger.health/realms/curaledger"
	DefaultJWKSURL = "https://auth.curaledger.health/realms/curaledger/protocol/openid-connect/certs"
)

// LoadConfig reads config from env with sensible defaults.
// You can override with AUTH_ISSUER and AUTH_JWKS_URL and AUTH_AUD.
func LoadConfig() Config {
	issuer := os.Getenv("AUTH_ISSUER")
	if issuer == "" {
		issuer = DefaultIssuer
	}
	jwks := os.Getenv("AUTH_JWKS_URL")
	if jwks == "" {
		jwks = DefaultJWKSURL
	}
	aud := os.Getenv("AUTH_AUD") // optional
	return Config{
		Issuer:   issuer,
		JWKSURL:  jwks,
		Audience: aud,
	}
}
