package auth

import (
	"context"
	"crypto/rsa"
)

// ContextWithPrincipal adds a principal to the context for testing purposes
// This is exported to allow other packages to create test contexts
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// NewTestJWKS creates a JWKS preloaded with a single test key. It never
// refreshes, so it accepts only tokens signed with the matching private key.
func NewTestJWKS(publicKey *rsa.PublicKey) *JWKS {
	return &JWKS{
		keys: map[string]*rsa.PublicKey{
			"test-key-id": publicKey,
		},
	}
}
