package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateTestKeyPair generates an RSA key pair for testing JWT tokens
func GenerateTestKeyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

// GenerateTestJWT creates a valid JWT token for E2E testing
// This generates a token with the specified user ID, email, wallet address, and roles
func GenerateTestJWT(t *testing.T, privateKey *rsa.PrivateKey, userID, email, walletAddress string, roles []string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": TestIssuer,
		"exp": time.Now().Add(1 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
		"realm_access": map[string]interface{}{
			"roles": interfaceSlice(roles),
		},
	}

	if email != "" {
		claims["email"] = email
	}
	if walletAddress != "" {
		claims["wallet_address"] = walletAddress
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "test-key-id"

	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	return tokenString
}

// GenerateAdminToken creates an ADMIN token for testing
func GenerateAdminToken(t *testing.T, privateKey *rsa.PrivateKey) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, "admin-123", "admin@test.com", "", []string{"ADMIN"})
}

// GeneratePatientToken creates a PATIENT token for testing
func GeneratePatientToken(t *testing.T, privateKey *rsa.PrivateKey, email string) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, "patient-123", email, "", []string{"PATIENT"})
}

// GenerateProfessionalToken creates a PROFESSIONAL token for testing
func GenerateProfessionalToken(t *testing.T, privateKey *rsa.PrivateKey, email string) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, "professional-123", email, "", []string{"PROFESSIONAL"})
}

// interfaceSlice converts []string to []interface{} for JWT claims
func interfaceSlice(strings []string) []interface{} {
	result := make([]interface{}, len(strings))
	for i, s := range strings {
		result[i] = s
	}
	return result
}
