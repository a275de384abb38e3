//go:build integration

package e2e

import (
	"crypto/rsa"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/CuraLedger-Health/subscription-service/internal/attestation"
	"github.com/CuraLedger-Health/subscription-service/internal/auth"
	httpserver "github.com/CuraLedger-Health/subscription-service/internal/http"
	"github.com/CuraLedger-Health/subscription-service/internal/pricing"
	"github.com/CuraLedger-Health/subscription-service/internal/testutil"
	"github.com/CuraLedger-Health/subscription-service/internal/wallet"
)

// TestTreasuryAddress receives test payments.
const TestTreasuryAddress = "0x00000000000000000000000000000000cafe0001"

// TestServer represents a complete E2E test environment
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	Verifier      *auth.Verifier
	PrivateKey    *rsa.PrivateKey
	Wallet        *FakeWalletBridge
	Attestations  *FakeAttestationService

	walletServer *httptest.Server
	priceServer  *httptest.Server
	attestServer *httptest.Server
}

// SetupE2ETest creates a complete test environment for E2E testing
// This includes:
// - Real PostgreSQL database (skipped when unreachable)
// - Real HTTP server with all routes
// - Mock/in-memory RabbitMQ publisher
// - Fake wallet bridge, price API and attestation service
// - Test JWT verifier and signing key
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	// Setup real database
	db := testutil.SetupTestDB(t)
	ensureSchema(t, db)

	// Create mock RabbitMQ publisher (in-memory only, no real RabbitMQ calls)
	mockPublisher := testutil.NewMockPublisher()

	// Load permissions from file
	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	// Create test verifier and get private key for signing tokens
	verifier, privateKey := testutil.CreateTestVerifier(t)

	// Fake external services
	fakeWallet := NewFakeWalletBridge()
	walletServer := httptest.NewServer(fakeWallet)

	priceServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ethereum":{"usd":3000}}`)
	}))

	fakeAttestations := &FakeAttestationService{}
	attestServer := httptest.NewServer(fakeAttestations)

	provider := wallet.NewRPCProvider(wallet.Config{
		RPCURL:              walletServer.URL,
		TreasuryAddress:     TestTreasuryAddress,
		PollInterval:        25 * time.Millisecond,
		ConfirmationTimeout: 5 * time.Second,
	})
	session := wallet.NewSession(provider)

	rates := pricing.NewClient(pricing.Config{
		BaseURL: priceServer.URL,
		Timeout: 5 * time.Second,
	})

	attester := attestation.NewClient(attestation.Config{
		BaseURL:              attestServer.URL,
		SubscriptionSchemaID: "0x8a",
		TransactionSchemaID:  "0x9b",
		Timeout:              5 * time.Second,
	})

	// Setup router with real dependencies, fake external services and mock publisher
	router := httpserver.SetupRouter(db, verifier, perms, mockPublisher,
		provider, session, rates, attester, nil, TestTreasuryAddress)

	// Create test HTTP server
	server := httptest.NewServer(router)

	return &TestServer{
		Server:        server,
		DB:            db,
		MockPublisher: mockPublisher,
		Verifier:      verifier,
		PrivateKey:    privateKey,
		Wallet:        fakeWallet,
		Attestations:  fakeAttestations,
		walletServer:  walletServer,
		priceServer:   priceServer,
		attestServer:  attestServer,
	}
}

// Cleanup cleans up all test resources
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()

	ts.Server.Close()
	ts.walletServer.Close()
	ts.priceServer.Close()
	ts.attestServer.Close()

	testutil.CleanupTestDB(t, ts.DB)
	ts.DB.Close()
}

// GenerateAdminToken generates an ADMIN token for this test server
func (ts *TestServer) GenerateAdminToken(t *testing.T) string {
	t.Helper()
	return testutil.GenerateAdminToken(t, ts.PrivateKey)
}

// GeneratePatientToken generates a PATIENT token for this test server
func (ts *TestServer) GeneratePatientToken(t *testing.T, email string) string {
	t.Helper()
	return testutil.GeneratePatientToken(t, ts.PrivateKey, email)
}

// GenerateProfessionalToken generates a PROFESSIONAL token for this test server
func (ts *TestServer) GenerateProfessionalToken(t *testing.T, email string) string {
	t.Helper()
	return testutil.GenerateProfessionalToken(t, ts.PrivateKey, email)
}

// NewClient creates a new HTTP test client for this server with the given token
func (ts *TestServer) NewClient(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}

// ensureSchema provisions the tables the service expects. The statements
// mirror the production schema and are idempotent, so a pre-provisioned
// test database is left untouched.
func ensureSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT,
			age INTEGER,
			location TEXT,
			folders TEXT[] DEFAULT '{}',
			treatment_counts INTEGER DEFAULT 0,
			folder TEXT[] DEFAULT '{}',
			created_by TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id),
			record_name TEXT NOT NULL,
			analysis_result TEXT,
			kanban_records TEXT,
			created_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			plan_name TEXT NOT NULL,
			price NUMERIC(20, 8) NOT NULL,
			currency TEXT NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subscription_transactions (
			id SERIAL PRIMARY KEY,
			subscription_id INTEGER NOT NULL REFERENCES subscriptions(id),
			amount_paid NUMERIC(20, 8) NOT NULL,
			paid_currency TEXT NOT NULL,
			conversion_rate NUMERIC(20, 8) NOT NULL,
			usd_equivalent NUMERIC(20, 8) NOT NULL,
			transaction_date TIMESTAMPTZ NOT NULL,
			transaction_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS health_professionals (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			specialization TEXT NOT NULL,
			picture_url TEXT,
			qualifications TEXT[] DEFAULT '{}',
			years_of_experience INTEGER,
			contact_email TEXT NOT NULL UNIQUE,
			contact_phone TEXT,
			eth_address TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to provision test schema: %v", err)
		}
	}
}

// FakeWalletBridge is an in-memory JSON-RPC wallet bridge. It auto-approves
// payments and mines every transaction on the first receipt poll.
type FakeWalletBridge struct {
	mu         sync.Mutex
	accounts   []string
	nextTx     int
	rejectNext bool
	sent       []SentPayment
}

// SentPayment is a payment observed by the fake bridge.
type SentPayment struct {
	From  string
	To    string
	Value string
	Hash  string
}

func NewFakeWalletBridge() *FakeWalletBridge {
	return &FakeWalletBridge{
		accounts: []string{"0x1111111111111111111111111111111111111111"},
	}
}

// RejectNextPayment makes the next eth_sendTransaction fail with the
// EIP-1193 user-rejected code.
func (f *FakeWalletBridge) RejectNextPayment() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectNext = true
}

// SentPayments returns all payments the bridge has accepted.
func (f *FakeWalletBridge) SentPayments() []SentPayment {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentPayment, len(f.sent))
	copy(out, f.sent)
	return out
}

type walletRPCRequest struct {
	ID     int64             `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (f *FakeWalletBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req walletRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch req.Method {
	case "eth_accounts", "eth_requestAccounts":
		writeRPCResult(w, req.ID, f.accounts)

	case "eth_sendTransaction":
		if f.rejectNext {
			f.rejectNext = false
			writeRPCError(w, req.ID, 4001, "User rejected the request.")
			return
		}
		var tx struct {
			From  string `json:"from"`
			To    string `json:"to"`
			Value string `json:"value"`
		}
		if len(req.Params) > 0 {
			json.Unmarshal(req.Params[0], &tx)
		}
		f.nextTx++
		hash := fmt.Sprintf("0x%064x", f.nextTx)
		f.sent = append(f.sent, SentPayment{From: tx.From, To: tx.To, Value: tx.Value, Hash: hash})
		writeRPCResult(w, req.ID, hash)

	case "eth_getTransactionReceipt":
		var hash string
		if len(req.Params) > 0 {
			json.Unmarshal(req.Params[0], &hash)
		}
		writeRPCResult(w, req.ID, map[string]string{
			"transactionHash": hash,
			"status":          "0x1",
			"blockNumber":     "0x1",
		})

	default:
		writeRPCError(w, req.ID, -32601, "method not found: "+req.Method)
	}
}

func writeRPCResult(w http.ResponseWriter, id int64, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func writeRPCError(w http.ResponseWriter, id int64, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   map[string]interface{}{"code": code, "message": message},
	})
}

// FakeAttestationService accepts every attestation and counts submissions
// per schema id.
type FakeAttestationService struct {
	mu          sync.Mutex
	nextID      int
	submissions []string
}

// Submissions returns the schema ids of all accepted attestations, in order.
func (f *FakeAttestationService) Submissions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.submissions))
	copy(out, f.submissions)
	return out
}

func (f *FakeAttestationService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SchemaID string `json:"schema_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.submissions = append(f.submissions, req.SchemaID)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"attestation_id":"att-%d"}`, id)
}
