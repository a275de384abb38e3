package attestation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrAttestationFailed = errors.New("attestation request failed")

// Config holds attestation service configuration
type Config struct {
	BaseURL              string
	APIKey               string
	SubscriptionSchemaID string
	TransactionSchemaID  string
	Timeout              time.Duration
}

// LoadConfig reads config from env. Schema ids default to the registered
// Subscription and Subscription Transaction schemas.
func LoadConfig() Config {
	subSchema := os.Getenv("ATTESTATION_SUBSCRIPTION_SCHEMA_ID")
	if subSchema == "" {
		subSchema = "0x8a"
	}
	txSchema := os.Getenv("ATTESTATION_TRANSACTION_SCHEMA_ID")
	if txSchema == "" {
		txSchema = "0x9b"
	}

	timeout := 15 * time.Second
	if v := os.Getenv("ATTESTATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	return Config{
		BaseURL:              os.Getenv("ATTESTATION_BASE_URL"),
		APIKey:               os.Getenv("ATTESTATION_API_KEY"),
		SubscriptionSchemaID: subSchema,
		TransactionSchemaID:  txSchema,
		Timeout:              timeout,
	}
}

// SubscriptionAttestation is the structured record asserting a subscription,
// indexed by the paying wallet address. Dates are unix seconds.
type SubscriptionAttestation struct {
	User      string          `json:"user"`
	PlanName  string          `json:"planName"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	StartDate int64           `json:"startDate"`
	EndDate   int64           `json:"endDate"`
	Timestamp int64           `json:"timestamp"`
}

// TransactionAttestation is the structured record asserting a payment.
type TransactionAttestation struct {
	User            string          `json:"user"`
	SubscriptionID  int64           `json:"subscriptionId"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	PaidCurrency    string          `json:"paidCurrency"`
	ConversionRate  decimal.Decimal `json:"conversionRate"`
	USDEquivalent   decimal.Decimal `json:"usdEquivalent"`
	TransactionHash string          `json:"transactionHash"`
	Timestamp       int64           `json:"timestamp"`
}

// Receipt is the external confirmation id for a submitted attestation. It is
// ephemeral: never persisted locally.
type Receipt struct {
	AttestationID string `json:"attestation_id"`
}

// ClientInterface defines the contract for attestation submission
// This allows for easy mocking in tests
type ClientInterface interface {
	AttestSubscription(ctx context.Context, att SubscriptionAttestation) (*Receipt, error)
	AttestTransaction(ctx context.Context, att TransactionAttestation) (*Receipt, error)
}

// Client submits attestations to the external attestation service. Failures
// are expected to be treated as non-fatal by callers.
type Client struct {
	baseURL    string
	apiKey     string
	subSchema  string
	txSchema   string
	httpClient *http.Client
}

// NewClient creates an attestation client. A client with an empty base URL is
// valid and fails every submission, which callers already tolerate.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		subSchema:  cfg.SubscriptionSchemaID,
		txSchema:   cfg.TransactionSchemaID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type attestationRequest struct {
	SchemaID      string      `json:"schema_id"`
	IndexingValue string      `json:"indexing_value"`
	Data          interface{} `json:"data"`
}

// AttestSubscription submits a subscription attestation.
func (c *Client) AttestSubscription(ctx context.Context, att SubscriptionAttestation) (*Receipt, error) {
	return c.submit(ctx, attestationRequest{
		SchemaID:      c.subSchema,
		IndexingValue: att.User,
		Data:          att,
	})
}

// AttestTransaction submits a payment attestation.
func (c *Client) AttestTransaction(ctx context.Context, att TransactionAttestation) (*Receipt, error) {
	return c.submit(ctx, attestationRequest{
		SchemaID:      c.txSchema,
		IndexingValue: att.User,
		Data:          att,
	})
}

func (c *Client) submit(ctx context.Context, payload attestationRequest) (*Receipt, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: no service configured", ErrAttestationFailed)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %v", ErrAttestationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/attestations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttestationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttestationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrAttestationFailed, resp.StatusCode, string(raw))
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("%w: decode receipt: %v", ErrAttestationFailed, err)
	}
	return &receipt, nil
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)
