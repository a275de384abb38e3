package wallet

import (
	"os"
	"time"
)

// Config holds wallet bridge configuration
type Config struct {
	RPCURL              string
	TreasuryAddress     string
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration
}

// LoadConfig reads config from env with sensible defaults.
// You can override with WALLET_RPC_URL, TREASURY_ADDRESS,
// WALLET_CONFIRMATION_TIMEOUT and WALLET_POLL_INTERVAL.
func LoadConfig() Config {
	rpcURL := os.Getenv("WALLET_RPC_URL")
	if rpcURL == "" {
		rpcURL = "http://localhost:8545"
	}

	// TREASURY_ADDRESS is deliberately allowed to be empty: the upstream
	// application paid into the connected wallet's own address, which looks
	// like a placeholder. An empty value preserves that behavior; operators
	// should set a real treasury address.
	treasury := os.Getenv("TREASURY_ADDRESS")

	confirmationTimeout := 2 * time.Minute
	if v := os.Getenv("WALLET_CONFIRMATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			confirmationTimeout = d
		}
	}

	pollInterval := 2 * time.Second
	if v := os.Getenv("WALLET_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			pollInterval = d
		}
	}

	return Config{
		RPCURL:              rpcURL,
		TreasuryAddress:     treasury,
		ConfirmationTimeout: confirmationTimeout,
		PollInterval:        pollInterval,
	}
}
