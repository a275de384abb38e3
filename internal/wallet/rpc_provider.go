package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// EIP-1193 error code returned when the user declines a wallet prompt.
const codeUserRejected = 4001

var weiPerEther = decimal.New(1, 18)

// RPCProvider talks JSON-RPC to the wallet bridge that fronts the user's
// injected wallet. The bridge holds the signer; this client never sees keys.
type RPCProvider struct {
	rpcURL              string
	httpClient          *http.Client
	pollInterval        time.Duration
	confirmationTimeout time.Duration

	reqID atomic.Int64

	listenerMux  sync.Mutex
	listeners    map[int]func([]string)
	nextListener int
	watchQuit    chan struct{}
}

// NewRPCProvider creates a provider for the configured wallet bridge.
func NewRPCProvider(cfg Config) *RPCProvider {
	return &RPCProvider{
		rpcURL:              strings.TrimSuffix(cfg.RPCURL, "/"),
		httpClient:          &http.Client{Timeout: 30 * time.Second},
		pollInterval:        cfg.PollInterval,
		confirmationTimeout: cfg.ConfirmationTimeout,
		listeners:           map[int]func([]string){},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

func (p *RPCProvider) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      p.reqID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.rpcURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return fmt.Errorf("%w: invalid rpc response: %v", ErrProviderUnavailable, err)
	}
	if rr.Error != nil {
		return mapRPCError(rr.Error)
	}
	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("failed to decode rpc result for %s: %w", method, err)
		}
	}
	return nil
}

func mapRPCError(e *rpcError) error {
	switch {
	case e.Code == codeUserRejected:
		return ErrUserRejected
	case strings.Contains(strings.ToLower(e.Message), "insufficient funds"):
		return ErrInsufficientFunds
	default:
		return fmt.Errorf("%w: %s (code %d)", ErrSubmission, e.Message, e.Code)
	}
}

// RequestAccounts prompts the user for wallet access.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Accounts returns already-authorized accounts without prompting.
func (p *RPCProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SendPayment submits a native-currency transfer of amount (in ether) to the
// given address and returns the pending transaction handle immediately.
func (p *RPCProvider) SendPayment(ctx context.Context, to string, amount decimal.Decimal) (PendingTx, error) {
	accounts, err := p.Accounts(ctx)
	if err != nil {
		return PendingTx{}, err
	}
	if len(accounts) == 0 {
		return PendingTx{}, ErrNotConnected
	}

	tx := map[string]string{
		"from":  accounts[0],
		"to":    to,
		"value": toWeiHex(amount),
	}

	var hash string
	if err := p.call(ctx, "eth_sendTransaction", []interface{}{tx}, &hash); err != nil {
		if errors.Is(err, ErrUserRejected) || errors.Is(err, ErrInsufficientFunds) {
			return PendingTx{}, err
		}
		if errors.Is(err, ErrProviderUnavailable) {
			return PendingTx{}, fmt.Errorf("%w: %v", ErrSubmission, err)
		}
		return PendingTx{}, err
	}
	if hash == "" {
		return PendingTx{}, fmt.Errorf("%w: node returned empty transaction hash", ErrSubmission)
	}
	return PendingTx{Hash: hash}, nil
}

type txReceipt struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
	BlockNumber     string `json:"blockNumber"`
}

// AwaitConfirmation polls for the transaction receipt until the transaction
// is mined or the configured confirmation timeout elapses.
func (p *RPCProvider) AwaitConfirmation(ctx context.Context, tx PendingTx) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.confirmationTimeout)
	defer cancel()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *txReceipt
		err := p.call(ctx, "eth_getTransactionReceipt", []interface{}{tx.Hash}, &receipt)
		if err == nil && receipt != nil && receipt.BlockNumber != "" {
			if receipt.Status == "0x0" {
				return "", fmt.Errorf("%w: %s", ErrTransactionReverted, tx.Hash)
			}
			return receipt.TransactionHash, nil
		}
		if err != nil && !errors.Is(err, ErrProviderUnavailable) {
			// transient node errors keep polling, rpc-level errors do not
			return "", err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %s", ErrConfirmationTimeout, tx.Hash)
			}
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// AccountsChanged registers fn to be notified when the authorized account
// list changes. The bridge has no push channel, so the provider polls
// eth_accounts while at least one listener is registered.
func (p *RPCProvider) AccountsChanged(fn func([]string)) func() {
	p.listenerMux.Lock()
	defer p.listenerMux.Unlock()

	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn

	if p.watchQuit == nil {
		p.watchQuit = make(chan struct{})
		go p.watchAccounts(p.watchQuit)
	}

	return func() {
		p.listenerMux.Lock()
		defer p.listenerMux.Unlock()
		delete(p.listeners, id)
		if len(p.listeners) == 0 && p.watchQuit != nil {
			close(p.watchQuit)
			p.watchQuit = nil
		}
	}
}

func (p *RPCProvider) watchAccounts(quit chan struct{}) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	var last []string
	first := true

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		accounts, err := p.Accounts(ctx)
		cancel()
		if err != nil {
			log.Printf("Warning: account watch poll failed: %v", err)
			continue
		}

		if first {
			// establish the baseline without notifying
			first = false
			last = accounts
			continue
		}
		if !equalAccounts(last, accounts) {
			last = accounts

			p.listenerMux.Lock()
			fns := make([]func([]string), 0, len(p.listeners))
			for _, fn := range p.listeners {
				fns = append(fns, fn)
			}
			p.listenerMux.Unlock()

			for _, fn := range fns {
				fn(accounts)
			}
		}
	}
}

func equalAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func toWeiHex(amount decimal.Decimal) string {
	wei := amount.Mul(weiPerEther).BigInt()
	return "0x" + new(big.Int).Set(wei).Text(16)
}

// Ensure RPCProvider implements Provider
var _ Provider = (*RPCProvider)(nil)
