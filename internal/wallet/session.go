package wallet

import (
	"context"
	"log"
	"sync"
)

// WalletSession is a read-only snapshot of the current connection state.
type WalletSession struct {
	Address   string `json:"address,omitempty"`
	Connected bool   `json:"connected"`
}

// Session owns the wallet connection state for one user session. It is the
// sole subscriber to provider account-change notifications; every other
// component reads state through Current.
type Session struct {
	provider Provider

	mu          sync.Mutex
	address     string
	connected   bool
	unsubscribe func()
}

// NewSession creates a session backed by the given provider.
func NewSession(provider Provider) *Session {
	return &Session{provider: provider}
}

// Connect requests account access from the provider and stores the first
// returned address. Safe to call repeatedly: the account-change listener is
// registered at most once.
func (s *Session) Connect(ctx context.Context) (string, error) {
	if s.provider == nil {
		return "", ErrProviderUnavailable
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ErrUserRejected
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = accounts[0]
	s.connected = true
	s.ensureListenerLocked()

	log.Printf("Wallet connected: %s", s.address)
	return s.address, nil
}

// Restore silently picks up an already-authorized account, without prompting
// the user. Called once at startup; a provider with no authorized accounts
// leaves the session disconnected and is not an error.
func (s *Session) Restore(ctx context.Context) error {
	if s.provider == nil {
		return ErrProviderUnavailable
	}

	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = accounts[0]
	s.connected = true
	s.ensureListenerLocked()

	log.Printf("Wallet session restored: %s", s.address)
	return nil
}

// Disconnect clears the session and unregisters the account-change listener.
// Idempotent.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.connected {
		log.Printf("Wallet disconnected: %s", s.address)
	}
	s.address = ""
	s.connected = false
}

// Current returns a snapshot of the session state.
func (s *Session) Current() WalletSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WalletSession{Address: s.address, Connected: s.connected}
}

// ensureListenerLocked registers the account-change listener exactly once.
// Callers must hold s.mu.
func (s *Session) ensureListenerLocked() {
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.provider.AccountsChanged(s.onAccountsChanged)
}

func (s *Session) onAccountsChanged(accounts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(accounts) == 0 {
		log.Printf("Wallet accounts revoked, clearing session")
		s.address = ""
		s.connected = false
		return
	}
	if accounts[0] != s.address {
		log.Printf("Wallet account changed: %s -> %s", s.address, accounts[0])
	}
	s.address = accounts[0]
	s.connected = true
}
