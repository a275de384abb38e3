package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// fakeProvider implements Provider for testing
type fakeProvider struct {
	requestAccountsFunc   func(ctx context.Context) ([]string, error)
	accountsFunc          func(ctx context.Context) ([]string, error)
	sendPaymentFunc       func(ctx context.Context, to string, amount decimal.Decimal) (PendingTx, error)
	awaitConfirmationFunc func(ctx context.Context, tx PendingTx) (string, error)

	registrations   int
	unregistrations int
	listener        func([]string)
}

func (f *fakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	if f.requestAccountsFunc != nil {
		return f.requestAccountsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) Accounts(ctx context.Context) ([]string, error) {
	if f.accountsFunc != nil {
		return f.accountsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) SendPayment(ctx context.Context, to string, amount decimal.Decimal) (PendingTx, error) {
	if f.sendPaymentFunc != nil {
		return f.sendPaymentFunc(ctx, to, amount)
	}
	return PendingTx{}, errors.New("not implemented")
}

func (f *fakeProvider) AwaitConfirmation(ctx context.Context, tx PendingTx) (string, error) {
	if f.awaitConfirmationFunc != nil {
		return f.awaitConfirmationFunc(ctx, tx)
	}
	return "", errors.New("not implemented")
}

func (f *fakeProvider) AccountsChanged(fn func([]string)) func() {
	f.registrations++
	f.listener = fn
	return func() {
		f.unregistrations++
		f.listener = nil
	}
}

func (f *fakeProvider) emitAccountsChanged(accounts []string) {
	if f.listener != nil {
		f.listener(accounts)
	}
}

func TestSessionConnect_Success(t *testing.T) {
	provider := &fakeProvider{
		requestAccountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"0xabc", "0xdef"}, nil
		},
	}

	session := NewSession(provider)
	addr, err := session.Connect(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if addr != "0xabc" {
		t.Errorf("Expected first account '0xabc', got '%s'", addr)
	}

	state := session.Current()
	if !state.Connected || state.Address != "0xabc" {
		t.Errorf("Expected connected session with address 0xabc, got %+v", state)
	}
}

func TestSessionConnect_UserRejected(t *testing.T) {
	provider := &fakeProvider{
		requestAccountsFunc: func(ctx context.Context) ([]string, error) {
			return nil, ErrUserRejected
		},
	}

	session := NewSession(provider)
	_, err := session.Connect(context.Background())
	if !errors.Is(err, ErrUserRejected) {
		t.Fatalf("Expected ErrUserRejected, got: %v", err)
	}
	if session.Current().Connected {
		t.Error("Session must stay disconnected after a rejected prompt")
	}
}

func TestSessionConnect_EmptyAccountList(t *testing.T) {
	provider := &fakeProvider{
		requestAccountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{}, nil
		},
	}

	session := NewSession(provider)
	_, err := session.Connect(context.Background())
	if !errors.Is(err, ErrUserRejected) {
		t.Fatalf("Expected ErrUserRejected for empty account list, got: %v", err)
	}
}

func TestSessionConnect_NoProvider(t *testing.T) {
	session := NewSession(nil)
	_, err := session.Connect(context.Background())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("Expected ErrProviderUnavailable, got: %v", err)
	}
}

func TestSessionConnect_ListenerRegisteredOnce(t *testing.T) {
	provider := &fakeProvider{
		requestAccountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"0xabc"}, nil
		},
	}

	session := NewSession(provider)
	for i := 0; i < 3; i++ {
		if _, err := session.Connect(context.Background()); err != nil {
			t.Fatalf("Connect %d failed: %v", i, err)
		}
	}

	if provider.registrations != 1 {
		t.Errorf("Expected exactly 1 listener registration after 3 connects, got %d", provider.registrations)
	}
}

func TestSessionRestore_AuthorizedAccount(t *testing.T) {
	provider := &fakeProvider{
		accountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"0xrestored"}, nil
		},
	}

	session := NewSession(provider)
	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	state := session.Current()
	if !state.Connected || state.Address != "0xrestored" {
		t.Errorf("Expected restored session, got %+v", state)
	}
}

func TestSessionRestore_NoAuthorizedAccounts(t *testing.T) {
	provider := &fakeProvider{
		accountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{}, nil
		},
	}

	session := NewSession(provider)
	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("Restore with no accounts must not error, got: %v", err)
	}
	if session.Current().Connected {
		t.Error("Session must stay disconnected when no accounts are authorized")
	}
}

func TestSessionDisconnect_Idempotent(t *testing.T) {
	provider := &fakeProvider{
		requestAccountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"0xabc"}, nil
		},
	}

	session := NewSession(provider)
	if _, err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	session.Disconnect()
	first := session.Current()

	session.Disconnect()
	second := session.Current()

	if first != second {
		t.Errorf("Disconnect must be idempotent: %+v vs %+v", first, second)
	}
	if second.Connected || second.Address != "" {
		t.Errorf("Expected cleared session, got %+v", second)
	}
	if provider.unregistrations != 1 {
		t.Errorf("Expected listener unregistered exactly once, got %d", provider.unregistrations)
	}
}

func TestSessionAccountsChanged_SwitchesAddress(t *testing.T) {
	provider := &fakeProvider{
		requestAccountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"0xabc"}, nil
		},
	}

	session := NewSession(provider)
	if _, err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	provider.emitAccountsChanged([]string{"0xnew"})

	state := session.Current()
	if state.Address != "0xnew" || !state.Connected {
		t.Errorf("Expected session to follow account change, got %+v", state)
	}
}

func TestSessionAccountsChanged_EmptyListClearsSession(t *testing.T) {
	provider := &fakeProvider{
		requestAccountsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"0xabc"}, nil
		},
	}

	session := NewSession(provider)
	if _, err := session.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	provider.emitAccountsChanged(nil)

	state := session.Current()
	if state.Connected || state.Address != "" {
		t.Errorf("Expected cleared session after revocation, got %+v", state)
	}
}
