package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// PendingTx is a handle to a submitted but not yet confirmed transaction.
type PendingTx struct {
	Hash string `json:"hash"`
}

// Provider abstracts the injected wallet the user pays with. RequestAccounts
// prompts the user for access, Accounts silently returns accounts that are
// already authorized. SendPayment returns as soon as the transaction is
// accepted by the node; confirmation is a separate, blocking step.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	Accounts(ctx context.Context) ([]string, error)
	SendPayment(ctx context.Context, to string, amount decimal.Decimal) (PendingTx, error)
	AwaitConfirmation(ctx context.Context, tx PendingTx) (string, error)
	// AccountsChanged registers a listener for account-list changes and
	// returns a function that unregisters it.
	AccountsChanged(fn func(accounts []string)) (unsubscribe func())
}
