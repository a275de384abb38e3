package subscription

import "context"

// RepositoryInterface defines the contract for subscription data access
type RepositoryInterface interface {
	CreateSubscription(ctx context.Context, sub *Subscription) (*Subscription, error)
	CreateTransaction(ctx context.Context, tx *Transaction) (*Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]Subscription, error)
	ListTransactions(ctx context.Context, subscriptionID int64) ([]Transaction, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
