package subscription

import (
	"context"

	"github.com/CuraLedger-Health/subscription-service/internal/records"
)

// ServiceInterface defines the contract for subscription queries
type ServiceInterface interface {
	ListPlans(ctx context.Context) []PlanQuote
	ListUserSubscriptions(ctx context.Context, userID int64) ([]Subscription, error)
	ListSubscriptionTransactions(ctx context.Context, subscriptionID int64) ([]Transaction, error)
}

// WorkflowRunner defines the contract for running the purchase workflow
type WorkflowRunner interface {
	Run(ctx context.Context, user *records.User, plan Plan) (*Outcome, error)
}

// UserLookup resolves the application user for an authenticated email
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*records.User, error)
}

// Ensure implementations satisfy their contracts
var (
	_ ServiceInterface = (*Service)(nil)
	_ WorkflowRunner   = (*Workflow)(nil)
)
