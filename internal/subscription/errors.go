package subscription

import "errors"

var (
	ErrNotAuthenticated    = errors.New("authenticated user required")
	ErrUnknownPlan         = errors.New("unknown subscription plan")
	ErrWorkflowInFlight    = errors.New("subscription workflow already in flight")
	ErrSubscriptionPersist = errors.New("failed to persist subscription after confirmed payment")
	ErrTransactionPersist  = errors.New("failed to persist transaction record")
)
