package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
)

// OrphanSubscription is a subscription with no transaction audit row. These
// appear when the workflow confirms a payment, writes the subscription, and
// then fails to write the transaction record.
type OrphanSubscription struct {
	SubscriptionID int64
	UserID         int64
	PlanName       string
	StartDate      sql.NullTime
}

// Reconciler finds subscriptions missing their payment audit row. It never
// repairs them automatically: the on-chain details needed to rebuild the row
// are not stored locally, so each finding is reported for manual follow-up.
type Reconciler struct {
	db        *sql.DB
	publisher messaging.PublisherInterface
}

// NewReconciler creates a reconciler.
func NewReconciler(db *sql.DB, publisher messaging.PublisherInterface) *Reconciler {
	return &Reconciler{db: db, publisher: publisher}
}

// CountOrphans returns how many subscriptions have no transaction row.
func (s *Reconciler) CountOrphans(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM subscriptions sub
		LEFT JOIN subscription_transactions tx ON tx.subscription_id = sub.id
		WHERE tx.id IS NULL
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orphan subscriptions: %w", err)
	}
	return count, nil
}

// FindOrphans lists subscriptions with no transaction row, oldest first.
func (s *Reconciler) FindOrphans(ctx context.Context) ([]OrphanSubscription, error) {
	query := `
		SELECT sub.id, sub.user_id, sub.plan_name, sub.start_date
		FROM subscriptions sub
		LEFT JOIN subscription_transactions tx ON tx.subscription_id = sub.id
		WHERE tx.id IS NULL
		ORDER BY sub.start_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orphan subscriptions: %w", err)
	}
	defer rows.Close()

	var orphans []OrphanSubscription
	for rows.Next() {
		var o OrphanSubscription
		if err := rows.Scan(&o.SubscriptionID, &o.UserID, &o.PlanName, &o.StartDate); err != nil {
			return nil, fmt.Errorf("failed to scan orphan subscription: %w", err)
		}
		orphans = append(orphans, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orphan subscriptions: %w", err)
	}
	return orphans, nil
}

// Report publishes one event per orphan so downstream tooling can pick the
// findings up, and logs each one.
func (s *Reconciler) Report(ctx context.Context, orphans []OrphanSubscription) {
	for _, o := range orphans {
		log.Printf("Subscription %d (user %d, %s) has no transaction record", o.SubscriptionID, o.UserID, o.PlanName)

		if s.publisher == nil {
			continue
		}
		event := messaging.SubscriptionCreatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventReconciliationMissing),
			Data: messaging.SubscriptionCreatedData{
				SubscriptionID: o.SubscriptionID,
				UserID:         o.UserID,
				PlanName:       o.PlanName,
			},
		}
		if err := s.publisher.Publish(ctx, messaging.EventReconciliationMissing, event); err != nil {
			log.Printf("Warning: failed to publish reconciliation event for %d: %v", o.SubscriptionID, err)
		}
	}
}
