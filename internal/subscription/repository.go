package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
)

type Repository struct {
	db        *sql.DB
	publisher messaging.PublisherInterface
}

func NewRepository(db *sql.DB, publisher messaging.PublisherInterface) *Repository {
	return &Repository{
		db:        db,
		publisher: publisher,
	}
}

// CreateSubscription inserts a subscription row and returns it with the
// generated id. Called by the workflow only after payment confirmation.
func (r *Repository) CreateSubscription(ctx context.Context, sub *Subscription) (*Subscription, error) {
	query := `
		INSERT INTO subscriptions (user_id, plan_name, price, currency, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		sub.UserID,
		sub.PlanName,
		sub.Price,
		sub.Currency,
		sub.StartDate,
		sub.EndDate,
		sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	log.Printf("Created subscription %d (%s) for user %d", sub.ID, sub.PlanName, sub.UserID)

	if r.publisher != nil {
		event := messaging.SubscriptionCreatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventSubscriptionCreated),
			Data: messaging.SubscriptionCreatedData{
				SubscriptionID: sub.ID,
				UserID:         sub.UserID,
				PlanName:       sub.PlanName,
				Price:          sub.Price,
				Currency:       sub.Currency,
				StartDate:      sub.StartDate,
				EndDate:        sub.EndDate,
				Status:         sub.Status,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventSubscriptionCreated, event); err != nil {
			log.Printf("Warning: failed to publish subscription.created event: %v", err)
		}
	}

	return sub, nil
}

// CreateTransaction inserts the payment audit row referencing an existing
// subscription.
func (r *Repository) CreateTransaction(ctx context.Context, tx *Transaction) (*Transaction, error) {
	query := `
		INSERT INTO subscription_transactions
			(subscription_id, amount_paid, paid_currency, conversion_rate, usd_equivalent, transaction_date, transaction_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		tx.SubscriptionID,
		tx.AmountPaid,
		tx.PaidCurrency,
		tx.ConversionRate,
		tx.USDEquivalent,
		tx.TransactionDate,
		tx.TransactionHash,
	).Scan(&tx.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription transaction: %w", err)
	}

	log.Printf("Recorded transaction %d for subscription %d (hash %s)", tx.ID, tx.SubscriptionID, tx.TransactionHash)

	if r.publisher != nil {
		event := messaging.TransactionRecordedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventTransactionRecorded),
			Data: messaging.TransactionRecordedData{
				TransactionID:   tx.ID,
				SubscriptionID:  tx.SubscriptionID,
				AmountPaid:      tx.AmountPaid,
				PaidCurrency:    tx.PaidCurrency,
				ConversionRate:  tx.ConversionRate,
				USDEquivalent:   tx.USDEquivalent,
				TransactionHash: tx.TransactionHash,
				TransactionDate: tx.TransactionDate,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventTransactionRecorded, event); err != nil {
			log.Printf("Warning: failed to publish transaction_recorded event: %v", err)
		}
	}

	return tx, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Subscription, error) {
	query := `
		SELECT id, user_id, plan_name, price, currency, start_date, end_date, status, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.PlanName,
			&sub.Price,
			&sub.Currency,
			&sub.StartDate,
			&sub.EndDate,
			&sub.Status,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return subs, nil
}

func (r *Repository) ListTransactions(ctx context.Context, subscriptionID int64) ([]Transaction, error) {
	query := `
		SELECT id, subscription_id, amount_paid, paid_currency, conversion_rate, usd_equivalent, transaction_date, transaction_hash
		FROM subscription_transactions
		WHERE subscription_id = $1
		ORDER BY transaction_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var tx Transaction
		var hash sql.NullString
		if err := rows.Scan(
			&tx.ID,
			&tx.SubscriptionID,
			&tx.AmountPaid,
			&tx.PaidCurrency,
			&tx.ConversionRate,
			&tx.USDEquivalent,
			&tx.TransactionDate,
			&hash,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.TransactionHash = hash.String
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}
