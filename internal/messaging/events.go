package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event routing keys as constants
const (
	// Subscription events
	EventSubscriptionCreated   = "subscription.created"
	EventTransactionRecorded   = "subscription.transaction_recorded"
	EventSubscriptionAttested  = "subscription.attested"
	EventReconciliationMissing = "subscription.transaction_missing"

	// Record events
	EventRecordCreated = "record.created"
	EventRecordUpdated = "record.updated"

	// Health professional events
	EventProfessionalCreated = "professional.created"
	EventProfessionalUpdated = "professional.updated"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// SubscriptionCreatedEvent represents a paid, persisted subscription
type SubscriptionCreatedEvent struct {
	BaseEvent
	Data SubscriptionCreatedData `json:"data"`
}

type SubscriptionCreatedData struct {
	SubscriptionID int64           `json:"subscription_id"`
	UserID         int64           `json:"user_id"`
	PlanName       string          `json:"plan_name"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Status         string          `json:"status"`
}

// TransactionRecordedEvent represents the payment audit row for a subscription
type TransactionRecordedEvent struct {
	BaseEvent
	Data TransactionRecordedData `json:"data"`
}

type TransactionRecordedData struct {
	TransactionID   int64           `json:"transaction_id"`
	SubscriptionID  int64           `json:"subscription_id"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaidCurrency    string          `json:"paid_currency"`
	ConversionRate  decimal.Decimal `json:"conversion_rate"`
	USDEquivalent   decimal.Decimal `json:"usd_equivalent"`
	TransactionHash string          `json:"transaction_hash"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// SubscriptionAttestedEvent is emitted when the external attestation succeeds
type SubscriptionAttestedEvent struct {
	BaseEvent
	Data SubscriptionAttestedData `json:"data"`
}

type SubscriptionAttestedData struct {
	SubscriptionID int64  `json:"subscription_id"`
	AttestationID  string `json:"attestation_id"`
	WalletAddress  string `json:"wallet_address"`
}

// RecordCreatedEvent represents a new medical record
type RecordCreatedEvent struct {
	BaseEvent
	Data RecordCreatedData `json:"data"`
}

type RecordCreatedData struct {
	RecordID   int64     `json:"record_id"`
	UserID     int64     `json:"user_id"`
	RecordName string    `json:"record_name"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProfessionalCreatedEvent represents a new health-professional listing
type ProfessionalCreatedEvent struct {
	BaseEvent
	Data ProfessionalCreatedData `json:"data"`
}

type ProfessionalCreatedData struct {
	ProfessionalID int64     `json:"professional_id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		ServiceName: "subscription-service",
	}
}
