package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription statuses
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// SubscriptionPeriod is the fixed length of every subscription. Upstream
// billing always granted 30 days regardless of the plan's advertised
// duration label; that mismatch is preserved here rather than silently
// changed. See Plan.DurationLabel.
const SubscriptionPeriod = 30 * 24 * time.Hour

// Plan is an immutable plan descriptor. Plans are defined statically and
// never persisted.
type Plan struct {
	Name          string          `json:"name"`
	PriceNative   decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	DurationLabel string          `json:"duration"`
}

// Plans returns the static plan catalog.
func Plans() []Plan {
	return []Plan{
		{Name: "Basic Plan", PriceNative: decimal.RequireFromString("0.1"), Currency: "ETH", DurationLabel: "1 Month"},
		{Name: "Standard Plan", PriceNative: decimal.RequireFromString("0.25"), Currency: "ETH", DurationLabel: "3 Months"},
		{Name: "Premium Plan", PriceNative: decimal.RequireFromString("0.5"), Currency: "ETH", DurationLabel: "6 Months"},
	}
}

// PlanByName looks up a plan in the catalog.
func PlanByName(name string) (Plan, bool) {
	for _, p := range Plans() {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

// Subscription is a paid subscription row. Created only after the on-chain
// payment is confirmed.
type Subscription struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	PlanName  string          `json:"plan_name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Transaction is the payment audit row for a subscription. It must never
// exist without its subscription; the workflow writes the two in that order.
type Transaction struct {
	ID              int64           `json:"id"`
	SubscriptionID  int64           `json:"subscription_id"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaidCurrency    string          `json:"paid_currency"`
	ConversionRate  decimal.Decimal `json:"conversion_rate"`
	USDEquivalent   decimal.Decimal `json:"usd_equivalent"`
	TransactionDate time.Time       `json:"transaction_date"`
	TransactionHash string          `json:"transaction_hash"`
}

// PlanQuote is a plan together with its live USD equivalent. A zero
// USDEquivalent means the exchange rate is currently unknown.
type PlanQuote struct {
	Plan
	USDEquivalent decimal.Decimal `json:"usd_equivalent"`
}

// SubscribeRequest is the request to purchase a plan
type SubscribeRequest struct {
	PlanName string `json:"plan_name"`
}
