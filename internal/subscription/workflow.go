package subscription

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/CuraLedger-Health/subscription-service/internal/attestation"
	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
	"github.com/CuraLedger-Health/subscription-service/internal/pricing"
	"github.com/CuraLedger-Health/subscription-service/internal/records"
	"github.com/CuraLedger-Health/subscription-service/internal/wallet"
	"github.com/shopspring/decimal"
)

// State names the position of a workflow run. Complete and Failed are
// absorbing; every other state has exactly one successor.
type State string

const (
	StateIdle                  State = "idle"
	StatePriceFetched          State = "price_fetched"
	StateWalletConnected       State = "wallet_connected"
	StatePaymentSent           State = "payment_sent"
	StateConfirmed             State = "confirmed"
	StateSubscriptionPersisted State = "subscription_persisted"
	StateTransactionPersisted  State = "transaction_persisted"
	StateAttested              State = "attested"
	StateComplete              State = "complete"
	StateFailed                State = "failed"
)

// WalletConnector is the slice of the session manager the workflow needs.
type WalletConnector interface {
	Connect(ctx context.Context) (string, error)
}

// RateFetcher returns an exchange rate, zero meaning unknown.
type RateFetcher interface {
	FetchRate(ctx context.Context, base, quote string) decimal.Decimal
}

// MetricsRecorder interface for recording workflow metrics
type MetricsRecorder interface {
	RecordWorkflowOutcome(ctx context.Context, state, planName string)
	RecordPriceFallback(ctx context.Context)
}

// Outcome reports how far a run got and what it produced. On partial
// failures past the point of no return the populated fields survive
// alongside the returned error.
type Outcome struct {
	State           State           `json:"state"`
	WalletAddress   string          `json:"wallet_address,omitempty"`
	ConversionRate  decimal.Decimal `json:"conversion_rate"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	Subscription    *Subscription   `json:"subscription,omitempty"`
	Transaction     *Transaction    `json:"transaction,omitempty"`
	// Warnings carries non-fatal failures (attestation), so callers can
	// distinguish completed-with-warning from completed cleanly.
	Warnings []string `json:"warnings,omitempty"`
}

// Workflow drives one subscription purchase end to end: price fetch, wallet
// connect, payment, confirmation, persistence, best-effort attestation.
//
// Steps up to confirmation fail closed: nothing has been persisted and the
// caller may retry from scratch. After the payment is confirmed the on-chain
// transfer cannot be rolled back, so persistence failures fail open and are
// reconciled out-of-band (see Reconciler).
type Workflow struct {
	session   WalletConnector
	provider  wallet.Provider
	rates     RateFetcher
	repo      RepositoryInterface
	attester  attestation.ClientInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder

	treasury string
	now      func() time.Time

	inFlight atomic.Bool
}

// NewWorkflow wires a workflow. attester, publisher and metrics may be nil;
// treasury may be empty (payments then go to the connected address, the
// upstream placeholder behavior).
func NewWorkflow(
	session WalletConnector,
	provider wallet.Provider,
	rates RateFetcher,
	repo RepositoryInterface,
	attester attestation.ClientInterface,
	publisher messaging.PublisherInterface,
	metrics MetricsRecorder,
	treasury string,
) *Workflow {
	return &Workflow{
		session:   session,
		provider:  provider,
		rates:     rates,
		repo:      repo,
		attester:  attester,
		publisher: publisher,
		metrics:   metrics,
		treasury:  treasury,
		now:       time.Now,
	}
}

// Run executes the purchase workflow for one authenticated user and plan.
// At most one run per workflow instance may be in flight; a second
// concurrent call fails with ErrWorkflowInFlight before any side effect.
func (wf *Workflow) Run(ctx context.Context, user *records.User, plan Plan) (*Outcome, error) {
	// Precondition gate: no external effect without an authenticated user.
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	if !wf.inFlight.CompareAndSwap(false, true) {
		return nil, ErrWorkflowInFlight
	}
	defer wf.inFlight.Store(false)

	out := &Outcome{State: StateIdle, ConversionRate: decimal.Zero}

	// Step 1: exchange rate. A sentinel zero is not a failure; the flow
	// proceeds and USD equivalents are recorded as zero.
	rate := wf.rates.FetchRate(ctx, pricing.CurrencyEthereum, pricing.CurrencyUSD)
	out.ConversionRate = rate
	out.State = StatePriceFetched
	if rate.IsZero() {
		log.Printf("Warning: exchange rate unknown for %s, USD equivalents will be zero", plan.Name)
		if wf.metrics != nil {
			wf.metrics.RecordPriceFallback(ctx)
		}
	}

	// Step 2: wallet connect. Fails closed.
	address, err := wf.session.Connect(ctx)
	if err != nil {
		return wf.fail(ctx, out, plan, fmt.Errorf("wallet connect: %w", err))
	}
	out.WalletAddress = address
	out.State = StateWalletConnected

	// Step 3: submit the payment. Fails closed.
	destination := wf.treasury
	if destination == "" {
		destination = address
	}
	pending, err := wf.provider.SendPayment(ctx, destination, plan.PriceNative)
	if err != nil {
		return wf.fail(ctx, out, plan, fmt.Errorf("send payment: %w", err))
	}
	out.State = StatePaymentSent

	// Step 4: wait for the transaction to be mined. A failure here is the
	// known gap: funds may have left the wallet with no application record.
	hash, err := wf.provider.AwaitConfirmation(ctx, pending)
	if err != nil {
		log.Printf("Payment %s unconfirmed for user %d: %v", pending.Hash, user.ID, err)
		return wf.fail(ctx, out, plan, fmt.Errorf("await confirmation: %w", err))
	}
	out.TransactionHash = hash
	out.State = StateConfirmed

	// Step 5: subscription row. The payment is irreversible from here on,
	// so a persistence failure is surfaced but nothing is compensated.
	start := wf.now()
	sub := &Subscription{
		UserID:    user.ID,
		PlanName:  plan.Name,
		Price:     plan.PriceNative,
		Currency:  plan.Currency,
		StartDate: start,
		EndDate:   start.Add(SubscriptionPeriod),
		Status:    StatusActive,
	}
	created, err := wf.repo.CreateSubscription(ctx, sub)
	if err != nil {
		log.Printf("Confirmed payment %s has no subscription row: %v", hash, err)
		return wf.fail(ctx, out, plan, fmt.Errorf("%w: %v", ErrSubscriptionPersist, err))
	}
	out.Subscription = created
	out.State = StateSubscriptionPersisted

	// Step 6: transaction audit row, referencing the fresh subscription id.
	txRow := &Transaction{
		SubscriptionID:  created.ID,
		AmountPaid:      plan.PriceNative,
		PaidCurrency:    plan.Currency,
		ConversionRate:  rate,
		USDEquivalent:   plan.PriceNative.Mul(rate),
		TransactionDate: wf.now(),
		TransactionHash: hash,
	}
	recorded, err := wf.repo.CreateTransaction(ctx, txRow)
	if err != nil {
		// The subscription stands; the missing audit row is found by the
		// reconcile job. Not a Failed state for the user.
		log.Printf("Subscription %d has no transaction row: %v", created.ID, err)
		if wf.metrics != nil {
			wf.metrics.RecordWorkflowOutcome(ctx, string(out.State), plan.Name)
		}
		return out, fmt.Errorf("%w: %v", ErrTransactionPersist, err)
	}
	out.Transaction = recorded
	out.State = StateTransactionPersisted

	// Step 7: best-effort attestations. Never fatal.
	wf.attest(ctx, out, address, plan, created, recorded)

	out.State = StateComplete
	if wf.metrics != nil {
		wf.metrics.RecordWorkflowOutcome(ctx, string(StateComplete), plan.Name)
	}
	return out, nil
}

func (wf *Workflow) fail(ctx context.Context, out *Outcome, plan Plan, err error) (*Outcome, error) {
	out.State = StateFailed
	if wf.metrics != nil {
		wf.metrics.RecordWorkflowOutcome(ctx, string(StateFailed), plan.Name)
	}
	return out, err
}

func (wf *Workflow) attest(ctx context.Context, out *Outcome, address string, plan Plan, sub *Subscription, tx *Transaction) {
	if wf.attester == nil {
		return
	}

	nowUnix := wf.now().Unix()

	receipt, err := wf.attester.AttestSubscription(ctx, attestation.SubscriptionAttestation{
		User:      address,
		PlanName:  plan.Name,
		Price:     plan.PriceNative,
		Currency:  plan.Currency,
		StartDate: sub.StartDate.Unix(),
		EndDate:   sub.EndDate.Unix(),
		Timestamp: nowUnix,
	})
	if err != nil {
		log.Printf("Warning: subscription attestation failed for %d: %v", sub.ID, err)
		out.Warnings = append(out.Warnings, "subscription attestation failed")
		return
	}

	if _, err := wf.attester.AttestTransaction(ctx, attestation.TransactionAttestation{
		User:            address,
		SubscriptionID:  sub.ID,
		AmountPaid:      tx.AmountPaid,
		PaidCurrency:    tx.PaidCurrency,
		ConversionRate:  tx.ConversionRate,
		USDEquivalent:   tx.USDEquivalent,
		TransactionHash: tx.TransactionHash,
		Timestamp:       nowUnix,
	}); err != nil {
		log.Printf("Warning: transaction attestation failed for %d: %v", sub.ID, err)
		out.Warnings = append(out.Warnings, "transaction attestation failed")
		return
	}

	out.State = StateAttested

	if wf.publisher != nil {
		event := messaging.SubscriptionAttestedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventSubscriptionAttested),
			Data: messaging.SubscriptionAttestedData{
				SubscriptionID: sub.ID,
				AttestationID:  receipt.AttestationID,
				WalletAddress:  address,
			},
		}
		if err := wf.publisher.Publish(ctx, messaging.EventSubscriptionAttested, event); err != nil {
			log.Printf("Warning: failed to publish subscription.attested event: %v", err)
		}
	}
}
