package subscription

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CuraLedger-Health/subscription-service/internal/auth"
	"github.com/CuraLedger-Health/subscription-service/internal/records"
	"github.com/CuraLedger-Health/subscription-service/internal/wallet"
)

type Handler struct {
	service  ServiceInterface
	workflow WorkflowRunner
	users    UserLookup
}

func NewHandler(service ServiceInterface, workflow WorkflowRunner, users UserLookup) *Handler {
	return &Handler{
		service:  service,
		workflow: workflow,
		users:    users,
	}
}

type PlanListResponse struct {
	Success bool        `json:"success"`
	Plans   []PlanQuote `json:"plans"`
}

type SubscriptionListResponse struct {
	Success       bool           `json:"success"`
	Subscriptions []Subscription `json:"subscriptions"`
	Total         int            `json:"total"`
}

type SubscribeResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Transaction  *Transaction  `json:"transaction,omitempty"`
	Warnings     []string      `json:"warnings,omitempty"`
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans := h.service.ListPlans(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PlanListResponse{Success: true, Plans: plans})
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	plan, ok := PlanByName(req.PlanName)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown_plan", "Unknown subscription plan: "+req.PlanName)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), principal.Email)
	if err != nil {
		if errors.Is(err, records.ErrUserNotFound) {
			respondError(w, http.StatusForbidden, "no_app_user", "Log in and create a profile before subscribing")
			return
		}
		respondError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}

	outcome, err := h.workflow.Run(r.Context(), user, plan)
	if err != nil {
		h.respondWorkflowError(w, outcome, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubscribeResponse{
		Success:      true,
		Message:      "Subscribed to " + plan.Name + " successfully",
		Subscription: outcome.Subscription,
		Transaction:  outcome.Transaction,
		Warnings:     outcome.Warnings,
	})
}

// respondWorkflowError maps workflow failures onto HTTP statuses. Failures
// before persistence are safe to retry; failures after a confirmed payment
// must tell the user their payment went through.
func (h *Handler) respondWorkflowError(w http.ResponseWriter, outcome *Outcome, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")

	case errors.Is(err, ErrWorkflowInFlight):
		respondError(w, http.StatusConflict, "in_flight", "A subscription purchase is already in progress")

	case errors.Is(err, wallet.ErrProviderUnavailable):
		respondError(w, http.StatusServiceUnavailable, "provider_unavailable", "No wallet provider available, please try again")

	case errors.Is(err, wallet.ErrUserRejected):
		respondError(w, http.StatusBadRequest, "payment_rejected", "Wallet request was rejected, no payment was made")

	case errors.Is(err, wallet.ErrInsufficientFunds):
		respondError(w, http.StatusPaymentRequired, "insufficient_funds", "Wallet has insufficient funds for this plan")

	case errors.Is(err, wallet.ErrSubmission):
		respondError(w, http.StatusBadGateway, "submission_failed", "Payment could not be submitted, no funds were transferred")

	case errors.Is(err, wallet.ErrConfirmationTimeout), errors.Is(err, wallet.ErrTransactionReverted):
		// Funds may have left the wallet with no record created.
		respondError(w, http.StatusBadGateway, "payment_unconfirmed",
			"Payment confirmation failed; if funds were deducted contact support with your transaction details")

	case errors.Is(err, ErrSubscriptionPersist):
		respondError(w, http.StatusInternalServerError, "subscription_persist_failed",
			"Payment confirmed but the subscription could not be saved; contact support with your transaction hash")

	case errors.Is(err, ErrTransactionPersist):
		// The subscription exists; only the audit row is missing.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SubscribeResponse{
			Success:      true,
			Message:      "Subscription created; payment audit record is pending reconciliation",
			Subscription: outcome.Subscription,
			Warnings:     append(outcome.Warnings, "transaction record not persisted"),
		})

	default:
		respondError(w, http.StatusInternalServerError, "subscription_failed", err.Error())
	}
}

func (h *Handler) ListMySubscriptions(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), principal.Email)
	if err != nil {
		if errors.Is(err, records.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "No application user for this account")
			return
		}
		respondError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}

	subs, err := h.service.ListUserSubscriptions(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	if subs == nil {
		subs = []Subscription{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SubscriptionListResponse{Success: true, Subscriptions: subs, Total: len(subs)})
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
