package subscription

import (
	"context"
	"fmt"

	"github.com/CuraLedger-Health/subscription-service/internal/pricing"
)

type Service struct {
	repo  RepositoryInterface
	rates RateFetcher
}

func NewService(repo RepositoryInterface, rates RateFetcher) *Service {
	return &Service{repo: repo, rates: rates}
}

// ListPlans returns the plan catalog with live USD quotes. The rate is
// fetched once per call; a zero quote means the rate is currently unknown.
func (s *Service) ListPlans(ctx context.Context) []PlanQuote {
	rate := s.rates.FetchRate(ctx, pricing.CurrencyEthereum, pricing.CurrencyUSD)

	plans := Plans()
	quotes := make([]PlanQuote, 0, len(plans))
	for _, p := range plans {
		quotes = append(quotes, PlanQuote{
			Plan:          p,
			USDEquivalent: p.PriceNative.Mul(rate),
		})
	}
	return quotes
}

func (s *Service) ListUserSubscriptions(ctx context.Context, userID int64) ([]Subscription, error) {
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Service) ListSubscriptionTransactions(ctx context.Context, subscriptionID int64) ([]Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription transactions: %w", err)
	}
	return txs, nil
}
