package subscription

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

// TestListPlans_QuotesEveryPlan tests that the catalog carries a live USD
// quote for each plan
func TestListPlans_QuotesEveryPlan(t *testing.T) {
	rates := &stubRates{rate: decimal.RequireFromString("3000")}
	service := NewService(&mockRepo{}, rates)

	quotes := service.ListPlans(context.Background())

	if len(quotes) != 3 {
		t.Fatalf("Expected 3 plans, got %d", len(quotes))
	}
	if rates.calls != 1 {
		t.Errorf("Expected a single rate fetch per call, got %d", rates.calls)
	}

	expected := map[string]string{
		"Basic Plan":    "300",
		"Standard Plan": "750",
		"Premium Plan":  "1500",
	}
	for _, q := range quotes {
		want, ok := expected[q.Name]
		if !ok {
			t.Errorf("Unexpected plan %q in catalog", q.Name)
			continue
		}
		if got := q.USDEquivalent.String(); got != want {
			t.Errorf("Plan %s: expected quote %s USD, got %s", q.Name, want, got)
		}
		if q.Currency != "ETH" {
			t.Errorf("Plan %s: expected currency ETH, got %s", q.Name, q.Currency)
		}
	}
}

// TestListPlans_UnknownRate tests that a sentinel zero rate yields zero
// quotes instead of an error
func TestListPlans_UnknownRate(t *testing.T) {
	rates := &stubRates{rate: decimal.Zero}
	service := NewService(&mockRepo{}, rates)

	quotes := service.ListPlans(context.Background())

	if len(quotes) != 3 {
		t.Fatalf("Expected 3 plans, got %d", len(quotes))
	}
	for _, q := range quotes {
		if !q.USDEquivalent.IsZero() {
			t.Errorf("Plan %s: expected zero quote with unknown rate, got %s", q.Name, q.USDEquivalent)
		}
		if q.PriceNative.IsZero() {
			t.Errorf("Plan %s: native price must survive an unknown rate", q.Name)
		}
	}
}

// TestPlanByName tests catalog lookup
func TestPlanByName(t *testing.T) {
	plan, ok := PlanByName("Premium Plan")
	if !ok {
		t.Fatal("Expected Premium Plan in catalog")
	}
	if plan.PriceNative.String() != "0.5" {
		t.Errorf("Expected Premium Plan at 0.5 ETH, got %s", plan.PriceNative)
	}

	if _, ok := PlanByName("Platinum Plan"); ok {
		t.Error("Expected lookup miss for unknown plan")
	}
}
