package subscription_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/launchpad/pkg/subscription"
)

func TestStaticSource(t *testing.T) {
	t.Parallel()

	t.Run("loads given plans", func(t *testing.T) {
		t.Parallel()

		src := subscription.NewStaticSource(testPlans()...)
		catalog, err := src.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, catalog.Plans(), 3)
	})

	t.Run("panics without plans", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { subscription.NewStaticSource() })
	})
}

func TestYAMLSource(t *testing.T) {
	t.Parallel()

	t.Run("parses plan document", func(t *testing.T) {
		t.Parallel()

		doc := `
plans:
  - tier: starter
    name: Starter
    interval: none
  - tier: premium_monthly
    product_id: pri_monthly
    name: Premium Monthly
    price: {amount: 900, currency: USD}
    interval: monthly
    features:
      - Unlimited projects
  - tier: premium_yearly
    product_id: pri_yearly
    name: Premium Yearly
    price: {amount: 9000, currency: USD}
    interval: annual
`
		catalog, err := subscription.NewYAMLSource(strings.NewReader(doc)).Load(context.Background())
		require.NoError(t, err)

		plan, ok := catalog.Plan(subscription.TierPremiumMonthly)
		require.True(t, ok)
		assert.Equal(t, "pri_monthly", plan.ProductID)
		assert.Equal(t, int64(900), plan.Price.Amount)
		assert.Equal(t, subscription.BillingIntervalMonthly, plan.Interval)
		assert.Equal(t, []string{"Unlimited projects"}, plan.Features)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewYAMLSource(strings.NewReader("plans: [")).Load(context.Background())
		require.ErrorIs(t, err, subscription.ErrInvalidCatalog)
	})

	t.Run("valid yaml with invalid catalog", func(t *testing.T) {
		t.Parallel()

		doc := `
plans:
  - tier: premium_monthly
    product_id: pri_monthly
`
		_, err := subscription.NewYAMLSource(strings.NewReader(doc)).Load(context.Background())
		require.ErrorIs(t, err, subscription.ErrInvalidCatalog)
	})
}

func TestConfigSource(t *testing.T) {
	t.Parallel()

	src := subscription.NewConfigSource(subscription.CatalogConfig{
		PremiumMonthlyPriceID: "pri_env_monthly",
		PremiumMonthlyAmount:  1200,
		PremiumYearlyPriceID:  "pri_env_yearly",
		PremiumYearlyAmount:   12000,
		Currency:              "EUR",
	})

	catalog, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, subscription.TierPremiumMonthly, catalog.TierByProduct("pri_env_monthly"))
	assert.Equal(t, subscription.TierPremiumYearly, catalog.TierByProduct("pri_env_yearly"))

	plan, ok := catalog.Plan(subscription.TierPremiumMonthly)
	require.True(t, ok)
	assert.Equal(t, subscription.Money{Amount: 1200, Currency: "EUR"}, plan.Price)

	free, ok := catalog.Plan(subscription.TierStarter)
	require.True(t, ok)
	assert.Empty(t, free.ProductID)
}
