package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/launchpad/pkg/subscription"
)

func TestProjectStatus(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	graph := subscription.DefaultGraph()

	t.Run("nil record projects inactive free tier", func(t *testing.T) {
		t.Parallel()

		ds := subscription.ProjectStatus(nil, catalog, graph)
		assert.Equal(t, subscription.TierStarter, ds.Tier)
		assert.Equal(t, "Starter", ds.TierName)
		assert.Equal(t, "inactive", ds.Status)
		assert.False(t, ds.IsPremium)
		assert.Nil(t, ds.CurrentPeriodStart)
		assert.Nil(t, ds.CurrentPeriodEnd)
		assert.False(t, ds.CancelAtPeriodEnd)
		assert.Equal(t, []subscription.Tier{subscription.TierPremiumMonthly, subscription.TierPremiumYearly}, ds.Upgrades)
		assert.Empty(t, ds.Downgrades)
	})

	t.Run("active subscription projects fully", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		ds := subscription.ProjectStatus(&subscription.Subscription{
			ProductID:          "pri_monthly",
			Status:             subscription.StatusActive,
			CurrentPeriodStart: start,
			CurrentPeriodEnd:   end,
		}, catalog, graph)

		assert.Equal(t, subscription.TierPremiumMonthly, ds.Tier)
		assert.Equal(t, "Premium Monthly", ds.TierName)
		assert.Equal(t, "active", ds.Status)
		assert.True(t, ds.IsPremium)
		require.NotNil(t, ds.CurrentPeriodStart)
		assert.Equal(t, "2026-08-01T00:00:00Z", *ds.CurrentPeriodStart)
		require.NotNil(t, ds.CurrentPeriodEnd)
		assert.Equal(t, "2026-09-01T00:00:00Z", *ds.CurrentPeriodEnd)
		assert.Equal(t, []subscription.Tier{subscription.TierPremiumYearly}, ds.Upgrades)
		assert.Equal(t, []subscription.Tier{subscription.TierStarter}, ds.Downgrades)
	})

	t.Run("missing period end projects null not zero time", func(t *testing.T) {
		t.Parallel()

		ds := subscription.ProjectStatus(&subscription.Subscription{
			ProductID: "pri_yearly",
			Status:    subscription.StatusActive,
		}, catalog, graph)

		assert.Equal(t, subscription.TierPremiumYearly, ds.Tier)
		assert.Nil(t, ds.CurrentPeriodStart)
		assert.Nil(t, ds.CurrentPeriodEnd)
	})

	t.Run("cancel at period end survives projection", func(t *testing.T) {
		t.Parallel()

		ds := subscription.ProjectStatus(&subscription.Subscription{
			ProductID:         "pri_monthly",
			Status:            subscription.StatusActive,
			CancelAtPeriodEnd: true,
		}, catalog, graph)

		assert.True(t, ds.CancelAtPeriodEnd)
		assert.True(t, ds.IsPremium)
	})

	t.Run("canceled subscription keeps provider status but free tier", func(t *testing.T) {
		t.Parallel()

		ds := subscription.ProjectStatus(&subscription.Subscription{
			ProductID: "pri_monthly",
			Status:    subscription.StatusCanceled,
		}, catalog, graph)

		assert.Equal(t, subscription.TierStarter, ds.Tier)
		assert.Equal(t, "canceled", ds.Status)
		assert.False(t, ds.IsPremium)
	})

	t.Run("nil catalog and graph still project", func(t *testing.T) {
		t.Parallel()

		ds := subscription.ProjectStatus(&subscription.Subscription{
			ProductID: "pri_monthly",
			Status:    subscription.StatusActive,
		}, nil, nil)

		assert.Equal(t, subscription.TierStarter, ds.Tier)
		assert.Equal(t, "active", ds.Status)
		assert.Empty(t, ds.Upgrades)
		assert.Empty(t, ds.Downgrades)
	})
}
