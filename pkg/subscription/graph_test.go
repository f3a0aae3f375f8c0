package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/launchpad/pkg/subscription"
)

func TestNewGraph(t *testing.T) {
	t.Parallel()

	t.Run("rejects self transition", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewGraph(
			subscription.Node{
				Tier:     subscription.TierStarter,
				Upgrades: []subscription.Tier{subscription.TierStarter},
			},
		)
		require.ErrorIs(t, err, subscription.ErrInvalidGraph)
	})

	t.Run("rejects target in both sets", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewGraph(
			subscription.Node{Tier: subscription.TierStarter},
			subscription.Node{
				Tier:       subscription.TierPremiumMonthly,
				Upgrades:   []subscription.Tier{subscription.TierPremiumYearly},
				Downgrades: []subscription.Tier{subscription.TierPremiumYearly, subscription.TierStarter},
			},
			subscription.Node{
				Tier:       subscription.TierPremiumYearly,
				Downgrades: []subscription.Tier{subscription.TierStarter},
			},
		)
		require.ErrorIs(t, err, subscription.ErrInvalidGraph)
	})

	t.Run("rejects reference to unconfigured tier", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewGraph(
			subscription.Node{
				Tier:     subscription.TierStarter,
				Upgrades: []subscription.Tier{subscription.TierPremiumMonthly},
			},
		)
		require.ErrorIs(t, err, subscription.ErrInvalidGraph)
	})

	t.Run("rejects paid tier without downgrade path to free", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewGraph(
			subscription.Node{
				Tier:     subscription.TierStarter,
				Upgrades: []subscription.Tier{subscription.TierPremiumMonthly},
			},
			subscription.Node{Tier: subscription.TierPremiumMonthly},
		)
		require.ErrorIs(t, err, subscription.ErrInvalidGraph)
	})

	t.Run("accepts transitive path to free", func(t *testing.T) {
		t.Parallel()

		// yearly reaches starter only through monthly
		g, err := subscription.NewGraph(
			subscription.Node{
				Tier:     subscription.TierStarter,
				Upgrades: []subscription.Tier{subscription.TierPremiumMonthly},
			},
			subscription.Node{
				Tier:       subscription.TierPremiumMonthly,
				Upgrades:   []subscription.Tier{subscription.TierPremiumYearly},
				Downgrades: []subscription.Tier{subscription.TierStarter},
			},
			subscription.Node{
				Tier:       subscription.TierPremiumYearly,
				Downgrades: []subscription.Tier{subscription.TierPremiumMonthly},
			},
		)
		require.NoError(t, err)
		assert.NotNil(t, g)
	})

	t.Run("rejects duplicate node", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewGraph(
			subscription.Node{Tier: subscription.TierStarter},
			subscription.Node{Tier: subscription.TierStarter},
		)
		require.ErrorIs(t, err, subscription.ErrInvalidGraph)
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewGraph(subscription.Node{Tier: "lifetime"})
		require.ErrorIs(t, err, subscription.ErrInvalidGraph)
	})
}

func TestMustNewGraphPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		subscription.MustNewGraph(subscription.Node{Tier: "lifetime"})
	})
}

func TestDefaultGraph(t *testing.T) {
	t.Parallel()

	g := subscription.DefaultGraph()

	up, down := g.Reachable(subscription.TierStarter)
	assert.Equal(t, []subscription.Tier{subscription.TierPremiumMonthly, subscription.TierPremiumYearly}, up)
	assert.Empty(t, down)

	up, down = g.Reachable(subscription.TierPremiumMonthly)
	assert.Equal(t, []subscription.Tier{subscription.TierPremiumYearly}, up)
	assert.Equal(t, []subscription.Tier{subscription.TierStarter}, down)

	up, down = g.Reachable(subscription.TierPremiumYearly)
	assert.Empty(t, up)
	assert.Equal(t, []subscription.Tier{subscription.TierPremiumMonthly, subscription.TierStarter}, down)
}

func TestGraphReachableUnknownTier(t *testing.T) {
	t.Parallel()

	up, down := subscription.DefaultGraph().Reachable("lifetime")
	assert.Empty(t, up)
	assert.Empty(t, down)
}
