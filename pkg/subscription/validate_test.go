package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/launchpad/pkg/subscription"
)

func TestValidateChange(t *testing.T) {
	t.Parallel()

	g := subscription.DefaultGraph()

	t.Run("same tier is rejected for every tier", func(t *testing.T) {
		t.Parallel()

		for _, tier := range []subscription.Tier{
			subscription.TierStarter,
			subscription.TierPremiumMonthly,
			subscription.TierPremiumYearly,
		} {
			v := g.ValidateChange(tier, tier)
			assert.False(t, v.Valid, "tier %s", tier)
			assert.Equal(t, subscription.ChangeReasonSamePlan, v.Reason, "tier %s", tier)
			assert.False(t, v.IsUpgrade)
			assert.False(t, v.IsDowngrade)
		}
	})

	tests := []struct {
		name        string
		from, to    subscription.Tier
		valid       bool
		reason      subscription.ChangeReason
		isUpgrade   bool
		isDowngrade bool
	}{
		{
			name: "starter to monthly is an upgrade",
			from: subscription.TierStarter, to: subscription.TierPremiumMonthly,
			valid: true, isUpgrade: true,
		},
		{
			name: "starter to yearly is an upgrade",
			from: subscription.TierStarter, to: subscription.TierPremiumYearly,
			valid: true, isUpgrade: true,
		},
		{
			name: "monthly to yearly is an upgrade",
			from: subscription.TierPremiumMonthly, to: subscription.TierPremiumYearly,
			valid: true, isUpgrade: true,
		},
		{
			name: "monthly to starter is a downgrade",
			from: subscription.TierPremiumMonthly, to: subscription.TierStarter,
			valid: true, isDowngrade: true,
		},
		{
			name: "yearly to monthly is a downgrade",
			from: subscription.TierPremiumYearly, to: subscription.TierPremiumMonthly,
			valid: true, isDowngrade: true,
		},
		{
			name: "yearly to starter is a downgrade",
			from: subscription.TierPremiumYearly, to: subscription.TierStarter,
			valid: true, isDowngrade: true,
		},
		{
			name: "yearly to yearly upgrade edge does not exist",
			from: subscription.TierPremiumYearly, to: subscription.TierPremiumYearly,
			valid: false, reason: subscription.ChangeReasonSamePlan,
		},
		{
			name: "unknown current tier has no edges",
			from: "lifetime", to: subscription.TierPremiumMonthly,
			valid: false, reason: subscription.ChangeReasonIllegalDowngrade,
		},
		{
			name: "unknown target tier has no edges",
			from: subscription.TierPremiumMonthly, to: "lifetime",
			valid: false, reason: subscription.ChangeReasonIllegalDowngrade,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := g.ValidateChange(tt.from, tt.to)
			assert.Equal(t, tt.valid, v.Valid)
			assert.Equal(t, tt.reason, v.Reason)
			assert.Equal(t, tt.isUpgrade, v.IsUpgrade)
			assert.Equal(t, tt.isDowngrade, v.IsDowngrade)
			assert.False(t, v.IsUpgrade && v.IsDowngrade, "a change cannot be both")
		})
	}
}

func TestValidateChangeSidewaysEdgeRequiresConfiguration(t *testing.T) {
	t.Parallel()

	// A graph without the yearly-to-monthly edge rejects that pair even
	// though the default graph allows it.
	g := subscription.MustNewGraph(
		subscription.Node{
			Tier:     subscription.TierStarter,
			Upgrades: []subscription.Tier{subscription.TierPremiumMonthly, subscription.TierPremiumYearly},
		},
		subscription.Node{
			Tier:       subscription.TierPremiumMonthly,
			Upgrades:   []subscription.Tier{subscription.TierPremiumYearly},
			Downgrades: []subscription.Tier{subscription.TierStarter},
		},
		subscription.Node{
			Tier:       subscription.TierPremiumYearly,
			Downgrades: []subscription.Tier{subscription.TierStarter},
		},
	)

	v := g.ValidateChange(subscription.TierPremiumYearly, subscription.TierPremiumMonthly)
	assert.False(t, v.Valid)
	assert.Equal(t, subscription.ChangeReasonIllegalDowngrade, v.Reason)
}
