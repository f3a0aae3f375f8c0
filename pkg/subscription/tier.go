package subscription

// Tier is the logical subscription level a user occupies.
// The enumeration is canonical: one free tier plus two recurring paid tiers.
type Tier string

const (
	TierStarter        Tier = "starter"
	TierPremiumMonthly Tier = "premium_monthly"
	TierPremiumYearly  Tier = "premium_yearly"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierStarter, TierPremiumMonthly, TierPremiumYearly:
		return true
	}
	return false
}

// Paid reports whether t is a paid tier.
func (t Tier) Paid() bool {
	return t.Valid() && t != TierStarter
}

// DisplayName returns a human-friendly name for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierStarter:
		return "Starter"
	case TierPremiumMonthly:
		return "Premium Monthly"
	case TierPremiumYearly:
		return "Premium Yearly"
	}
	return string(t)
}
