// Package subscription implements plan resolution, transition validation,
// and billing provider orchestration for a subscription-based SaaS.
//
// The billing provider is the single source of truth for subscription state.
// This package keeps no subscription state of its own: it maps a user to the
// provider's identifiers, fetches a fresh snapshot per request, resolves the
// snapshot to a logical plan tier, and validates requested tier changes
// against a static transition graph before handing them to the provider.
//
// # Tiers and the catalog
//
// Three canonical tiers exist: the free starter tier and two recurring paid
// tiers. The Catalog maps the provider's product IDs onto tiers totally and
// deterministically; anything unmapped resolves to starter:
//
//	catalog, _ := subscription.NewCatalog(
//		subscription.Plan{Tier: subscription.TierStarter, Name: "Starter", Interval: subscription.BillingIntervalNone},
//		subscription.Plan{Tier: subscription.TierPremiumMonthly, ProductID: "pri_monthly", Interval: subscription.BillingIntervalMonthly},
//		subscription.Plan{Tier: subscription.TierPremiumYearly, ProductID: "pri_yearly", Interval: subscription.BillingIntervalAnnual},
//	)
//	tier := catalog.ResolveTier(snapshot) // never errors
//
// # Transitions
//
// The Graph declares which tiers are reachable by upgrade and downgrade.
// Validation is advisory: the provider may still reject a change that
// validated locally, and its rejection is authoritative.
//
//	v := graph.ValidateChange(current, target)
//	// v.Valid, v.Reason ("same_plan", "illegal_downgrade"), v.IsUpgrade, v.IsDowngrade
//
// # Orchestration
//
// Service.ApplyPlanChange executes exactly one of three branches: cancel at
// period end (target is starter), hosted checkout (no effective paid plan),
// or in-place change (paid to paid). Checkout is asynchronous by design: the
// outcome is a redirect URL, and the subscription activates only once the
// provider's webhook confirms payment.
package subscription
