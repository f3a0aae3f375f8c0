package subscription

import "time"

// DisplayStatus is a presentation-safe projection of a subscription snapshot.
// Every field degrades to a safe default when upstream data is missing or
// malformed, since it feeds UI that must render even when the billing
// provider is degraded.
type DisplayStatus struct {
	Tier               Tier    `json:"tier"`
	TierName           string  `json:"tier_name"`
	Status             string  `json:"status"`
	IsPremium          bool    `json:"is_premium"`
	CurrentPeriodStart *string `json:"current_period_start"` // RFC 3339, null when unknown
	CurrentPeriodEnd   *string `json:"current_period_end"`   // RFC 3339, null when unknown
	CancelAtPeriodEnd  bool    `json:"cancel_at_period_end"`
	Upgrades           []Tier  `json:"upgrades"`
	Downgrades         []Tier  `json:"downgrades"`
}

// ProjectStatus builds the display projection for a subscription snapshot.
// Never fails: a nil record projects as an inactive free-tier status.
func ProjectStatus(sub *Subscription, catalog *Catalog, graph *Graph) DisplayStatus {
	ds := DisplayStatus{
		Tier:   TierStarter,
		Status: "inactive",
	}

	if catalog != nil {
		ds.Tier = catalog.ResolveTier(sub)
	}
	ds.TierName = ds.Tier.DisplayName()
	ds.IsPremium = ds.Tier.Paid()

	if sub != nil {
		if sub.Status != "" {
			ds.Status = string(sub.Status)
		}
		ds.CurrentPeriodStart = isoTime(sub.CurrentPeriodStart)
		ds.CurrentPeriodEnd = isoTime(sub.CurrentPeriodEnd)
		ds.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
	}

	if graph != nil {
		ds.Upgrades, ds.Downgrades = graph.Reachable(ds.Tier)
	}

	return ds
}

func isoTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
