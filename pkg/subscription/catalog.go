package subscription

import (
	"errors"
	"fmt"
	"slices"
)

// Plan describes a commercial offering and its mapping to the billing
// provider's price ID. ProductID must be empty for the free tier and set
// for paid tiers so checkout and webhook processing can map both ways.
type Plan struct {
	Tier        Tier            `yaml:"tier"`
	ProductID   string          `yaml:"product_id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       Money           `yaml:"price"`
	Interval    BillingInterval `yaml:"interval"`
	Features    []string        `yaml:"features"`
}

// Catalog holds the deterministic, total mapping between provider product IDs
// and tiers. Unknown product IDs always resolve to the free tier.
type Catalog struct {
	plans     []Plan
	byProduct map[string]Tier
	byTier    map[Tier]Plan
}

// NewCatalog builds a catalog from the given plans.
// Exactly one plan per tier, paid plans must carry a product ID, and product
// IDs must be unique. The free tier must be present so the catalog is total.
func NewCatalog(plans ...Plan) (*Catalog, error) {
	c := &Catalog{
		plans:     make([]Plan, 0, len(plans)),
		byProduct: make(map[string]Tier, len(plans)),
		byTier:    make(map[Tier]Plan, len(plans)),
	}

	for _, plan := range plans {
		if !plan.Tier.Valid() {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("unknown tier %q", plan.Tier))
		}
		if _, exists := c.byTier[plan.Tier]; exists {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("duplicate plan for tier %q", plan.Tier))
		}
		if plan.Tier.Paid() && plan.ProductID == "" {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("paid tier %q has no product ID", plan.Tier))
		}
		if !plan.Tier.Paid() && plan.ProductID != "" {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("free tier %q must not have a product ID", plan.Tier))
		}
		if plan.ProductID != "" {
			if _, exists := c.byProduct[plan.ProductID]; exists {
				return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("duplicate product ID %q", plan.ProductID))
			}
			c.byProduct[plan.ProductID] = plan.Tier
		}

		plan.Features = slices.Clone(plan.Features)
		c.plans = append(c.plans, plan)
		c.byTier[plan.Tier] = plan
	}

	if _, exists := c.byTier[TierStarter]; !exists {
		return nil, errors.Join(ErrInvalidCatalog, errors.New("free tier plan is required"))
	}

	return c, nil
}

// TierByProduct maps a provider product ID to a tier.
// Unknown or empty product IDs resolve to the free tier, never an error.
func (c *Catalog) TierByProduct(productID string) Tier {
	if tier, ok := c.byProduct[productID]; ok {
		return tier
	}
	return TierStarter
}

// Plan returns the plan configured for a tier.
func (c *Catalog) Plan(tier Tier) (Plan, bool) {
	plan, ok := c.byTier[tier]
	return plan, ok
}

// Plans returns all plans in configuration order.
func (c *Catalog) Plans() []Plan {
	return slices.Clone(c.plans)
}

// ResolveTier determines the logical tier for a subscription snapshot.
// A missing record, a non-effective status, or an unmapped product ID all
// resolve to the free tier. Pure function of its input.
func (c *Catalog) ResolveTier(sub *Subscription) Tier {
	if sub == nil || !sub.Status.Effective() {
		return TierStarter
	}
	return c.TierByProduct(sub.ProductID)
}
