package subscription

import (
	"context"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// CatalogSource defines how the plan catalog is loaded into the service.
type CatalogSource interface {
	Load(ctx context.Context) (*Catalog, error)
}

type staticSource struct {
	plans []Plan
}

// NewStaticSource returns a CatalogSource backed by the given plans.
// Panics if no plans are provided to ensure the service always has at
// least the free tier configured.
func NewStaticSource(plans ...Plan) CatalogSource {
	if len(plans) < 1 {
		panic("subscription: at least one plan is required")
	}
	return &staticSource{plans: plans}
}

func (s *staticSource) Load(_ context.Context) (*Catalog, error) {
	return NewCatalog(s.plans...)
}

type yamlSource struct {
	r io.Reader
}

// NewYAMLSource returns a CatalogSource that reads a plan list from YAML.
//
// Expected document shape:
//
//	plans:
//	  - tier: starter
//	    name: Starter
//	    interval: none
//	  - tier: premium_monthly
//	    product_id: price_premium_monthly
//	    name: Premium Monthly
//	    price: {amount: 900, currency: USD}
//	    interval: monthly
func NewYAMLSource(r io.Reader) CatalogSource {
	if r == nil {
		panic("subscription: yaml source reader is required")
	}
	return &yamlSource{r: r}
}

func (s *yamlSource) Load(_ context.Context) (*Catalog, error) {
	raw, err := io.ReadAll(s.r)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	return NewCatalog(doc.Plans...)
}

// CatalogConfig maps provider price IDs and display prices from the
// environment, mirroring how the marketing site configures its plan table.
type CatalogConfig struct {
	PremiumMonthlyPriceID string `env:"PREMIUM_MONTHLY_PRICE_ID,required"`
	PremiumMonthlyAmount  int64  `env:"PREMIUM_MONTHLY_AMOUNT" envDefault:"900"`
	PremiumYearlyPriceID  string `env:"PREMIUM_YEARLY_PRICE_ID,required"`
	PremiumYearlyAmount   int64  `env:"PREMIUM_YEARLY_AMOUNT" envDefault:"9000"`
	Currency              string `env:"BILLING_CURRENCY" envDefault:"USD"`
}

// NewConfigSource returns a CatalogSource with the standard three-tier
// catalog built from environment-provided price IDs.
func NewConfigSource(cfg CatalogConfig) CatalogSource {
	return NewStaticSource(
		Plan{
			Tier:     TierStarter,
			Name:     "Starter",
			Interval: BillingIntervalNone,
		},
		Plan{
			Tier:      TierPremiumMonthly,
			ProductID: cfg.PremiumMonthlyPriceID,
			Name:      "Premium Monthly",
			Price:     Money{Amount: cfg.PremiumMonthlyAmount, Currency: cfg.Currency},
			Interval:  BillingIntervalMonthly,
		},
		Plan{
			Tier:      TierPremiumYearly,
			ProductID: cfg.PremiumYearlyPriceID,
			Name:      "Premium Yearly",
			Price:     Money{Amount: cfg.PremiumYearlyAmount, Currency: cfg.Currency},
			Interval:  BillingIntervalAnnual,
		},
	)
}
