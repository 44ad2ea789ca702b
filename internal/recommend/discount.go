// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

// PricingInput is what a discount rule decides on.
type PricingInput struct {
	// BundleValue is the sum of the undiscounted product prices.
	BundleValue float64
	AOV         AOV
}

// DiscountRule grants Percent when Applies matches.
type DiscountRule struct {
	Name    string
	Applies func(in PricingInput) bool
	Percent float64
}

// DefaultDiscountRules returns the production cascade. The two AOV rules
// override the stepped value table and must stay ahead of it.
func DefaultDiscountRules() []DiscountRule {
	return []DiscountRule{
		{
			Name: "above_customer_aov",
			Applies: func(in PricingInput) bool {
				return in.AOV.Customer > 0 && in.BundleValue > in.AOV.Customer*1.5
			},
			Percent: 20,
		},
		{
			Name: "above_shop_aov",
			Applies: func(in PricingInput) bool {
				return in.AOV.Shop > 0 && in.BundleValue > in.AOV.Shop
			},
			Percent: 12,
		},
		{Name: "value_under_50", Applies: valueBelow(50), Percent: 10},
		{Name: "value_under_100", Applies: valueBelow(100), Percent: 15},
		{Name: "value_under_200", Applies: valueBelow(200), Percent: 18},
		{Name: "value_200_plus", Applies: func(PricingInput) bool { return true }, Percent: 22},
	}
}

func valueBelow(limit float64) func(PricingInput) bool {
	return func(in PricingInput) bool { return in.BundleValue < limit }
}

// DiscountCalculator evaluates discount rules in order; the first match
// wins. It is safe for concurrent use.
type DiscountCalculator struct {
	rules []DiscountRule
}

// NewDiscountCalculator creates a calculator. Nil or empty rules use
// DefaultDiscountRules.
func NewDiscountCalculator(rules []DiscountRule) *DiscountCalculator {
	if len(rules) == 0 {
		rules = DefaultDiscountRules()
	}
	return &DiscountCalculator{rules: append([]DiscountRule(nil), rules...)}
}

// Discount returns the discount percent in [0, 100] for products with the
// given prices. It is zero when no rule matches.
func (d *DiscountCalculator) Discount(prices []float64, aov AOV) float64 {
	percent, _ := d.Evaluate(prices, aov)
	return percent
}

// Evaluate is Discount that also names the matching rule.
func (d *DiscountCalculator) Evaluate(prices []float64, aov AOV) (percent float64, rule string) {
	in := PricingInput{AOV: aov}
	for _, p := range prices {
		in.BundleValue += p
	}
	for _, r := range d.rules {
		if r.Applies != nil && r.Applies(in) {
			return clampPercent(r.Percent), r.Name
		}
	}
	return 0, ""
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
