package discounts

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
)

// TierRule maps a discount percentage band to the number of approvals it
// requires. A requested discount at or below MaxPct of the original price
// needs Level approvals.
type TierRule struct {
	MaxPct decimal.Decimal
	Level  int
}

// RuleSet is the table-driven approval policy: a default tier table with
// optional per-brand overrides layered on top. Adding a brand threshold is a
// data change against this table, not a code change.
type RuleSet struct {
	defaultTiers []TierRule
	brandTiers   map[string][]TierRule
	hardCapPct   decimal.Decimal
	warnPct      decimal.Decimal
}

// NewRuleSet builds the approval table from configuration, including any
// per-brand single-approval ceilings.
func NewRuleSet(cfg config.DiscountPolicyConfig) *RuleSet {
	rs := &RuleSet{
		defaultTiers: []TierRule{
			{MaxPct: decimal.NewFromFloat(cfg.SingleApprovalMaxPct), Level: 1},
			{MaxPct: decimal.NewFromFloat(cfg.HardCapPct), Level: 2},
		},
		brandTiers: map[string][]TierRule{},
		hardCapPct: decimal.NewFromFloat(cfg.HardCapPct),
		warnPct:    decimal.NewFromFloat(cfg.WarnPct),
	}
	for brand, maxPct := range cfg.BrandSingleApprovalMaxPct {
		rs.WithBrandOverride(brand, []TierRule{
			{MaxPct: decimal.NewFromFloat(maxPct), Level: 1},
			{MaxPct: decimal.NewFromFloat(cfg.HardCapPct), Level: 2},
		})
	}
	return rs
}

// WithBrandOverride layers a brand-specific tier table over the default one.
// Rules are kept sorted by ascending MaxPct so lookup picks the tightest band.
func (rs *RuleSet) WithBrandOverride(brandCode string, tiers []TierRule) *RuleSet {
	if brandCode == "" || len(tiers) == 0 {
		return rs
	}
	cloned := make([]TierRule, len(tiers))
	copy(cloned, tiers)
	sort.Slice(cloned, func(i, j int) bool { return cloned[i].MaxPct.LessThan(cloned[j].MaxPct) })
	rs.brandTiers[brandCode] = cloned
	return rs
}

// RequiredApprovalLevel resolves how many approvals a requested discount
// needs. Brand overrides win over the default table; a discount above every
// band falls through to the highest level in the table.
func (rs *RuleSet) RequiredApprovalLevel(requested, original decimal.Decimal, brandCode string) int {
	tiers := rs.defaultTiers
	if override, ok := rs.brandTiers[brandCode]; ok {
		tiers = override
	}

	pct := discountPct(requested, original)
	highest := 1
	for _, tier := range tiers {
		if pct.LessThanOrEqual(tier.MaxPct) {
			return tier.Level
		}
		if tier.Level > highest {
			highest = tier.Level
		}
	}
	return highest
}

// discountPct is the requested discount as a percentage of the original
// price. A non-positive original yields zero; validation rejects that input
// before the tier lookup matters.
func discountPct(requested, original decimal.Decimal) decimal.Decimal {
	if original.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return requested.Div(original).Mul(decimal.NewFromInt(100))
}
