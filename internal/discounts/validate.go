package discounts

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const minJustificationLen = 10

// Validation carries every violated rule, not just the first, so the caller
// can correct the whole submission in one pass. Warnings never block.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateRequest checks a submission against the hard ceilings and soft
// policy heuristics of the rule set.
func (rs *RuleSet) ValidateRequest(original, campaign, requested decimal.Decimal, justification string) Validation {
	var errs, warnings []string

	if original.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "original price must be positive")
	}
	if campaign.IsNegative() {
		errs = append(errs, "campaign discount cannot be negative")
	}
	if requested.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "requested discount must be positive")
	}

	remaining := original.Sub(campaign)
	if original.IsPositive() && requested.GreaterThan(remaining) {
		errs = append(errs, fmt.Sprintf("requested discount %s exceeds remaining price %s", requested.StringFixed(2), remaining.StringFixed(2)))
	}

	if original.IsPositive() && requested.IsPositive() {
		pct := discountPct(requested, original)
		if pct.GreaterThan(rs.hardCapPct) {
			errs = append(errs, fmt.Sprintf("requested discount is %s%% of original price, policy cap is %s%%", pct.StringFixed(1), rs.hardCapPct.StringFixed(1)))
		} else if pct.GreaterThanOrEqual(rs.warnPct) {
			warnings = append(warnings, fmt.Sprintf("requested discount is %s%% of original price, unusually high", pct.StringFixed(1)))
		}
	}

	if len(justification) < minJustificationLen {
		errs = append(errs, fmt.Sprintf("justification must be at least %d characters", minJustificationLen))
	}

	return Validation{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
