package enums

// RecommendedAction is the action code the priority report attaches to a
// scored unit.
type RecommendedAction string

const (
	RecommendedActionMonitor          RecommendedAction = "monitor"
	RecommendedActionPromoteOnline    RecommendedAction = "promote_online"
	RecommendedActionPushWithCampaign RecommendedAction = "push_with_campaign"
	RecommendedActionDiscountToClose  RecommendedAction = "discount_to_close"
	RecommendedActionEscalatePricing  RecommendedAction = "escalate_pricing"
)

// IsValid checks whether the given action matches the canonical enum.
func (a RecommendedAction) IsValid() bool {
	switch a {
	case RecommendedActionMonitor,
		RecommendedActionPromoteOnline,
		RecommendedActionPushWithCampaign,
		RecommendedActionDiscountToClose,
		RecommendedActionEscalatePricing:
		return true
	}
	return false
}
