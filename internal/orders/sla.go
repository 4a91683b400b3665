package orders

import (
	"time"

	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// DefaultStageSLA is the named policy applied to stages with no explicit
// limit. Keeping it a visible constant makes the fallback a deliberate
// decision rather than a silent default.
const DefaultStageSLA = 3

// SLAPolicy maps pipeline stages to response-time limits in days.
type SLAPolicy struct {
	limits      map[enums.OrderStage]int
	defaultDays int
}

// SLAResult reports how an order stands against its stage limit. Policy
// names the limit source, "stage" for a configured limit or "default" when
// the fallback applied.
type SLAResult struct {
	Stage       enums.OrderStage `json:"stage"`
	LimitDays   int              `json:"limit_days"`
	DaysInStage int              `json:"days_in_stage"`
	Status      enums.SLAStatus  `json:"status"`
	Policy      string           `json:"policy"`
}

// NewSLAPolicy builds the stage limit table from configuration.
func NewSLAPolicy(cfg config.SLAPolicyConfig) SLAPolicy {
	defaultDays := cfg.DefaultDays
	if defaultDays <= 0 {
		defaultDays = DefaultStageSLA
	}
	return SLAPolicy{
		limits: map[enums.OrderStage]int{
			enums.OrderStageInquiry:     cfg.InquiryDays,
			enums.OrderStageTestDrive:   cfg.TestDriveDays,
			enums.OrderStageNegotiation: cfg.NegotiationDays,
			enums.OrderStageContract:    cfg.ContractDays,
			enums.OrderStageDelivery:    cfg.DeliveryDays,
		},
		defaultDays: defaultDays,
	}
}

// LimitFor resolves the day limit for a stage. Unmapped stages get the
// default policy.
func (p SLAPolicy) LimitFor(stage enums.OrderStage) int {
	limit, _ := p.resolve(stage)
	return limit
}

func (p SLAPolicy) resolve(stage enums.OrderStage) (int, string) {
	if limit, ok := p.limits[stage]; ok && limit > 0 {
		return limit, "stage"
	}
	return p.defaultDays, "default"
}

// Evaluate computes the SLA standing for an order's current stage. An order
// at 80% or more of its limit is at risk; past the limit it is overdue.
func (p SLAPolicy) Evaluate(stage enums.OrderStage, stageEnteredAt, now time.Time) SLAResult {
	limit, policy := p.resolve(stage)

	days := 0
	if now.After(stageEnteredAt) {
		days = int(now.Sub(stageEnteredAt).Hours() / 24)
	}

	result := SLAResult{
		Stage:       stage,
		LimitDays:   limit,
		DaysInStage: days,
		Policy:      policy,
	}
	switch {
	case days > limit:
		result.Status = enums.SLAStatusOverdue
	case float64(days) >= 0.8*float64(limit):
		result.Status = enums.SLAStatusAtRisk
	default:
		result.Status = enums.SLAStatusOnTrack
	}
	return result
}
