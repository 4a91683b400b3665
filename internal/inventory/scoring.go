package inventory

import (
	"fmt"
	"time"

	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// ScoringPolicy holds the stock-age bands and weights the priority report
// runs on. All scoring functions are pure; policy changes are data changes.
type ScoringPolicy struct {
	FreshDays int
	AgingDays int
	StaleDays int

	AgingWeight        float64
	CloseabilityWeight float64

	UrgencyNowMin      float64
	UrgencyThisWeekMin float64
}

// PolicyFromConfig lifts the raw configuration into a scoring policy.
func PolicyFromConfig(cfg config.InventoryPolicyConfig) ScoringPolicy {
	return ScoringPolicy{
		FreshDays:          cfg.FreshDays,
		AgingDays:          cfg.AgingDays,
		StaleDays:          cfg.StaleDays,
		AgingWeight:        cfg.AgingWeight,
		CloseabilityWeight: cfg.CloseabilityWeight,
		UrgencyNowMin:      cfg.UrgencyNowMin,
		UrgencyThisWeekMin: cfg.UrgencyThisWeekMin,
	}
}

// AgingResult is the explainable outcome of the stock-age calculation.
// Factors name the thresholds crossed; they are part of the contract, not
// debug output.
type AgingResult struct {
	DaysInStock int             `json:"days_in_stock"`
	Score       float64         `json:"score"`
	Risk        enums.RiskLevel `json:"risk"`
	Factors     []string        `json:"factors"`
}

// CloseabilityResult scores how sellable a unit is given its demand signals.
type CloseabilityResult struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors"`
}

// CloseabilitySignals is the demand snapshot for one unit.
type CloseabilitySignals struct {
	DaysInStock        int
	RecentInquiries    int
	RecentTestDrives   int
	ColorPopularity    int
	HasActiveCampaign  bool
	IsSeasonalFavorite bool
}

// AgingScore maps days in stock onto a 0-100 score across the four aging
// bands. The mapping is monotonically non-decreasing in daysInStock and each
// band covers a quarter of the scale.
func (p ScoringPolicy) AgingScore(stockDate, now time.Time) AgingResult {
	days := daysBetween(stockDate, now)

	result := AgingResult{DaysInStock: days}
	result.Factors = append(result.Factors, fmt.Sprintf("in stock %d days", days))

	switch {
	case days <= p.FreshDays:
		result.Risk = enums.RiskLevelLow
		result.Score = band(days, 0, p.FreshDays, 0, 25)
	case days <= p.AgingDays:
		result.Risk = enums.RiskLevelMedium
		result.Score = band(days, p.FreshDays, p.AgingDays, 25, 50)
		result.Factors = append(result.Factors, fmt.Sprintf("crossed fresh threshold (%d days)", p.FreshDays))
	case days <= p.StaleDays:
		result.Risk = enums.RiskLevelHigh
		result.Score = band(days, p.AgingDays, p.StaleDays, 50, 75)
		result.Factors = append(result.Factors,
			fmt.Sprintf("crossed fresh threshold (%d days)", p.FreshDays),
			fmt.Sprintf("crossed aging threshold (%d days)", p.AgingDays))
	default:
		result.Risk = enums.RiskLevelCritical
		over := band(days, p.StaleDays, 2*p.StaleDays, 75, 100)
		result.Score = clamp(over, 75, 100)
		result.Factors = append(result.Factors,
			fmt.Sprintf("crossed fresh threshold (%d days)", p.FreshDays),
			fmt.Sprintf("crossed aging threshold (%d days)", p.AgingDays),
			fmt.Sprintf("crossed stale threshold (%d days)", p.StaleDays))
	}
	return result
}

// CloseabilityScore combines demand signals into a bounded 0-100 score. Each
// signal moves the score in one fixed direction: popularity, inquiries, test
// drives, campaigns and seasonality raise it; stock age lowers it.
func (p ScoringPolicy) CloseabilityScore(signals CloseabilitySignals) CloseabilityResult {
	var result CloseabilityResult

	score := float64(clampInt(signals.ColorPopularity, 0, 100)) * 0.4
	result.Factors = append(result.Factors, fmt.Sprintf("color popularity %d", signals.ColorPopularity))

	if signals.RecentInquiries > 0 {
		bonus := clamp(float64(signals.RecentInquiries)*3, 0, 15)
		score += bonus
		result.Factors = append(result.Factors, fmt.Sprintf("%d recent inquiries (+%.0f)", signals.RecentInquiries, bonus))
	}
	if signals.RecentTestDrives > 0 {
		bonus := clamp(float64(signals.RecentTestDrives)*6, 0, 18)
		score += bonus
		result.Factors = append(result.Factors, fmt.Sprintf("%d recent test drives (+%.0f)", signals.RecentTestDrives, bonus))
	}
	if signals.HasActiveCampaign {
		score += 10
		result.Factors = append(result.Factors, "active campaign (+10)")
	}
	if signals.IsSeasonalFavorite {
		score += 7
		result.Factors = append(result.Factors, "seasonal favorite (+7)")
	}
	if signals.DaysInStock > 0 {
		penalty := clamp(float64(signals.DaysInStock)*0.1, 0, 10)
		score -= penalty
		result.Factors = append(result.Factors, fmt.Sprintf("stock age penalty (-%.1f)", penalty))
	}

	result.Score = clamp(score, 0, 100)
	return result
}

// PriorityScore is the fixed weighted combination of aging and closeability.
func (p ScoringPolicy) PriorityScore(agingScore, closeabilityScore float64) float64 {
	return clamp(p.AgingWeight*agingScore+p.CloseabilityWeight*closeabilityScore, 0, 100)
}

// UrgencyFor buckets a priority score; the highest scores demand action now.
func (p ScoringPolicy) UrgencyFor(priorityScore float64) enums.UrgencyLevel {
	switch {
	case priorityScore >= p.UrgencyNowMin:
		return enums.UrgencyLevelNow
	case priorityScore >= p.UrgencyThisWeekMin:
		return enums.UrgencyLevelThisWeek
	default:
		return enums.UrgencyLevelThisMonth
	}
}

// RecommendedActionFor turns the two scores and the campaign flag into a
// next step for the sales floor.
func (p ScoringPolicy) RecommendedActionFor(agingScore, closeabilityScore float64, hasActiveCampaign bool) enums.RecommendedAction {
	switch {
	case agingScore >= 75 && closeabilityScore < 40:
		return enums.RecommendedActionEscalatePricing
	case agingScore >= 75:
		return enums.RecommendedActionDiscountToClose
	case agingScore >= 50 && hasActiveCampaign:
		return enums.RecommendedActionPushWithCampaign
	case agingScore >= 50:
		return enums.RecommendedActionDiscountToClose
	case agingScore >= 25 && closeabilityScore >= 60:
		return enums.RecommendedActionPromoteOnline
	default:
		return enums.RecommendedActionMonitor
	}
}

// daysBetween floors to whole days and never goes negative; a stock date in
// the future counts as day zero.
func daysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// band interpolates value linearly from [lo, hi] onto [scoreLo, scoreHi].
func band(value, lo, hi int, scoreLo, scoreHi float64) float64 {
	if hi <= lo {
		return scoreHi
	}
	fraction := float64(value-lo) / float64(hi-lo)
	return scoreLo + fraction*(scoreHi-scoreLo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
