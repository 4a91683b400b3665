package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
)

type scoringMetrics interface {
	ObserveScoring(report string, duration time.Duration)
}

// Service builds the ranked priority report over the current inventory
// snapshot. Scores are recomputed on every call and never persisted.
type Service interface {
	PriorityReport(ctx context.Context, params ReportParams) (*Report, error)
	ScoreItem(ctx context.Context, id uuid.UUID) (*ScoredItem, error)
}

type service struct {
	repo    Repository
	policy  ScoringPolicy
	metrics scoringMetrics
	now     func() time.Time
}

// ReportParams scopes the priority report.
type ReportParams struct {
	BranchID *uuid.UUID
}

// ScoredItem annotates one inventory unit with its scores and recommendation.
type ScoredItem struct {
	Item          models.VehicleInventory `json:"item"`
	Aging         AgingResult             `json:"aging"`
	Closeability  CloseabilityResult      `json:"closeability"`
	PriorityScore float64                 `json:"priority_score"`
	Urgency       enums.UrgencyLevel      `json:"urgency"`
	Action        enums.RecommendedAction `json:"recommended_action"`
}

// Summary aggregates the report into the buckets the sales dashboard shows.
type Summary struct {
	TotalItems   int                             `json:"total_items"`
	ByUrgency    map[enums.UrgencyLevel]int      `json:"by_urgency"`
	ByRisk       map[enums.RiskLevel]int         `json:"by_risk"`
	ValueAtRisk  decimal.Decimal                 `json:"value_at_risk"`
	ActionCounts map[enums.RecommendedAction]int `json:"action_counts"`
}

// Report is the ranked item list plus its aggregate summary.
type Report struct {
	Items   []ScoredItem `json:"items"`
	Summary Summary      `json:"summary"`
}

// NewService builds an inventory scoring service.
func NewService(repo Repository, policy ScoringPolicy, metrics scoringMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if metrics == nil {
		return nil, fmt.Errorf("metrics required")
	}
	return &service{
		repo:    repo,
		policy:  policy,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) PriorityReport(ctx context.Context, params ReportParams) (*Report, error) {
	started := s.now()

	items, err := s.repo.ListScorable(ctx, params.BranchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory snapshot")
	}

	now := s.now()
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, s.score(item, now))
	}

	// Rank by priority descending; float-equal scores are common with coarse
	// weight tables, so older stock wins the tie explicitly.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].PriorityScore != scored[j].PriorityScore {
			return scored[i].PriorityScore > scored[j].PriorityScore
		}
		return scored[i].Aging.DaysInStock > scored[j].Aging.DaysInStock
	})

	report := &Report{
		Items:   scored,
		Summary: summarize(scored),
	}
	s.metrics.ObserveScoring("priority", s.now().Sub(started))
	return report, nil
}

func (s *service) ScoreItem(ctx context.Context, id uuid.UUID) (*ScoredItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory id required")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if !item.Status.IsScorable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only in-transit and in-yard units are scorable")
	}

	result := s.score(*item, s.now())
	return &result, nil
}

func (s *service) score(item models.VehicleInventory, now time.Time) ScoredItem {
	aging := s.policy.AgingScore(item.StockDate, now)
	closeability := s.policy.CloseabilityScore(CloseabilitySignals{
		DaysInStock:        aging.DaysInStock,
		RecentInquiries:    item.RecentInquiries,
		RecentTestDrives:   item.RecentTestDrives,
		ColorPopularity:    item.ColorPopularity,
		HasActiveCampaign:  item.HasActiveCampaign,
		IsSeasonalFavorite: item.IsSeasonalFavorite,
	})
	priority := s.policy.PriorityScore(aging.Score, closeability.Score)

	return ScoredItem{
		Item:          item,
		Aging:         aging,
		Closeability:  closeability,
		PriorityScore: priority,
		Urgency:       s.policy.UrgencyFor(priority),
		Action:        s.policy.RecommendedActionFor(aging.Score, closeability.Score, item.HasActiveCampaign),
	}
}

func summarize(items []ScoredItem) Summary {
	summary := Summary{
		TotalItems:   len(items),
		ByUrgency:    map[enums.UrgencyLevel]int{},
		ByRisk:       map[enums.RiskLevel]int{},
		ActionCounts: map[enums.RecommendedAction]int{},
		ValueAtRisk:  decimal.Zero,
	}
	for _, scored := range items {
		summary.ByUrgency[scored.Urgency]++
		summary.ByRisk[scored.Aging.Risk]++
		summary.ActionCounts[scored.Action]++
		if scored.Aging.Risk == enums.RiskLevelHigh || scored.Aging.Risk == enums.RiskLevelCritical {
			summary.ValueAtRisk = summary.ValueAtRisk.Add(scored.Item.ListPrice)
		}
	}
	return summary
}
