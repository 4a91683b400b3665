package demand

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
)

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type scoringMetrics interface {
	ObserveScoring(report string, duration time.Duration)
}

// Service builds the demand/supply mismatch report over the monthly rollups.
type Service interface {
	MismatchReport(ctx context.Context, params ReportParams) (*Report, error)
}

type service struct {
	repo     Repository
	deadBand float64
	metrics  scoringMetrics
	now      func() time.Time
}

// ReportParams scopes the mismatch report. Month defaults to the current
// calendar month; VariantID narrows to one variant when set.
type ReportParams struct {
	Month     string
	VariantID *uuid.UUID
}

// Row annotates one rollup with its mismatch classification.
type Row struct {
	Analysis models.ColorDemandAnalysis `json:"analysis"`
	Mismatch Mismatch                   `json:"mismatch"`
}

// Report lists rows sorted by mismatch magnitude, largest gap first.
type Report struct {
	Month string `json:"month"`
	Rows  []Row  `json:"rows"`
}

// NewService builds a demand mismatch service.
func NewService(repo Repository, cfg config.DemandPolicyConfig, metrics scoringMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("demand repository required")
	}
	if metrics == nil {
		return nil, fmt.Errorf("metrics required")
	}
	return &service{
		repo:     repo,
		deadBand: cfg.DeadBand,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) MismatchReport(ctx context.Context, params ReportParams) (*Report, error) {
	started := s.now()

	month := params.Month
	if month == "" {
		month = s.now().Format("2006-01")
	}
	if !monthRe.MatchString(month) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month must be formatted YYYY-MM")
	}

	var (
		rows []models.ColorDemandAnalysis
		err  error
	)
	if params.VariantID != nil {
		rows, err = s.repo.ListByVariant(ctx, *params.VariantID, month)
	} else {
		rows, err = s.repo.ListByMonth(ctx, month)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load demand rollups")
	}

	report := &Report{Month: month, Rows: make([]Row, 0, len(rows))}
	for _, analysis := range rows {
		report.Rows = append(report.Rows, Row{
			Analysis: analysis,
			Mismatch: CalculateMismatch(analysis.DemandScore, analysis.SupplyScore, s.deadBand),
		})
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].Mismatch.Score > report.Rows[j].Mismatch.Score
	})

	s.metrics.ObserveScoring("demand_mismatch", s.now().Sub(started))
	return report, nil
}
