package demand

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
)

type fakeDemandRepo struct {
	rows      []models.ColorDemandAnalysis
	byVariant []models.ColorDemandAnalysis
}

func (f *fakeDemandRepo) ListByMonth(ctx context.Context, month string) ([]models.ColorDemandAnalysis, error) {
	return f.rows, nil
}

func (f *fakeDemandRepo) ListByVariant(ctx context.Context, variantID uuid.UUID, month string) ([]models.ColorDemandAnalysis, error) {
	return f.byVariant, nil
}

type fakeMetrics struct {
	observed []string
}

func (f *fakeMetrics) ObserveScoring(report string, duration time.Duration) {
	f.observed = append(f.observed, report)
}

func newTestService(repo Repository) (*service, *fakeMetrics) {
	metrics := &fakeMetrics{}
	return &service{
		repo:     repo,
		deadBand: config.DemandPolicyConfig{DeadBand: 10}.DeadBand,
		metrics:  metrics,
		now:      func() time.Time { return time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC) },
	}, metrics
}

func TestMismatchReport_SortsByMagnitude(t *testing.T) {
	repo := &fakeDemandRepo{
		rows: []models.ColorDemandAnalysis{
			{ExteriorColor: "white", DemandScore: 55, SupplyScore: 50},
			{ExteriorColor: "black", DemandScore: 80, SupplyScore: 30},
			{ExteriorColor: "red", DemandScore: 20, SupplyScore: 90},
		},
	}
	svc, metrics := newTestService(repo)

	report, err := svc.MismatchReport(context.Background(), ReportParams{Month: "2026-07"})
	if err != nil {
		t.Fatalf("MismatchReport error: %v", err)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(report.Rows))
	}

	// red has the widest gap (70), then black (50), then white (balanced, 5)
	wantOrder := []string{"red", "black", "white"}
	for i, color := range wantOrder {
		if report.Rows[i].Analysis.ExteriorColor != color {
			t.Fatalf("row %d = %s, want %s", i, report.Rows[i].Analysis.ExteriorColor, color)
		}
	}
	if report.Rows[1].Mismatch.Status != enums.MismatchStatusUndersupplied || report.Rows[1].Mismatch.Score != 50 {
		t.Fatalf("black mismatch = %+v", report.Rows[1].Mismatch)
	}
	if report.Rows[2].Mismatch.Status != enums.MismatchStatusBalanced {
		t.Fatalf("white should be balanced, got %s", report.Rows[2].Mismatch.Status)
	}
	if len(metrics.observed) != 1 {
		t.Fatalf("expected one scoring observation, got %v", metrics.observed)
	}
}

func TestMismatchReport_DefaultsToCurrentMonth(t *testing.T) {
	svc, _ := newTestService(&fakeDemandRepo{})

	report, err := svc.MismatchReport(context.Background(), ReportParams{})
	if err != nil {
		t.Fatalf("MismatchReport error: %v", err)
	}
	if report.Month != "2026-08" {
		t.Fatalf("month = %s, want 2026-08", report.Month)
	}
}

func TestMismatchReport_RejectsBadMonth(t *testing.T) {
	svc, _ := newTestService(&fakeDemandRepo{})

	for _, month := range []string{"2026-13", "26-08", "august", "2026/08"} {
		_, err := svc.MismatchReport(context.Background(), ReportParams{Month: month})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("month %q: expected validation error, got %v", month, err)
		}
	}
}

func TestMismatchReport_VariantScope(t *testing.T) {
	variantID := uuid.New()
	repo := &fakeDemandRepo{
		rows:      []models.ColorDemandAnalysis{{ExteriorColor: "white"}, {ExteriorColor: "black"}},
		byVariant: []models.ColorDemandAnalysis{{ExteriorColor: "white", VariantID: variantID}},
	}
	svc, _ := newTestService(repo)

	report, err := svc.MismatchReport(context.Background(), ReportParams{Month: "2026-07", VariantID: &variantID})
	if err != nil {
		t.Fatalf("MismatchReport error: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].Analysis.VariantID != variantID {
		t.Fatalf("variant scoping failed: %+v", report.Rows)
	}
}
