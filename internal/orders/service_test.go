package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
)

type fakeOrdersRepo struct {
	byID    map[uuid.UUID]*models.Order
	listed  []models.Order
	updated []*models.Order
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{byID: map[uuid.UUID]*models.Order{}}
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	f.byID[order.ID] = order
	return nil
}

func (f *fakeOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := f.byID[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrdersRepo) ListByBranch(ctx context.Context, branchID uuid.UUID, stage *enums.OrderStage) ([]models.Order, error) {
	return f.listed, nil
}

func (f *fakeOrdersRepo) UpdateTotalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if order, ok := f.byID[id]; ok {
		order.TotalAmount = amount
	}
	return nil
}

func (f *fakeOrdersRepo) UpdateStage(ctx context.Context, order *models.Order) error {
	f.updated = append(f.updated, order)
	f.byID[order.ID] = order
	return nil
}

func newOrdersService(repo *fakeOrdersRepo, now time.Time) *service {
	return &service{
		repo: repo,
		sla:  testSLAPolicy(),
		now:  func() time.Time { return now },
	}
}

func seedOrder(repo *fakeOrdersRepo, stage enums.OrderStage, enteredDaysAgo int, now time.Time) *models.Order {
	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    1001,
		BranchID:       uuid.New(),
		BrandCode:      "VM",
		Stage:          stage,
		CustomerName:   "A Customer",
		SalesRepID:     uuid.New(),
		TotalAmount:    decimal.NewFromInt(100000),
		StageEnteredAt: now.Add(-time.Duration(enteredDaysAgo) * 24 * time.Hour),
	}
	repo.byID[order.ID] = order
	return order
}

func TestGet_AnnotatesSLA(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo := newFakeOrdersRepo()
	order := seedOrder(repo, enums.OrderStageNegotiation, 6, now)
	svc := newOrdersService(repo, now)

	got, err := svc.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.SLA.Status != enums.SLAStatusOverdue {
		t.Fatalf("6 days in negotiation should be overdue, got %s", got.SLA.Status)
	}
	if got.SLA.LimitDays != 5 || got.SLA.DaysInStage != 6 {
		t.Fatalf("unexpected SLA detail: %+v", got.SLA)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newOrdersService(newFakeOrdersRepo(), time.Now().UTC())

	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvanceStage_Forward(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo := newFakeOrdersRepo()
	order := seedOrder(repo, enums.OrderStageTestDrive, 1, now)
	svc := newOrdersService(repo, now)

	got, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
		OrderID: order.ID,
		Stage:   enums.OrderStageNegotiation,
		ActorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("AdvanceStage error: %v", err)
	}
	if got.Order.Stage != enums.OrderStageNegotiation {
		t.Fatalf("stage = %s", got.Order.Stage)
	}
	if !got.Order.StageEnteredAt.Equal(now) {
		t.Fatal("stage entry time should reset")
	}
	if got.SLA.Status != enums.SLAStatusOnTrack {
		t.Fatalf("fresh stage should be on track, got %s", got.SLA.Status)
	}
}

func TestAdvanceStage_ClosedSetsClosedAt(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo := newFakeOrdersRepo()
	order := seedOrder(repo, enums.OrderStageDelivery, 2, now)
	svc := newOrdersService(repo, now)

	got, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
		OrderID: order.ID,
		Stage:   enums.OrderStageClosed,
		ActorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("AdvanceStage error: %v", err)
	}
	if got.Order.ClosedAt == nil || !got.Order.ClosedAt.Equal(now) {
		t.Fatalf("closed_at not set: %+v", got.Order.ClosedAt)
	}
}

func TestAdvanceStage_BackwardIsSequenceError(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo := newFakeOrdersRepo()
	order := seedOrder(repo, enums.OrderStageContract, 1, now)
	svc := newOrdersService(repo, now)

	for _, stage := range []enums.OrderStage{enums.OrderStageInquiry, enums.OrderStageContract} {
		_, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
			OrderID: order.ID,
			Stage:   stage,
			ActorID: uuid.New(),
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeSequence {
			t.Fatalf("stage %s: expected sequence error, got %v", stage, err)
		}
	}
}

func TestAdvanceStage_ClosedIsTerminal(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo := newFakeOrdersRepo()
	order := seedOrder(repo, enums.OrderStageClosed, 1, now)
	svc := newOrdersService(repo, now)

	_, err := svc.AdvanceStage(context.Background(), AdvanceStageInput{
		OrderID: order.ID,
		Stage:   enums.OrderStageDelivery,
		ActorID: uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestListByBranch_AnnotatesEveryOrder(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo := newFakeOrdersRepo()
	repo.listed = []models.Order{
		{Stage: enums.OrderStageInquiry, StageEnteredAt: now.Add(-2 * 24 * time.Hour)},
		{Stage: enums.OrderStageDelivery, StageEnteredAt: now.Add(-1 * 24 * time.Hour)},
	}
	svc := newOrdersService(repo, now)

	got, err := svc.ListByBranch(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("ListByBranch error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	if got[0].SLA.Status != enums.SLAStatusOverdue {
		t.Fatalf("2 days in inquiry should be overdue, got %s", got[0].SLA.Status)
	}
	if got[1].SLA.Status != enums.SLAStatusOnTrack {
		t.Fatalf("1 day in delivery should be on track, got %s", got[1].SLA.Status)
	}
}
