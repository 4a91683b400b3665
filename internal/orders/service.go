package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
)

// Service exposes pipeline reads plus the stage progression mutation.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*OrderWithSLA, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, stage *enums.OrderStage) ([]OrderWithSLA, error)
	AdvanceStage(ctx context.Context, input AdvanceStageInput) (*OrderWithSLA, error)
}

type service struct {
	repo Repository
	sla  SLAPolicy
	now  func() time.Time
}

// OrderWithSLA annotates an order with its current SLA standing.
type OrderWithSLA struct {
	Order models.Order `json:"order"`
	SLA   SLAResult    `json:"sla"`
}

// AdvanceStageInput moves an order to the next pipeline stage.
type AdvanceStageInput struct {
	OrderID uuid.UUID
	Stage   enums.OrderStage
	ActorID uuid.UUID
}

// NewService builds an orders service.
func NewService(repo Repository, sla SLAPolicy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		repo: repo,
		sla:  sla,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderWithSLA, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return s.annotate(*order), nil
}

func (s *service) ListByBranch(ctx context.Context, branchID uuid.UUID, stage *enums.OrderStage) ([]OrderWithSLA, error) {
	if branchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch id required")
	}
	if stage != nil && !stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stage %q", *stage))
	}

	orders, err := s.repo.ListByBranch(ctx, branchID, stage)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	annotated := make([]OrderWithSLA, 0, len(orders))
	for _, order := range orders {
		annotated = append(annotated, *s.annotate(order))
	}
	return annotated, nil
}

func (s *service) AdvanceStage(ctx context.Context, input AdvanceStageInput) (*OrderWithSLA, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stage %q", input.Stage))
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Stage == enums.OrderStageClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already closed")
	}
	if input.Stage.Rank() <= order.Stage.Rank() {
		return nil, pkgerrors.New(pkgerrors.CodeSequence, "pipeline stages only move forward")
	}

	now := s.now()
	order.Stage = input.Stage
	order.StageEnteredAt = now
	if input.Stage == enums.OrderStageClosed {
		order.ClosedAt = &now
	}

	if err := s.repo.UpdateStage(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order stage")
	}
	return s.annotate(*order), nil
}

func (s *service) annotate(order models.Order) *OrderWithSLA {
	return &OrderWithSLA{
		Order: order,
		SLA:   s.sla.Evaluate(order.Stage, order.StageEnteredAt, s.now()),
	}
}
