package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// Service records and lists discount workflow audit entries.
type Service interface {
	// Record appends an entry inside the caller's transaction so the trail
	// commits or rolls back together with the workflow mutation.
	Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.DiscountAuditEntry, error)
	TrailForRequest(ctx context.Context, requestID uuid.UUID) ([]models.DiscountAuditEntry, error)
	TrailForOrder(ctx context.Context, orderID uuid.UUID) ([]models.DiscountAuditEntry, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data an audit entry requires.
type RecordEntryInput struct {
	RequestID uuid.UUID
	OrderID   uuid.UUID
	Action    enums.AuditAction
	Status    enums.DiscountStatus
	ActorID   uuid.UUID
	ActorRole enums.StaffRole
	Comment   *string
}

// NewService wires an audit service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.DiscountAuditEntry, error) {
	if input.RequestID == uuid.Nil {
		return nil, fmt.Errorf("request id is required")
	}
	if input.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	if input.ActorID == uuid.Nil {
		return nil, fmt.Errorf("actor id is required")
	}
	if !input.Action.IsValid() {
		return nil, fmt.Errorf("invalid audit action %q", input.Action)
	}
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("invalid discount status %q", input.Status)
	}
	if !input.ActorRole.IsValid() {
		return nil, fmt.Errorf("invalid staff role %q", input.ActorRole)
	}

	entry := &models.DiscountAuditEntry{
		RequestID: input.RequestID,
		OrderID:   input.OrderID,
		Action:    input.Action,
		Status:    input.Status,
		ActorID:   input.ActorID,
		ActorRole: input.ActorRole,
		Comment:   input.Comment,
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) TrailForRequest(ctx context.Context, requestID uuid.UUID) ([]models.DiscountAuditEntry, error) {
	if requestID == uuid.Nil {
		return nil, fmt.Errorf("request id is required")
	}
	return s.repo.ListByRequestID(ctx, requestID)
}

func (s *service) TrailForOrder(ctx context.Context, orderID uuid.UUID) ([]models.DiscountAuditEntry, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	return s.repo.ListByOrderID(ctx, orderID)
}
