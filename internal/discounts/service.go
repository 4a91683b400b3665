package discounts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/internal/audit"
	"github.com/velocitymotors/dealerdesk-backend/internal/notifications"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderStore interface {
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Order, error)
	UpdateTotalAmount(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, amount decimal.Decimal) error
}

type auditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, input audit.RecordEntryInput) (*models.DiscountAuditEntry, error)
}

type workflowNotifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, msg notifications.Message) error
	NotifyRole(ctx context.Context, branchID uuid.UUID, role enums.StaffRole, msg notifications.Message) error
}

type decisionMetrics interface {
	IncDecision(action, outcome string)
}

// Service drives the discount approval workflow. Every mutation commits the
// request row, the order row when pricing finalizes, and the audit entry as
// one transaction; notifications go out only after that commit and a delivery
// failure is reported as a warning on the result, never as a rollback.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	Approve(ctx context.Context, input ApproveInput) (*DecisionResult, error)
	Reject(ctx context.Context, input RejectInput) (*DecisionResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.DiscountRequest, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	orders   orderStore
	rules    *RuleSet
	audit    auditRecorder
	notifier workflowNotifier
	metrics  decisionMetrics
}

// NewService builds a discount workflow service with the required dependencies.
func NewService(repo Repository, tx txRunner, orders orderStore, rules *RuleSet, auditRec auditRecorder, notifier workflowNotifier, metrics decisionMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule set required")
	}
	if auditRec == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if metrics == nil {
		return nil, fmt.Errorf("metrics required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		orders:   orders,
		rules:    rules,
		audit:    auditRec,
		notifier: notifier,
		metrics:  metrics,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.RequestedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	validation := s.rules.ValidateRequest(input.OriginalPrice, input.CampaignDiscount, input.RequestedDiscount, input.Justification)
	if !validation.Valid {
		s.metrics.IncDecision("submit", "rejected_validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount request failed validation").
			WithDetails(validation)
	}

	var (
		request *models.DiscountRequest
		order   *models.Order
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := s.orders.FindByID(ctx, tx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		order = found

		if _, err := repo.FindActiveByOrderID(ctx, input.OrderID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already has an active discount request")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active discount request")
		}

		brandCode := input.BrandCode
		if brandCode == "" {
			brandCode = order.BrandCode
		}
		requiredLevel := s.rules.RequiredApprovalLevel(input.RequestedDiscount, input.OriginalPrice, brandCode)
		finalPrice := input.OriginalPrice.Sub(input.CampaignDiscount).Sub(input.RequestedDiscount)

		request = &models.DiscountRequest{
			OrderID:           input.OrderID,
			Status:            enums.DiscountStatusPendingBM,
			OriginalPrice:     input.OriginalPrice,
			CampaignDiscount:  input.CampaignDiscount,
			RequestedDiscount: input.RequestedDiscount,
			FinalPrice:        finalPrice,
			Justification:     input.Justification,
			BrandCode:         brandCode,
			CurrentLevel:      0,
			RequiredLevel:     requiredLevel,
			RequestedBy:       input.RequestedBy,
			RequestedAt:       time.Now().UTC(),
		}
		if err := repo.Create(ctx, request); err != nil {
			// pre-check raced another submit; the partial index is the backstop
			if db.IsUniqueViolation(err, openRequestIndex) {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already has an active discount request")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount request")
		}

		_, err = s.audit.Record(ctx, tx, audit.RecordEntryInput{
			RequestID: request.ID,
			OrderID:   request.OrderID,
			Action:    enums.AuditActionSubmitted,
			Status:    request.Status,
			ActorID:   input.RequestedBy,
			ActorRole: enums.StaffRoleSalesRep,
		})
		return err
	})
	if err != nil {
		s.metrics.IncDecision("submit", "error")
		return nil, err
	}

	result := &SubmitResult{Request: request, Warnings: validation.Warnings}
	msg := notifications.Message{
		Type:        enums.NotificationTypeDiscountApproval,
		Title:       "Discount approval needed",
		Body:        fmt.Sprintf("Order #%d has a discount request of %s awaiting your review.", order.OrderNumber, request.RequestedDiscount.StringFixed(2)),
		ReferenceID: request.ID.String(),
	}
	if err := s.notifier.NotifyRole(ctx, order.BranchID, enums.StaffRoleBranchManager, msg); err != nil {
		result.Warnings = append(result.Warnings, "branch manager notification could not be delivered")
	}

	s.metrics.IncDecision("submit", "ok")
	return result, nil
}

func (s *service) Approve(ctx context.Context, input ApproveInput) (*DecisionResult, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.ActorRole.CanApproveDiscounts() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot approve discounts")
	}

	var (
		request *models.DiscountRequest
		order   *models.Order
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByIDForUpdate(ctx, input.RequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "discount request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount request")
		}
		request = found

		if request.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "discount request already finalized")
		}

		now := time.Now().UTC()
		var action enums.AuditAction

		switch input.ActorRole {
		case enums.StaffRoleBranchManager:
			if request.CurrentLevel != 0 {
				return pkgerrors.New(pkgerrors.CodeSequence, "branch manager approval already recorded")
			}
			request.CurrentLevel = 1
			request.BMApprovedBy = &input.ActorID
			request.BMApprovedAt = &now
			request.BMComment = input.Comment
			if request.RequiredLevel == 1 {
				request.Status = enums.DiscountStatusApproved
			} else {
				request.Status = enums.DiscountStatusPendingGM
			}
			action = enums.AuditActionBMApproved

		case enums.StaffRoleGeneralManager:
			if request.CurrentLevel < 1 {
				return pkgerrors.New(pkgerrors.CodeSequence, "branch manager approval required first")
			}
			request.CurrentLevel = 2
			request.GMApprovedBy = &input.ActorID
			request.GMApprovedAt = &now
			request.GMComment = input.Comment
			request.Status = enums.DiscountStatusApproved
			action = enums.AuditActionGMApproved
		}

		if err := repo.Update(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount request")
		}

		foundOrder, err := s.orders.FindByID(ctx, tx, request.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		order = foundOrder

		if request.Status == enums.DiscountStatusApproved {
			if err := s.orders.UpdateTotalAmount(ctx, tx, request.OrderID, request.FinalPrice); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize order pricing")
			}
		}

		_, err = s.audit.Record(ctx, tx, audit.RecordEntryInput{
			RequestID: request.ID,
			OrderID:   request.OrderID,
			Action:    action,
			Status:    request.Status,
			ActorID:   input.ActorID,
			ActorRole: input.ActorRole,
			Comment:   input.Comment,
		})
		return err
	})
	if err != nil {
		s.metrics.IncDecision("approve", "error")
		return nil, err
	}

	result := &DecisionResult{Request: request}
	if request.Status == enums.DiscountStatusApproved {
		msg := notifications.Message{
			Type:        enums.NotificationTypeDiscountDecision,
			Title:       "Discount approved",
			Body:        fmt.Sprintf("Your discount request on order #%d was approved; final price %s.", order.OrderNumber, request.FinalPrice.StringFixed(2)),
			ReferenceID: request.ID.String(),
		}
		if err := s.notifier.NotifyUser(ctx, request.RequestedBy, msg); err != nil {
			result.Warnings = append(result.Warnings, "requester notification could not be delivered")
		}
	} else {
		msg := notifications.Message{
			Type:        enums.NotificationTypeDiscountApproval,
			Title:       "Discount approval needed",
			Body:        fmt.Sprintf("Order #%d has a discount request awaiting general manager review.", order.OrderNumber),
			ReferenceID: request.ID.String(),
		}
		if err := s.notifier.NotifyRole(ctx, order.BranchID, enums.StaffRoleGeneralManager, msg); err != nil {
			result.Warnings = append(result.Warnings, "general manager notification could not be delivered")
		}
	}

	s.metrics.IncDecision("approve", "ok")
	return result, nil
}

func (s *service) Reject(ctx context.Context, input RejectInput) (*DecisionResult, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.ActorRole.CanApproveDiscounts() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot reject discounts")
	}
	if len(input.Reason) < minJustificationLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rejection reason must be at least %d characters", minJustificationLen))
	}

	var (
		request *models.DiscountRequest
		order   *models.Order
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByIDForUpdate(ctx, input.RequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "discount request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount request")
		}
		request = found

		if request.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "discount request already finalized")
		}

		now := time.Now().UTC()
		reason := input.Reason
		request.Status = enums.DiscountStatusRejected
		request.RejectedBy = &input.ActorID
		request.RejectedAt = &now
		request.RejectedReason = &reason

		if err := repo.Update(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount request")
		}

		foundOrder, err := s.orders.FindByID(ctx, tx, request.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		order = foundOrder

		_, err = s.audit.Record(ctx, tx, audit.RecordEntryInput{
			RequestID: request.ID,
			OrderID:   request.OrderID,
			Action:    enums.AuditActionRejected,
			Status:    request.Status,
			ActorID:   input.ActorID,
			ActorRole: input.ActorRole,
			Comment:   &reason,
		})
		return err
	})
	if err != nil {
		s.metrics.IncDecision("reject", "error")
		return nil, err
	}

	result := &DecisionResult{Request: request}
	msg := notifications.Message{
		Type:        enums.NotificationTypeDiscountDecision,
		Title:       "Discount rejected",
		Body:        fmt.Sprintf("Your discount request on order #%d was rejected: %s", order.OrderNumber, input.Reason),
		ReferenceID: request.ID.String(),
	}
	if err := s.notifier.NotifyUser(ctx, request.RequestedBy, msg); err != nil {
		result.Warnings = append(result.Warnings, "requester notification could not be delivered")
	}

	s.metrics.IncDecision("reject", "ok")
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount request")
	}
	return request, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.DiscountRequest, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	requests, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discount requests")
	}
	return requests, nil
}
