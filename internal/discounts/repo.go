package discounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// openRequestIndex is the partial unique index guarding one active discount
// request per order. A Create racing past the service pre-check fails on it.
const openRequestIndex = "idx_discount_requests_open_order"

// Repository manages persistence for discount requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.DiscountRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error)
	// FindByIDForUpdate takes a row lock so concurrent decisions on the same
	// request serialize instead of both observing the same level.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error)
	FindActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*models.DiscountRequest, error)
	Update(ctx context.Context, request *models.DiscountRequest) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.DiscountRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a discounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.DiscountRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error) {
	var request models.DiscountRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.DiscountRequest, error) {
	var request models.DiscountRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*models.DiscountRequest, error) {
	var request models.DiscountRequest
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, []enums.DiscountStatus{
			enums.DiscountStatusDraft,
			enums.DiscountStatusPendingBM,
			enums.DiscountStatusPendingGM,
		}).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) Update(ctx context.Context, request *models.DiscountRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.DiscountRequest, error) {
	var requests []models.DiscountRequest
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("requested_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
