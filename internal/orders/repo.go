package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// Repository manages persistence for sales pipeline orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, stage *enums.OrderStage) ([]models.Order, error)
	UpdateTotalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	UpdateStage(ctx context.Context, order *models.Order) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByBranch(ctx context.Context, branchID uuid.UUID, stage *enums.OrderStage) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Where("branch_id = ?", branchID)
	if stage != nil {
		query = query.Where("stage = ?", *stage)
	}

	var orders []models.Order
	if err := query.Order("stage_entered_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateTotalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("total_amount", amount).Error
}

func (r *repository) UpdateStage(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"stage":            order.Stage,
			"stage_entered_at": order.StageEnteredAt,
			"closed_at":        order.ClosedAt,
		}).Error
}
