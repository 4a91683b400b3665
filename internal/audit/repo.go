package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
)

// Repository manages persistence for the discount approval audit trail.
// Entries are append-only; nothing updates or deletes them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.DiscountAuditEntry) error
	ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]models.DiscountAuditEntry, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.DiscountAuditEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.DiscountAuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]models.DiscountAuditEntry, error) {
	var entries []models.DiscountAuditEntry
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.DiscountAuditEntry, error) {
	var entries []models.DiscountAuditEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
