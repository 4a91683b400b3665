package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// Repository reads inventory snapshots for the scoring report.
type Repository interface {
	// ListScorable returns in_transit and in_yard units, optionally scoped to
	// one branch, with their variant preloaded.
	ListScorable(ctx context.Context, branchID *uuid.UUID) ([]models.VehicleInventory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VehicleInventory, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListScorable(ctx context.Context, branchID *uuid.UUID) ([]models.VehicleInventory, error) {
	query := r.db.WithContext(ctx).
		Preload("Variant").
		Where("status IN ?", []enums.InventoryStatus{
			enums.InventoryStatusInTransit,
			enums.InventoryStatusInYard,
		})
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var items []models.VehicleInventory
	if err := query.Order("stock_date ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VehicleInventory, error) {
	var item models.VehicleInventory
	err := r.db.WithContext(ctx).
		Preload("Variant").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
