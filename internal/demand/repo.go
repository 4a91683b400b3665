package demand

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
)

// Repository reads the monthly demand/supply rollups produced upstream.
type Repository interface {
	ListByMonth(ctx context.Context, month string) ([]models.ColorDemandAnalysis, error)
	ListByVariant(ctx context.Context, variantID uuid.UUID, month string) ([]models.ColorDemandAnalysis, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a demand repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByMonth(ctx context.Context, month string) ([]models.ColorDemandAnalysis, error) {
	var rows []models.ColorDemandAnalysis
	err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("variant_id ASC, exterior_color ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByVariant(ctx context.Context, variantID uuid.UUID, month string) ([]models.ColorDemandAnalysis, error) {
	var rows []models.ColorDemandAnalysis
	err := r.db.WithContext(ctx).
		Where("variant_id = ? AND month = ?", variantID, month).
		Order("exterior_color ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
