package models

import (
	"time"

	"github.com/google/uuid"
)

// ColorDemandAnalysis is the monthly demand/supply rollup per variant+color.
// Rows are produced by an upstream reporting pipeline and are read-only input
// to mismatch scoring.
type ColorDemandAnalysis struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID     uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	ExteriorColor string    `gorm:"column:exterior_color;type:text;not null"`
	Month         string    `gorm:"column:month;type:text;not null"` // YYYY-MM

	InquiryCount   int `gorm:"column:inquiry_count;not null;default:0"`
	TestDriveCount int `gorm:"column:test_drive_count;not null;default:0"`
	OrderCount     int `gorm:"column:order_count;not null;default:0"`
	DeliveryCount  int `gorm:"column:delivery_count;not null;default:0"`

	AvgStockLevel float64 `gorm:"column:avg_stock_level;not null;default:0"`
	Stockouts     int     `gorm:"column:stockouts;not null;default:0"`

	DemandScore float64 `gorm:"column:demand_score;not null;default:0"`
	SupplyScore float64 `gorm:"column:supply_score;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
