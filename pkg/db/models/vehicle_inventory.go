package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// VehicleVariant is a sellable model/trim combination.
type VehicleVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BrandCode string    `gorm:"column:brand_code;type:text;not null"`
	ModelName string    `gorm:"column:model_name;type:text;not null"`
	TrimName  string    `gorm:"column:trim_name;type:text;not null"`
	ModelYear int       `gorm:"column:model_year;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// VehicleInventory is a physical unit in stock. Demand signal counters are
// maintained by intake/CRM writes; scoring reads them as a snapshot and never
// persists derived scores.
type VehicleInventory struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VIN       string                `gorm:"column:vin;type:text;not null;uniqueIndex"`
	VariantID uuid.UUID             `gorm:"column:variant_id;type:uuid;not null"`
	BranchID  uuid.UUID             `gorm:"column:branch_id;type:uuid;not null"`
	Status    enums.InventoryStatus `gorm:"column:status;type:inventory_status;not null;default:'in_transit'"`

	ExteriorColor string          `gorm:"column:exterior_color;type:text;not null"`
	ListPrice     decimal.Decimal `gorm:"column:list_price;type:numeric(12,2);not null"`
	StockDate     time.Time       `gorm:"column:stock_date;not null"`

	RecentInquiries    int  `gorm:"column:recent_inquiries;not null;default:0"`
	RecentTestDrives   int  `gorm:"column:recent_test_drives;not null;default:0"`
	ColorPopularity    int  `gorm:"column:color_popularity;not null;default:50"`
	HasActiveCampaign  bool `gorm:"column:has_active_campaign;not null;default:false"`
	IsSeasonalFavorite bool `gorm:"column:is_seasonal_favorite;not null;default:false"`

	Variant *VehicleVariant `gorm:"foreignKey:VariantID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
