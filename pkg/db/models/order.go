package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// Order is a sales pipeline deal for a single vehicle.
type Order struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber int64            `gorm:"column:order_number;not null"`
	BranchID    uuid.UUID        `gorm:"column:branch_id;type:uuid;not null"`
	BrandCode   string           `gorm:"column:brand_code;type:text;not null"`
	Stage       enums.OrderStage `gorm:"column:stage;type:order_stage;not null;default:'inquiry'"`

	CustomerName  string     `gorm:"column:customer_name;type:text;not null"`
	CustomerPhone *string    `gorm:"column:customer_phone;type:text"`
	InventoryID   *uuid.UUID `gorm:"column:inventory_id;type:uuid"`
	SalesRepID    uuid.UUID  `gorm:"column:sales_rep_id;type:uuid;not null"`

	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`

	StageEnteredAt time.Time  `gorm:"column:stage_entered_at;not null"`
	ClosedAt       *time.Time `gorm:"column:closed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
