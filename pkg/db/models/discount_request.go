package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// DiscountRequest is the persisted state of a discount approval workflow.
// Approved and rejected rows are terminal and kept forever for audit.
type DiscountRequest struct {
	ID      uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID uuid.UUID            `gorm:"column:order_id;type:uuid;not null"`
	Status  enums.DiscountStatus `gorm:"column:status;type:discount_status;not null;default:'pending_bm'"`

	OriginalPrice     decimal.Decimal `gorm:"column:original_price;type:numeric(12,2);not null"`
	CampaignDiscount  decimal.Decimal `gorm:"column:campaign_discount;type:numeric(12,2);not null;default:0"`
	RequestedDiscount decimal.Decimal `gorm:"column:requested_discount;type:numeric(12,2);not null"`
	FinalPrice        decimal.Decimal `gorm:"column:final_price;type:numeric(12,2);not null"`

	Justification string `gorm:"column:justification;type:text;not null"`
	BrandCode     string `gorm:"column:brand_code;type:text;not null;default:''"`

	// CurrentLevel only increases and never exceeds RequiredLevel.
	CurrentLevel  int `gorm:"column:current_level;not null;default:0"`
	RequiredLevel int `gorm:"column:required_level;not null"`

	RequestedBy uuid.UUID `gorm:"column:requested_by;type:uuid;not null"`
	RequestedAt time.Time `gorm:"column:requested_at;not null"`

	BMApprovedBy *uuid.UUID `gorm:"column:bm_approved_by;type:uuid"`
	BMApprovedAt *time.Time `gorm:"column:bm_approved_at"`
	BMComment    *string    `gorm:"column:bm_comment;type:text"`

	GMApprovedBy *uuid.UUID `gorm:"column:gm_approved_by;type:uuid"`
	GMApprovedAt *time.Time `gorm:"column:gm_approved_at"`
	GMComment    *string    `gorm:"column:gm_comment;type:text"`

	RejectedBy     *uuid.UUID `gorm:"column:rejected_by;type:uuid"`
	RejectedAt     *time.Time `gorm:"column:rejected_at"`
	RejectedReason *string    `gorm:"column:rejected_reason;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
